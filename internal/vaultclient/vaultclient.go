package vaultclient

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/passdesk/passdesk/internal/bridge"
	"github.com/passdesk/passdesk/internal/cards"
)

// Client issues vault commands over the bridge.
type Client struct {
	rpc *bridge.Client
}

// New wraps a bridge client.
func New(rpc *bridge.Client) *Client {
	return &Client{rpc: rpc}
}

// Session identifies an authenticated profile.
type Session struct {
	Token     string `json:"token"`
	ProfileID string `json:"profile_id"`
}

// Profiles lists the profiles the backend knows about.
func (c *Client) Profiles(ctx context.Context) ([]cards.Profile, error) {
	var out []cards.Profile
	if err := c.rpc.Invoke(ctx, "profile_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProfile registers a new profile with its master password.
func (c *Client) CreateProfile(ctx context.Context, name, masterPassword string) (cards.Profile, error) {
	args := struct {
		Name           string `json:"name"`
		MasterPassword string `json:"master_password"`
	}{name, masterPassword}
	var out cards.Profile
	if err := c.rpc.Invoke(ctx, "profile_create", args, &out); err != nil {
		return cards.Profile{}, err
	}
	return out, nil
}

// Login unlocks a profile's vault. The returned session token is attached
// to the bridge for subsequent calls.
func (c *Client) Login(ctx context.Context, profileID, masterPassword string) (Session, error) {
	args := struct {
		ProfileID      string `json:"profile_id"`
		MasterPassword string `json:"master_password"`
	}{profileID, masterPassword}
	var out Session
	if err := c.rpc.Invoke(ctx, "login_vault", args, &out); err != nil {
		return Session{}, err
	}
	c.rpc.SetToken(out.Token)
	return out, nil
}

// Resume attaches a previously issued session token and verifies it is
// still accepted by the backend.
func (c *Client) Resume(ctx context.Context, token string) error {
	c.rpc.SetToken(token)
	if _, err := c.Workspaces(ctx); err != nil {
		c.rpc.SetToken("")
		return err
	}
	return nil
}

// Logout locks the vault and discards the session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.rpc.Invoke(ctx, "logout_vault", nil, nil)
	c.rpc.SetToken("")
	return err
}

// Workspaces lists the workspaces of the logged-in profile.
func (c *Client) Workspaces(ctx context.Context) ([]cards.Workspace, error) {
	var out []cards.Workspace
	if err := c.rpc.Invoke(ctx, "workspace_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWorkspace adds a workspace.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (cards.Workspace, error) {
	args := struct {
		Name string `json:"name"`
	}{name}
	var out cards.Workspace
	if err := c.rpc.Invoke(ctx, "workspace_create", args, &out); err != nil {
		return cards.Workspace{}, err
	}
	return out, nil
}

// RenameWorkspace renames a workspace.
func (c *Client) RenameWorkspace(ctx context.Context, id, name string) error {
	args := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{id, name}
	return c.rpc.Invoke(ctx, "workspace_rename", args, nil)
}

// DeleteWorkspace removes a workspace and everything in it.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	args := struct {
		ID string `json:"id"`
	}{id}
	return c.rpc.Invoke(ctx, "workspace_delete", args, nil)
}

// Cards lists the cards of a workspace, optionally limited to one folder.
func (c *Client) Cards(ctx context.Context, workspaceID, folderID string) ([]cards.Card, error) {
	args := struct {
		WorkspaceID string `json:"workspace_id"`
		FolderID    string `json:"folder_id,omitempty"`
	}{workspaceID, folderID}
	var out []cards.Card
	if err := c.rpc.Invoke(ctx, "card_list", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Card fetches a single card with its secret fields.
func (c *Client) Card(ctx context.Context, id string) (cards.Card, error) {
	args := struct {
		ID string `json:"id"`
	}{id}
	var out cards.Card
	if err := c.rpc.Invoke(ctx, "card_get", args, &out); err != nil {
		return cards.Card{}, err
	}
	return out, nil
}

// CreateCard adds a card.
func (c *Client) CreateCard(ctx context.Context, card cards.Card) (cards.Card, error) {
	var out cards.Card
	if err := c.rpc.Invoke(ctx, "card_create", card, &out); err != nil {
		return cards.Card{}, err
	}
	return out, nil
}

// UpdateCard saves a card. The card's version must match the backend's or
// the call fails with bridge.ErrConflict; the caller then refetches and
// shows the user a diff.
func (c *Client) UpdateCard(ctx context.Context, card cards.Card) (cards.Card, error) {
	var out cards.Card
	if err := c.rpc.Invoke(ctx, "card_update", card, &out); err != nil {
		return cards.Card{}, err
	}
	return out, nil
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	args := struct {
		ID string `json:"id"`
	}{id}
	return c.rpc.Invoke(ctx, "card_delete", args, nil)
}

// CardHistory lists previous passwords of a card, newest first.
func (c *Client) CardHistory(ctx context.Context, id string) ([]cards.HistoryEntry, error) {
	args := struct {
		ID string `json:"id"`
	}{id}
	var out []cards.HistoryEntry
	if err := c.rpc.Invoke(ctx, "card_history", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Folders lists the folders of a workspace.
func (c *Client) Folders(ctx context.Context, workspaceID string) ([]cards.Folder, error) {
	args := struct {
		WorkspaceID string `json:"workspace_id"`
	}{workspaceID}
	var out []cards.Folder
	if err := c.rpc.Invoke(ctx, "folder_list", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFolder adds a folder to a workspace.
func (c *Client) CreateFolder(ctx context.Context, workspaceID, name string) (cards.Folder, error) {
	args := struct {
		WorkspaceID string `json:"workspace_id"`
		Name        string `json:"name"`
	}{workspaceID, name}
	var out cards.Folder
	if err := c.rpc.Invoke(ctx, "folder_create", args, &out); err != nil {
		return cards.Folder{}, err
	}
	return out, nil
}

// RenameFolder renames a folder.
func (c *Client) RenameFolder(ctx context.Context, id, name string) error {
	args := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{id, name}
	return c.rpc.Invoke(ctx, "folder_rename", args, nil)
}

// DeleteFolder removes a folder; its cards move to the workspace root.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	args := struct {
		ID string `json:"id"`
	}{id}
	return c.rpc.Invoke(ctx, "folder_delete", args, nil)
}

// Attachments lists a card's attachments.
func (c *Client) Attachments(ctx context.Context, cardID string) ([]cards.Attachment, error) {
	args := struct {
		CardID string `json:"card_id"`
	}{cardID}
	var out []cards.Attachment
	if err := c.rpc.Invoke(ctx, "attachment_list", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadAttachment stores a file against a card.
func (c *Client) UploadAttachment(ctx context.Context, cardID, name string, content []byte) (cards.Attachment, error) {
	args := struct {
		CardID  string `json:"card_id"`
		Name    string `json:"name"`
		Content string `json:"content_base64"`
	}{cardID, name, base64.StdEncoding.EncodeToString(content)}
	var out cards.Attachment
	if err := c.rpc.Invoke(ctx, "attachment_upload", args, &out); err != nil {
		return cards.Attachment{}, err
	}
	return out, nil
}

// DownloadAttachment fetches an attachment's name and contents.
func (c *Client) DownloadAttachment(ctx context.Context, id string) (string, []byte, error) {
	args := struct {
		ID string `json:"id"`
	}{id}
	var out struct {
		Name    string `json:"name"`
		Content string `json:"content_base64"`
	}
	if err := c.rpc.Invoke(ctx, "attachment_download", args, &out); err != nil {
		return "", nil, err
	}
	content, err := base64.StdEncoding.DecodeString(out.Content)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode attachment content: %w", err)
	}
	return out.Name, content, nil
}

// DeleteAttachment removes an attachment.
func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	args := struct {
		ID string `json:"id"`
	}{id}
	return c.rpc.Invoke(ctx, "attachment_delete", args, nil)
}

// CreateBackup asks the backend to write a backup. The format and location
// are the backend's business; the client only relays the path it reports.
func (c *Client) CreateBackup(ctx context.Context) (string, error) {
	var out struct {
		Path string `json:"path"`
	}
	if err := c.rpc.Invoke(ctx, "create_backup", nil, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

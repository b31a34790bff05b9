package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/passdesk/passdesk/internal/bridge"
	"github.com/passdesk/passdesk/internal/cards"
	"github.com/passdesk/passdesk/internal/keyring"
	"github.com/passdesk/passdesk/internal/prefs"
	"github.com/passdesk/passdesk/internal/vaultclient"
)

// Env bundles what every command needs: the preference store and a vault
// client over the bridge.
type Env struct {
	Prefs *prefs.Store
	Vault *vaultclient.Client
	rpc   *bridge.Client
}

// OpenEnv opens the preference store and builds the bridge client. The
// backend endpoint resolves in order: PASSDESK_ENDPOINT, stored
// preference, built-in default.
func OpenEnv() (*Env, error) {
	path, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := prefs.Open(path)
	if err != nil {
		return nil, err
	}

	endpoint := os.Getenv("PASSDESK_ENDPOINT")
	if endpoint == "" {
		endpoint, err = store.Endpoint()
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	rpc := bridge.New(endpoint)
	return &Env{
		Prefs: store,
		Vault: vaultclient.New(rpc),
		rpc:   rpc,
	}, nil
}

// OpenEnvOrExit is OpenEnv for command entry points.
func OpenEnvOrExit() *Env {
	env, err := OpenEnv()
	if err != nil {
		HandleError(err)
	}
	return env
}

// Close releases the preference store.
func (e *Env) Close() {
	if e.Prefs != nil {
		e.Prefs.Close()
	}
}

// RequireSession resumes the remembered session for the active profile.
func (e *Env) RequireSession(ctx context.Context) error {
	profileID, err := e.Prefs.ActiveProfile()
	if err != nil {
		return err
	}
	if profileID == "" {
		return errors.New("not logged in (run 'passdesk login')")
	}
	token, err := keyring.GetToken(profileID)
	if err != nil {
		return errors.New("no remembered session (run 'passdesk login')")
	}
	if err := e.Vault.Resume(ctx, token); err != nil {
		if errors.Is(err, bridge.ErrVaultLocked) || errors.Is(err, bridge.ErrAuthFailed) {
			return errors.New("session expired (run 'passdesk login')")
		}
		return err
	}
	return nil
}

// RequireWorkspace returns the selected workspace ID, preferring the
// -workspace flag value over the stored selection.
func (e *Env) RequireWorkspace(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	id, err := e.Prefs.ActiveWorkspace()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("no workspace selected (run 'passdesk use <workspace>')")
	}
	return id, nil
}

// FindCard resolves a card reference (exact ID or case-insensitive title)
// within the workspace.
func (e *Env) FindCard(ctx context.Context, workspaceID, ref string) (cards.Card, error) {
	list, err := e.Vault.Cards(ctx, workspaceID, "")
	if err != nil {
		return cards.Card{}, err
	}
	var matches []cards.Card
	for _, c := range list {
		if c.ID == ref {
			return c, nil
		}
		if strings.EqualFold(c.Title, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return cards.Card{}, fmt.Errorf("no card matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		return cards.Card{}, fmt.Errorf("%d cards titled %q, use the card ID", len(matches), ref)
	}
}

// FindFolder resolves a folder reference (exact ID or case-insensitive
// name) within the workspace.
func (e *Env) FindFolder(ctx context.Context, workspaceID, ref string) (cards.Folder, error) {
	list, err := e.Vault.Folders(ctx, workspaceID)
	if err != nil {
		return cards.Folder{}, err
	}
	for _, f := range list {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return cards.Folder{}, fmt.Errorf("no folder matching %q", ref)
}

// ReadPassword reads a password from the terminal without echoing.
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// GetMasterPassword retrieves the master password from PASSDESK_PASSWORD
// or prompts for it.
func GetMasterPassword() (string, error) {
	if password := os.Getenv("PASSDESK_PASSWORD"); password != "" {
		return password, nil
	}
	return ReadPassword("Master password: ")
}

// HandleError prints a friendly message for known failures and exits.
func HandleError(err error) {
	switch {
	case errors.Is(err, bridge.ErrAuthFailed):
		fmt.Fprintf(os.Stderr, "Error: authentication failed\n")
	case errors.Is(err, bridge.ErrVaultLocked):
		fmt.Fprintf(os.Stderr, "Error: vault is locked\n")
		fmt.Fprintf(os.Stderr, "Run 'passdesk login' first\n")
	case errors.Is(err, bridge.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, bridge.ErrUnavailable):
		fmt.Fprintf(os.Stderr, "Error: cannot reach the backend\n")
		fmt.Fprintf(os.Stderr, "Is the backend running? Try 'passdesk devserver' for development\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

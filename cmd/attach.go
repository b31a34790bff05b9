package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/passdesk/passdesk/internal/cards"
	"github.com/passdesk/passdesk/internal/security"
)

// Attach uploads a file as an attachment of a card.
func Attach(ctx context.Context, workspace, cardRef, file string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	card, err := env.FindCard(ctx, workspaceID, cardRef)
	if err != nil {
		HandleError(err)
	}

	content, err := os.ReadFile(file)
	if err != nil {
		HandleError(fmt.Errorf("failed to read %s: %w", file, err))
	}
	name := filepath.Base(file)
	if _, err := security.SanitizeName(name); err != nil {
		HandleError(err)
	}

	attachment, err := env.Vault.UploadAttachment(ctx, card.ID, name, content)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Attached %s (%s) to %s\n",
		attachment.Name, cards.FormatSize(attachment.Size), card.Title)
}

// Attachments lists a card's attachments.
func Attachments(ctx context.Context, workspace, cardRef string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	card, err := env.FindCard(ctx, workspaceID, cardRef)
	if err != nil {
		HandleError(err)
	}
	list, err := env.Vault.Attachments(ctx, card.ID)
	if err != nil {
		HandleError(err)
	}
	if len(list) == 0 {
		fmt.Println("No attachments")
		return
	}

	now := time.Now()
	for _, a := range list {
		fmt.Printf("%s  %-30s %10s  %s\n",
			a.ID, a.Name, cards.FormatSize(a.Size), cards.FormatRelative(a.CreatedAt, now))
	}
}

// AttachmentGet downloads an attachment into dir. The backend-supplied
// name is validated so it cannot land outside dir.
func AttachmentGet(ctx context.Context, workspace, cardRef, attachmentID, dir string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	card, err := env.FindCard(ctx, workspaceID, cardRef)
	if err != nil {
		HandleError(err)
	}
	list, err := env.Vault.Attachments(ctx, card.ID)
	if err != nil {
		HandleError(err)
	}
	id := attachmentID
	if id == "" && len(list) == 1 {
		id = list[0].ID
	}
	if id == "" {
		HandleError(fmt.Errorf("card has %d attachments, pass the attachment ID", len(list)))
	}

	name, content, err := env.Vault.DownloadAttachment(ctx, id)
	if err != nil {
		HandleError(err)
	}

	saver, err := security.NewSaver(dir)
	if err != nil {
		HandleError(err)
	}
	defer saver.Close()

	if err := saver.SaveFile(name, content); err != nil {
		HandleError(err)
	}
	fmt.Printf("Saved %s (%s) to %s\n",
		name, cards.FormatSize(int64(len(content))), saver.Dir())
}

// AttachmentRemove deletes an attachment.
func AttachmentRemove(ctx context.Context, workspace, cardRef, attachmentID string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	if _, err := env.FindCard(ctx, workspaceID, cardRef); err != nil {
		HandleError(err)
	}
	if err := env.Vault.DeleteAttachment(ctx, attachmentID); err != nil {
		HandleError(err)
	}
	fmt.Println("Attachment deleted")
}

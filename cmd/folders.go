package cmd

import (
	"context"
	"fmt"

	"github.com/passdesk/passdesk/internal/cards"
)

// Folders lists the folders of the selected workspace.
func Folders(ctx context.Context, workspace string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	list, err := env.Vault.Folders(ctx, workspaceID)
	if err != nil {
		HandleError(err)
	}
	if len(list) == 0 {
		fmt.Println("No folders")
		return
	}

	cards.SortFolders(list)
	for _, f := range list {
		fmt.Printf("%s  %s\n", f.ID, f.Name)
	}
}

// FolderAdd creates a folder in the selected workspace.
func FolderAdd(ctx context.Context, workspace, name string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	folder, err := env.Vault.CreateFolder(ctx, workspaceID, name)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Created folder %s (%s)\n", folder.Name, folder.ID)
}

// FolderRename renames a folder.
func FolderRename(ctx context.Context, workspace, ref, name string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	folder, err := env.FindFolder(ctx, workspaceID, ref)
	if err != nil {
		HandleError(err)
	}
	if err := env.Vault.RenameFolder(ctx, folder.ID, name); err != nil {
		HandleError(err)
	}
	fmt.Printf("Renamed %s to %s\n", folder.Name, name)
}

// FolderRemove deletes a folder; its cards move to the workspace root.
func FolderRemove(ctx context.Context, workspace, ref string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	folder, err := env.FindFolder(ctx, workspaceID, ref)
	if err != nil {
		HandleError(err)
	}
	if err := env.Vault.DeleteFolder(ctx, folder.ID); err != nil {
		HandleError(err)
	}
	fmt.Printf("Deleted folder %s (cards moved to workspace root)\n", folder.Name)
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/passdesk/passdesk/internal/cards"
)

// Workspaces lists the logged-in profile's workspaces.
func Workspaces(ctx context.Context) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}

	list, err := env.Vault.Workspaces(ctx)
	if err != nil {
		HandleError(err)
	}
	if len(list) == 0 {
		fmt.Println("No workspaces yet")
		fmt.Println("Run 'passdesk workspace-add <name>' to create one")
		return
	}

	cards.SortWorkspaces(list)
	active, _ := env.Prefs.ActiveWorkspace()
	now := time.Now()
	for _, ws := range list {
		marker := "  "
		if ws.ID == active {
			marker = "* "
		}
		fmt.Printf("%s%s  %-20s %3d cards  updated %s\n",
			marker, ws.ID, ws.Name, ws.CardCount, cards.FormatRelative(ws.UpdatedAt, now))
	}
}

// WorkspaceAdd creates a workspace.
func WorkspaceAdd(ctx context.Context, name string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}

	ws, err := env.Vault.CreateWorkspace(ctx, name)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Created workspace %s (%s)\n", ws.Name, ws.ID)
}

// WorkspaceRename renames a workspace.
func WorkspaceRename(ctx context.Context, ref, name string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}

	ws, err := findWorkspace(ctx, env, ref)
	if err != nil {
		HandleError(err)
	}
	if err := env.Vault.RenameWorkspace(ctx, ws.ID, name); err != nil {
		HandleError(err)
	}
	fmt.Printf("Renamed %s to %s\n", ws.Name, name)
}

// WorkspaceRemove deletes a workspace after confirmation.
func WorkspaceRemove(ctx context.Context, ref string, force bool) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}

	ws, err := findWorkspace(ctx, env, ref)
	if err != nil {
		HandleError(err)
	}

	if !force {
		fmt.Printf("Delete workspace %s and its %d card(s)? [y/N]: ", ws.Name, ws.CardCount)
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled")
			return
		}
	}

	if err := env.Vault.DeleteWorkspace(ctx, ws.ID); err != nil {
		HandleError(err)
	}
	if active, _ := env.Prefs.ActiveWorkspace(); active == ws.ID {
		env.Prefs.SetActiveWorkspace("")
	}
	fmt.Printf("Deleted workspace %s\n", ws.Name)
}

// Use selects the workspace subsequent card commands operate on.
func Use(ctx context.Context, ref string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}

	ws, err := findWorkspace(ctx, env, ref)
	if err != nil {
		HandleError(err)
	}
	if err := env.Prefs.SetActiveWorkspace(ws.ID); err != nil {
		HandleError(err)
	}
	fmt.Printf("Using workspace %s\n", ws.Name)
}

func findWorkspace(ctx context.Context, env *Env, ref string) (cards.Workspace, error) {
	list, err := env.Vault.Workspaces(ctx)
	if err != nil {
		return cards.Workspace{}, err
	}
	for _, ws := range list {
		if ws.ID == ref || strings.EqualFold(ws.Name, ref) {
			return ws, nil
		}
	}
	return cards.Workspace{}, fmt.Errorf("no workspace matching %q", ref)
}

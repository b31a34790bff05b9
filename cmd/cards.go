package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/passdesk/passdesk/internal/bridge"
	"github.com/passdesk/passdesk/internal/cards"
	"github.com/passdesk/passdesk/internal/passgen"
)

// ListOptions carries the ls command's flags.
type ListOptions struct {
	Workspace string
	Folder    string
	Sort      string
}

// List prints the cards of the selected workspace.
func List(ctx context.Context, opts ListOptions) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(opts.Workspace)
	if err != nil {
		HandleError(err)
	}

	folderID := ""
	if opts.Folder != "" {
		folder, err := env.FindFolder(ctx, workspaceID, opts.Folder)
		if err != nil {
			HandleError(err)
		}
		folderID = folder.ID
	}

	list, err := env.Vault.Cards(ctx, workspaceID, folderID)
	if err != nil {
		HandleError(err)
	}
	if len(list) == 0 {
		fmt.Println("No cards")
		return
	}

	order, err := env.Prefs.SortOrder()
	if err != nil {
		HandleError(err)
	}
	if opts.Sort != "" {
		if !cards.ValidSortOrder(opts.Sort) {
			HandleError(fmt.Errorf("unknown sort order %q (title, updated, created)", opts.Sort))
		}
		order = cards.SortOrder(opts.Sort)
	}
	cards.SortCards(list, order)

	folders, err := env.Vault.Folders(ctx, workspaceID)
	if err != nil {
		HandleError(err)
	}
	folderNames := make(map[string]string, len(folders))
	for _, f := range folders {
		folderNames[f.ID] = f.Name
	}

	now := time.Now()
	for _, c := range list {
		star := " "
		if c.Favorite {
			star = "★"
		}
		location := ""
		if name, ok := folderNames[c.FolderID]; ok {
			location = name + "/"
		}
		fmt.Printf("%s %s  %-30s %-24s %s\n",
			star, c.ID, location+c.Title, c.Username, cards.FormatRelative(c.UpdatedAt, now))
	}
}

// ShowOptions carries the show command's flags.
type ShowOptions struct {
	Workspace string
	Reveal    bool
	Copy      bool
}

// Show prints one card. The password stays masked unless -reveal is set;
// -copy puts it on the clipboard through the auto-clear guard instead of
// printing it.
func Show(ctx context.Context, ref string, opts ShowOptions) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(opts.Workspace)
	if err != nil {
		HandleError(err)
	}

	found, err := env.FindCard(ctx, workspaceID, ref)
	if err != nil {
		HandleError(err)
	}
	card, err := env.Vault.Card(ctx, found.ID)
	if err != nil {
		HandleError(err)
	}

	password := cards.MaskSecret(card.Password)
	if opts.Reveal {
		password = card.Password
	}

	fmt.Printf("Title:    %s\n", card.Title)
	if card.Username != "" {
		fmt.Printf("Username: %s\n", card.Username)
	}
	fmt.Printf("Password: %s\n", password)
	if card.URL != "" {
		fmt.Printf("URL:      %s\n", card.URL)
	}
	if card.Notes != "" {
		fmt.Printf("Notes:    %s\n", card.Notes)
	}
	fmt.Printf("Updated:  %s (v%d)\n", card.UpdatedAt.Format(time.RFC3339), card.Version)

	if opts.Copy {
		copySecretAndWait(ctx, env, card.Password, 0)
	}
}

// AddOptions carries the add command's flags.
type AddOptions struct {
	Workspace string
	Title     string
	Username  string
	Password  string
	Generate  bool
	URL       string
	Notes     string
	Folder    string
	Favorite  bool
}

// Add creates a card. With -gen the password comes from the generator;
// with neither -password nor -gen it is prompted for.
func Add(ctx context.Context, opts AddOptions) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(opts.Workspace)
	if err != nil {
		HandleError(err)
	}

	password := opts.Password
	switch {
	case opts.Generate:
		password, err = passgen.Generate(passgen.DefaultOptions())
		if err != nil {
			HandleError(err)
		}
	case password == "":
		password, err = ReadPassword("Card password (empty to skip): ")
		if err != nil {
			HandleError(err)
		}
	}

	folderID := ""
	if opts.Folder != "" {
		folder, err := env.FindFolder(ctx, workspaceID, opts.Folder)
		if err != nil {
			HandleError(err)
		}
		folderID = folder.ID
	}

	card, err := env.Vault.CreateCard(ctx, cards.Card{
		WorkspaceID: workspaceID,
		FolderID:    folderID,
		Title:       opts.Title,
		Username:    opts.Username,
		Password:    password,
		URL:         opts.URL,
		Notes:       opts.Notes,
		Favorite:    opts.Favorite,
	})
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Created card %s (%s)\n", card.Title, card.ID)
}

// EditOptions carries the edit command's flags. Nil fields are left
// unchanged.
type EditOptions struct {
	Workspace string
	Title     *string
	Username  *string
	Password  *string
	Generate  bool
	URL       *string
	Notes     *string
	Folder    *string
	Favorite  *bool
}

// Edit updates a card. On a version conflict it shows a diff of the notes
// against the backend's copy instead of overwriting blind.
func Edit(ctx context.Context, ref string, opts EditOptions) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(opts.Workspace)
	if err != nil {
		HandleError(err)
	}

	found, err := env.FindCard(ctx, workspaceID, ref)
	if err != nil {
		HandleError(err)
	}
	card, err := env.Vault.Card(ctx, found.ID)
	if err != nil {
		HandleError(err)
	}

	if opts.Title != nil {
		card.Title = *opts.Title
	}
	if opts.Username != nil {
		card.Username = *opts.Username
	}
	if opts.Password != nil {
		card.Password = *opts.Password
	}
	if opts.Generate {
		card.Password, err = passgen.Generate(passgen.DefaultOptions())
		if err != nil {
			HandleError(err)
		}
	}
	if opts.URL != nil {
		card.URL = *opts.URL
	}
	if opts.Notes != nil {
		card.Notes = *opts.Notes
	}
	if opts.Folder != nil {
		folderID := ""
		if *opts.Folder != "" {
			folder, err := env.FindFolder(ctx, workspaceID, *opts.Folder)
			if err != nil {
				HandleError(err)
			}
			folderID = folder.ID
		}
		card.FolderID = folderID
	}
	if opts.Favorite != nil {
		card.Favorite = *opts.Favorite
	}

	updated, err := env.Vault.UpdateCard(ctx, card)
	if errors.Is(err, bridge.ErrConflict) {
		remote, getErr := env.Vault.Card(ctx, card.ID)
		if getErr != nil {
			HandleError(getErr)
		}
		fmt.Println("The card changed on the backend while you were editing.")
		fmt.Println("Notes difference (your version vs backend):")
		fmt.Println(cards.RenderNotesDiff(card.Notes, remote.Notes))
		fmt.Println("\nRe-run the edit to apply your change on top of the latest version.")
		return
	}
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Updated card %s (v%d)\n", updated.Title, updated.Version)
}

// Remove deletes a card after confirmation.
func Remove(ctx context.Context, ref string, workspace string, force bool) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	card, err := env.FindCard(ctx, workspaceID, ref)
	if err != nil {
		HandleError(err)
	}

	if !force {
		fmt.Printf("Delete card %s? [y/N]: ", card.Title)
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled")
			return
		}
	}

	if err := env.Vault.DeleteCard(ctx, card.ID); err != nil {
		HandleError(err)
	}
	fmt.Printf("Deleted card %s\n", card.Title)
}

// History lists a card's previous passwords, masked.
func History(ctx context.Context, ref string, workspace string, reveal bool) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}
	workspaceID, err := env.RequireWorkspace(workspace)
	if err != nil {
		HandleError(err)
	}

	card, err := env.FindCard(ctx, workspaceID, ref)
	if err != nil {
		HandleError(err)
	}
	history, err := env.Vault.CardHistory(ctx, card.ID)
	if err != nil {
		HandleError(err)
	}
	if len(history) == 0 {
		fmt.Println("No password history")
		return
	}

	for i, entry := range history {
		password := cards.MaskSecret(entry.Password)
		if reveal {
			password = entry.Password
		}
		fmt.Printf("%2d  %s  %s\n", i+1, entry.ChangedAt.Format(time.RFC3339), password)
	}
	fmt.Println("\nUse 'passdesk copy <card> -history <n>' to copy an old password")
}

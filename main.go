package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/passdesk/passdesk/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "profiles":
		runProfiles(ctx, os.Args[2:])
	case "create-profile":
		runCreateProfile(ctx, os.Args[2:])
	case "login":
		runLogin(ctx, os.Args[2:])
	case "logout":
		runLogout(ctx, os.Args[2:])
	case "workspaces":
		runWorkspaces(ctx, os.Args[2:])
	case "workspace-add":
		runWorkspaceAdd(ctx, os.Args[2:])
	case "workspace-rename":
		runWorkspaceRename(ctx, os.Args[2:])
	case "workspace-rm":
		runWorkspaceRemove(ctx, os.Args[2:])
	case "use":
		runUse(ctx, os.Args[2:])
	case "ls":
		runList(ctx, os.Args[2:])
	case "show":
		runShow(ctx, os.Args[2:])
	case "copy":
		runCopy(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "edit":
		runEdit(ctx, os.Args[2:])
	case "rm":
		runRemove(ctx, os.Args[2:])
	case "history":
		runHistory(ctx, os.Args[2:])
	case "folders":
		runFolders(ctx, os.Args[2:])
	case "folder-add":
		runFolderAdd(ctx, os.Args[2:])
	case "folder-rename":
		runFolderRename(ctx, os.Args[2:])
	case "folder-rm":
		runFolderRemove(ctx, os.Args[2:])
	case "gen":
		runGen(ctx, os.Args[2:])
	case "attach":
		runAttach(ctx, os.Args[2:])
	case "attachments":
		runAttachments(ctx, os.Args[2:])
	case "attachment-get":
		runAttachmentGet(ctx, os.Args[2:])
	case "attachment-rm":
		runAttachmentRemove(ctx, os.Args[2:])
	case "backup":
		runBackup(ctx, os.Args[2:])
	case "clear-clipboard":
		runClearClipboard(ctx, os.Args[2:])
	case "config":
		runConfig(ctx, os.Args[2:])
	case "devserver":
		runDevServer(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseOrExit(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func requireArg(fs *flag.FlagSet, n int, usage string) string {
	if len(fs.Args()) <= n {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}
	return fs.Args()[n]
}

func runProfiles(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("profiles", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.Profiles(ctx)
}

func runCreateProfile(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("create-profile", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.CreateProfile(ctx, requireArg(fs, 0, "passdesk create-profile <name>"))
}

func runLogin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	profile := fs.String("profile", "", "Profile ID to log into")
	parseOrExit(fs, args)
	cmd.Login(ctx, *profile)
}

func runLogout(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.Logout(ctx)
}

func runWorkspaces(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("workspaces", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.Workspaces(ctx)
}

func runWorkspaceAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("workspace-add", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.WorkspaceAdd(ctx, requireArg(fs, 0, "passdesk workspace-add <name>"))
}

func runWorkspaceRename(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("workspace-rename", flag.ExitOnError)
	parseOrExit(fs, args)
	ref := requireArg(fs, 0, "passdesk workspace-rename <workspace> <new-name>")
	name := requireArg(fs, 1, "passdesk workspace-rename <workspace> <new-name>")
	cmd.WorkspaceRename(ctx, ref, name)
}

func runWorkspaceRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("workspace-rm", flag.ExitOnError)
	force := fs.Bool("force", false, "Delete without confirmation")
	parseOrExit(fs, args)
	cmd.WorkspaceRemove(ctx, requireArg(fs, 0, "passdesk workspace-rm <workspace>"), *force)
}

func runUse(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("use", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.Use(ctx, requireArg(fs, 0, "passdesk use <workspace>"))
}

func runList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	folder := fs.String("folder", "", "Only cards in this folder")
	sortOrder := fs.String("sort", "", "Sort order: title, updated, created")
	parseOrExit(fs, args)
	cmd.List(ctx, cmd.ListOptions{Workspace: *workspace, Folder: *folder, Sort: *sortOrder})
}

func runShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	reveal := fs.Bool("reveal", false, "Print the password instead of masking it")
	copyFlag := fs.Bool("copy", false, "Copy the password to the clipboard")
	parseOrExit(fs, args)
	cmd.Show(ctx, requireArg(fs, 0, "passdesk show <card>"), cmd.ShowOptions{
		Workspace: *workspace,
		Reveal:    *reveal,
		Copy:      *copyFlag,
	})
}

func runCopy(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	username := fs.Bool("username", false, "Copy the username instead of the password")
	history := fs.Int("history", 0, "Copy the nth previous password")
	timeout := fs.Int("timeout", 0, "Override the auto-clear timeout in seconds")
	parseOrExit(fs, args)
	cmd.Copy(ctx, requireArg(fs, 0, "passdesk copy <card>"), cmd.CopyOptions{
		Workspace: *workspace,
		Username:  *username,
		History:   *history,
		Timeout:   *timeout,
	})
}

func runAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	title := fs.String("title", "", "Card title (required)")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password (prompted when omitted)")
	gen := fs.Bool("gen", false, "Generate the password")
	url := fs.String("url", "", "URL")
	notes := fs.String("notes", "", "Notes")
	folder := fs.String("folder", "", "Folder name or ID")
	favorite := fs.Bool("favorite", false, "Mark as favorite")
	parseOrExit(fs, args)
	if *title == "" {
		fmt.Fprintln(os.Stderr, "Usage: passdesk add -title <title> [flags]")
		os.Exit(1)
	}
	cmd.Add(ctx, cmd.AddOptions{
		Workspace: *workspace,
		Title:     *title,
		Username:  *username,
		Password:  *password,
		Generate:  *gen,
		URL:       *url,
		Notes:     *notes,
		Folder:    *folder,
		Favorite:  *favorite,
	})
}

func runEdit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	title := fs.String("title", "", "New title")
	username := fs.String("username", "", "New username")
	password := fs.String("password", "", "New password")
	gen := fs.Bool("gen", false, "Generate a new password")
	url := fs.String("url", "", "New URL")
	notes := fs.String("notes", "", "New notes")
	folder := fs.String("folder", "", "New folder (empty string moves to root)")
	favorite := fs.Bool("favorite", false, "Mark as favorite")
	unfavorite := fs.Bool("unfavorite", false, "Unmark as favorite")
	parseOrExit(fs, args)

	opts := cmd.EditOptions{Workspace: *workspace, Generate: *gen}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			opts.Title = title
		case "username":
			opts.Username = username
		case "password":
			opts.Password = password
		case "url":
			opts.URL = url
		case "notes":
			opts.Notes = notes
		case "folder":
			opts.Folder = folder
		}
	})
	if *favorite {
		v := true
		opts.Favorite = &v
	}
	if *unfavorite {
		v := false
		opts.Favorite = &v
	}
	cmd.Edit(ctx, requireArg(fs, 0, "passdesk edit <card> [flags]"), opts)
}

func runRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	force := fs.Bool("force", false, "Delete without confirmation")
	parseOrExit(fs, args)
	cmd.Remove(ctx, requireArg(fs, 0, "passdesk rm <card>"), *workspace, *force)
}

func runHistory(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	reveal := fs.Bool("reveal", false, "Print old passwords instead of masking them")
	parseOrExit(fs, args)
	cmd.History(ctx, requireArg(fs, 0, "passdesk history <card>"), *workspace, *reveal)
}

func runFolders(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("folders", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	cmd.Folders(ctx, *workspace)
}

func runFolderAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("folder-add", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	cmd.FolderAdd(ctx, *workspace, requireArg(fs, 0, "passdesk folder-add <name>"))
}

func runFolderRename(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("folder-rename", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	ref := requireArg(fs, 0, "passdesk folder-rename <folder> <new-name>")
	name := requireArg(fs, 1, "passdesk folder-rename <folder> <new-name>")
	cmd.FolderRename(ctx, *workspace, ref, name)
}

func runFolderRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("folder-rm", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	cmd.FolderRemove(ctx, *workspace, requireArg(fs, 0, "passdesk folder-rm <folder>"))
}

func runGen(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	length := fs.Int("l", 0, "Password length")
	noLower := fs.Bool("no-lower", false, "Exclude lowercase letters")
	noUpper := fs.Bool("no-upper", false, "Exclude uppercase letters")
	noDigits := fs.Bool("no-digits", false, "Exclude digits")
	noSymbols := fs.Bool("no-symbols", false, "Exclude symbols")
	noAmbiguous := fs.Bool("no-ambiguous", false, "Exclude ambiguous characters (Il1O0o)")
	copyFlag := fs.Bool("copy", false, "Copy instead of printing")
	parseOrExit(fs, args)
	cmd.Gen(ctx, cmd.GenOptions{
		Length:      *length,
		NoLower:     *noLower,
		NoUpper:     *noUpper,
		NoDigits:    *noDigits,
		NoSymbols:   *noSymbols,
		NoAmbiguous: *noAmbiguous,
		Copy:        *copyFlag,
	})
}

func runAttach(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	card := requireArg(fs, 0, "passdesk attach <card> <file>")
	file := requireArg(fs, 1, "passdesk attach <card> <file>")
	cmd.Attach(ctx, *workspace, card, file)
}

func runAttachments(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("attachments", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	cmd.Attachments(ctx, *workspace, requireArg(fs, 0, "passdesk attachments <card>"))
}

func runAttachmentGet(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("attachment-get", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	id := fs.String("id", "", "Attachment ID (optional when the card has exactly one)")
	dir := fs.String("dir", ".", "Directory to save into")
	parseOrExit(fs, args)
	cmd.AttachmentGet(ctx, *workspace, requireArg(fs, 0, "passdesk attachment-get <card>"), *id, *dir)
}

func runAttachmentRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("attachment-rm", flag.ExitOnError)
	workspace := fs.String("workspace", "", "Workspace ID (overrides the selected one)")
	parseOrExit(fs, args)
	card := requireArg(fs, 0, "passdesk attachment-rm <card> <attachment-id>")
	id := requireArg(fs, 1, "passdesk attachment-rm <card> <attachment-id>")
	cmd.AttachmentRemove(ctx, *workspace, card, id)
}

func runBackup(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.Backup(ctx)
}

func runClearClipboard(_ context.Context, args []string) {
	fs := flag.NewFlagSet("clear-clipboard", flag.ExitOnError)
	parseOrExit(fs, args)
	cmd.ClearClipboard()
}

func runConfig(_ context.Context, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	parseOrExit(fs, args)
	switch len(fs.Args()) {
	case 0:
		cmd.ConfigShow()
	case 2:
		cmd.ConfigSet(fs.Args()[0], fs.Args()[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: passdesk config [<key> <value>]")
		os.Exit(1)
	}
}

func runDevServer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("devserver", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:8787", "Address to listen on")
	seed := fs.Bool("seed", true, "Seed demo data")
	parseOrExit(fs, args)
	cmd.DevServer(ctx, *addr, *seed)
}

func printUsage() {
	fmt.Println("passdesk - password manager client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  passdesk <command> [arguments]")
	fmt.Println()
	fmt.Println("Session:")
	fmt.Println("  profiles          List profiles")
	fmt.Println("  create-profile    Create a profile")
	fmt.Println("  login             Unlock a profile's vault")
	fmt.Println("  logout            Lock the vault and forget the session")
	fmt.Println()
	fmt.Println("Workspaces:")
	fmt.Println("  workspaces        List workspaces")
	fmt.Println("  workspace-add     Create a workspace")
	fmt.Println("  workspace-rename  Rename a workspace")
	fmt.Println("  workspace-rm      Delete a workspace")
	fmt.Println("  use               Select the workspace to work in")
	fmt.Println()
	fmt.Println("Cards:")
	fmt.Println("  ls                List cards")
	fmt.Println("  show              Show a card")
	fmt.Println("  copy              Copy a card's password (auto-clears)")
	fmt.Println("  add               Add a card")
	fmt.Println("  edit              Edit a card")
	fmt.Println("  rm                Delete a card")
	fmt.Println("  history           Show a card's password history")
	fmt.Println()
	fmt.Println("Folders:")
	fmt.Println("  folders           List folders")
	fmt.Println("  folder-add        Create a folder")
	fmt.Println("  folder-rename     Rename a folder")
	fmt.Println("  folder-rm         Delete a folder")
	fmt.Println()
	fmt.Println("Other:")
	fmt.Println("  gen               Generate a password")
	fmt.Println("  attach            Upload an attachment")
	fmt.Println("  attachments       List a card's attachments")
	fmt.Println("  attachment-get    Download an attachment")
	fmt.Println("  attachment-rm     Delete an attachment")
	fmt.Println("  backup            Ask the backend to write a backup")
	fmt.Println("  clear-clipboard   Wipe the clipboard now")
	fmt.Println("  config            Show or change client settings")
	fmt.Println("  devserver         Run the in-memory stub backend")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  PASSDESK_ENDPOINT  Backend endpoint (default http://127.0.0.1:8787)")
	fmt.Println("  PASSDESK_PASSWORD  Master password (skips the prompt)")
}

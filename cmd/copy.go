package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/passdesk/passdesk/internal/clipguard"
)

// historyCopyTimeoutSeconds is the shorter clear window for old passwords;
// they are usually pasted once during a recovery and gone.
const historyCopyTimeoutSeconds = 20

// CopyOptions carries the copy command's flags.
type CopyOptions struct {
	Workspace string
	Username  bool
	History   int
	Timeout   int
}

// Copy puts a card's password (or username, or an old password) on the
// clipboard. Secrets go through the auto-clear guard; the command stays in
// the foreground until the clear fires so the timer can run.
func Copy(ctx context.Context, ref string, opts CopyOptions) {
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

	if opts.Username {
		policy, err := env.Prefs.ClipboardPolicy()
		if err != nil {
			HandleError(err)
		}
		guard := clipguard.New(policy)
		if err := guard.Copy(card.Username, clipguard.CopyOptions{}); err != nil {
			HandleError(err)
		}
		fmt.Println("Username copied to clipboard")
		return
	}

	secret := card.Password
	timeout := opts.Timeout
	if opts.History > 0 {
		history, err := env.Vault.CardHistory(ctx, card.ID)
		if err != nil {
			HandleError(err)
		}
		if opts.History > len(history) {
			HandleError(fmt.Errorf("card has only %d history entries", len(history)))
		}
		secret = history[opts.History-1].Password
		if timeout == 0 {
			timeout = historyCopyTimeoutSeconds
		}
	}

	if secret == "" {
		HandleError(fmt.Errorf("card %s has no password", card.Title))
	}
	copySecretAndWait(ctx, env, secret, timeout)
}

// copySecretAndWait copies a secret through the guard and blocks until
// the scheduled clear has fired, or until interrupted, in which case the
// clipboard is wiped immediately.
func copySecretAndWait(ctx context.Context, env *Env, secret string, timeoutSeconds int) {
	policy, err := env.Prefs.ClipboardPolicy()
	if err != nil {
		HandleError(err)
	}

	guard := clipguard.New(policy)
	err = guard.Copy(secret, clipguard.CopyOptions{
		Secret:         true,
		TimeoutSeconds: timeoutSeconds,
	})
	if err != nil {
		HandleError(err)
	}

	deadline, armed := guard.Pending()
	if !armed {
		fmt.Println("Copied to clipboard (auto-clear disabled)")
		return
	}

	remaining := time.Until(deadline).Round(time.Second)
	fmt.Printf("Copied to clipboard, clears in %s (Ctrl-C clears now)\n", remaining)

	select {
	case <-ctx.Done():
		guard.ClearNow()
		fmt.Println("\nClipboard cleared")
	case <-time.After(time.Until(deadline) + 250*time.Millisecond):
		// the guard's timer has fired by now
		fmt.Println("Clipboard cleared")
	}
}

// ClearClipboard wipes the clipboard unconditionally. Unlike the guard's
// conditional clear this is an explicit user request, so no content check
// applies.
func ClearClipboard() {
	if err := (clipguard.SystemPort{}).WriteText(""); err != nil {
		HandleError(err)
	}
	fmt.Println("Clipboard cleared")
}

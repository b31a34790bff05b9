package cmd

import (
	"context"
	"fmt"
)

// Backup asks the backend to write a backup and reports where it landed.
// The backup format and contents are entirely the backend's; this client
// only relays the request.
func Backup(ctx context.Context) {
	env := OpenEnvOrExit()
	defer env.Close()

	if err := env.RequireSession(ctx); err != nil {
		HandleError(err)
	}

	path, err := env.Vault.CreateBackup(ctx)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Backup written to %s\n", path)
}

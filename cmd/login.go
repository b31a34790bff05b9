package cmd

import (
	"context"
	"fmt"

	"github.com/passdesk/passdesk/internal/keyring"
)

// Profiles lists the profiles the backend knows about.
func Profiles(ctx context.Context) {
	env := OpenEnvOrExit()
	defer env.Close()

	profiles, err := env.Vault.Profiles(ctx)
	if err != nil {
		HandleError(err)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles yet")
		fmt.Println("Run 'passdesk create-profile <name>' to add one")
		return
	}

	active, _ := env.Prefs.ActiveProfile()
	for _, p := range profiles {
		marker := "  "
		if p.ID == active {
			marker = "* "
		}
		fmt.Printf("%s%s  %s\n", marker, p.ID, p.Name)
	}
}

// CreateProfile registers a new profile with a confirmed master password.
func CreateProfile(ctx context.Context, name string) {
	env := OpenEnvOrExit()
	defer env.Close()

	password, err := ReadPassword("Choose master password: ")
	if err != nil {
		HandleError(err)
	}
	confirm, err := ReadPassword("Confirm master password: ")
	if err != nil {
		HandleError(err)
	}
	if password != confirm {
		HandleError(fmt.Errorf("passwords do not match"))
	}

	profile, err := env.Vault.CreateProfile(ctx, name, password)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Created profile %s (%s)\n", profile.Name, profile.ID)
}

// Login unlocks a profile's vault and remembers the session in the OS
// keyring.
func Login(ctx context.Context, profileID string) {
	env := OpenEnvOrExit()
	defer env.Close()

	if profileID == "" {
		stored, err := env.Prefs.ActiveProfile()
		if err != nil {
			HandleError(err)
		}
		profileID = stored
	}
	if profileID == "" {
		HandleError(fmt.Errorf("no profile selected, use 'passdesk login -profile <id>'"))
	}

	password, err := GetMasterPassword()
	if err != nil {
		HandleError(err)
	}

	session, err := env.Vault.Login(ctx, profileID, password)
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SaveToken(session.ProfileID, session.Token); err != nil {
		// the session still works for this process; it just won't survive it
		fmt.Printf("warning: could not remember session in keyring: %v\n", err)
	}
	if err := env.Prefs.SetActiveProfile(session.ProfileID); err != nil {
		HandleError(err)
	}

	fmt.Println("Vault unlocked")
}

// Logout locks the vault and forgets the remembered session.
func Logout(ctx context.Context) {
	env := OpenEnvOrExit()
	defer env.Close()

	profileID, err := env.Prefs.ActiveProfile()
	if err != nil {
		HandleError(err)
	}
	if profileID == "" {
		fmt.Println("Not logged in")
		return
	}

	if token, err := keyring.GetToken(profileID); err == nil {
		env.Vault.Resume(ctx, token)
		if err := env.Vault.Logout(ctx); err != nil {
			fmt.Printf("warning: backend logout failed: %v\n", err)
		}
		if err := keyring.DeleteToken(profileID); err != nil {
			fmt.Printf("warning: could not remove session from keyring: %v\n", err)
		}
	}

	if err := env.Prefs.ClearSession(); err != nil {
		HandleError(err)
	}
	fmt.Println("Vault locked")
}

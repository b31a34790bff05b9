package prefs

import (
	"path/filepath"
	"testing"

	"github.com/passdesk/passdesk/internal/cards"
	"github.com/passdesk/passdesk/internal/clipguard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestClipboardPolicyDefault(t *testing.T) {
	store := openTestStore(t)

	policy, err := store.ClipboardPolicy()
	if err != nil {
		t.Fatalf("ClipboardPolicy failed: %v", err)
	}
	if policy != clipguard.DefaultPolicy() {
		t.Errorf("Unset policy = %+v, want default", policy)
	}
}

func TestClipboardPolicyRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := clipguard.Policy{Enabled: false, TimeoutSeconds: 45}
	if err := store.SetClipboardPolicy(want); err != nil {
		t.Fatalf("SetClipboardPolicy failed: %v", err)
	}

	got, err := store.ClipboardPolicy()
	if err != nil {
		t.Fatalf("ClipboardPolicy failed: %v", err)
	}
	if got != want {
		t.Errorf("Policy = %+v, want %+v", got, want)
	}
}

func TestClipboardPolicyTimeoutClamped(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetClipboardPolicy(clipguard.Policy{Enabled: true, TimeoutSeconds: -5}); err != nil {
		t.Fatalf("SetClipboardPolicy failed: %v", err)
	}

	got, err := store.ClipboardPolicy()
	if err != nil {
		t.Fatalf("ClipboardPolicy failed: %v", err)
	}
	if got.TimeoutSeconds != clipguard.DefaultTimeoutSeconds {
		t.Errorf("Timeout = %d, want default %d", got.TimeoutSeconds, clipguard.DefaultTimeoutSeconds)
	}
}

func TestSortOrder(t *testing.T) {
	store := openTestStore(t)

	order, err := store.SortOrder()
	if err != nil {
		t.Fatalf("SortOrder failed: %v", err)
	}
	if order != cards.SortByTitle {
		t.Errorf("Default order = %s, want title", order)
	}

	if err := store.SetSortOrder(cards.SortByUpdated); err != nil {
		t.Fatalf("SetSortOrder failed: %v", err)
	}
	order, err = store.SortOrder()
	if err != nil {
		t.Fatalf("SortOrder failed: %v", err)
	}
	if order != cards.SortByUpdated {
		t.Errorf("Order = %s, want updated", order)
	}

	if err := store.SetSortOrder("bogus"); err == nil {
		t.Error("SetSortOrder should reject unknown orders")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetActiveProfile("p1"); err != nil {
		t.Fatalf("SetActiveProfile failed: %v", err)
	}
	if err := store.SetActiveWorkspace("w1"); err != nil {
		t.Fatalf("SetActiveWorkspace failed: %v", err)
	}

	profile, err := store.ActiveProfile()
	if err != nil || profile != "p1" {
		t.Errorf("ActiveProfile = %q, %v; want p1", profile, err)
	}
	workspace, err := store.ActiveWorkspace()
	if err != nil || workspace != "w1" {
		t.Errorf("ActiveWorkspace = %q, %v; want w1", workspace, err)
	}

	if err := store.ClearSession(); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	profile, _ = store.ActiveProfile()
	workspace, _ = store.ActiveWorkspace()
	if profile != "" || workspace != "" {
		t.Errorf("Session not cleared: profile=%q workspace=%q", profile, workspace)
	}
}

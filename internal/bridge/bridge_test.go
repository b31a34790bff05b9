package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func stubBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestInvokeDecodesResult(t *testing.T) {
	client := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if req.Command != "ping" {
			t.Errorf("Command = %q, want ping", req.Command)
		}
		if req.RequestID == "" {
			t.Error("Request ID should be set")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]string{"pong": "yes"},
		})
	})

	var out struct {
		Pong string `json:"pong"`
	}
	if err := client.Invoke(context.Background(), "ping", nil, &out); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out.Pong != "yes" {
		t.Errorf("Pong = %q, want yes", out.Pong)
	}
}

func TestInvokeMapsKnownErrorCodes(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"auth_failed", ErrAuthFailed},
		{"not_found", ErrNotFound},
		{"version_conflict", ErrConflict},
		{"vault_locked", ErrVaultLocked},
	}
	for _, tt := range tests {
		client := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"ok":    false,
				"error": map[string]string{"code": tt.code, "message": "nope"},
			})
		})
		err := client.Invoke(context.Background(), "anything", nil, nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("Code %s: got %v, want %v", tt.code, err, tt.want)
		}
	}
}

func TestInvokeUnknownErrorCode(t *testing.T) {
	client := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": map[string]string{"code": "weird", "message": "something odd"},
		})
	})
	err := client.Invoke(context.Background(), "anything", nil, nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	for _, sentinel := range []error{ErrAuthFailed, ErrNotFound, ErrConflict, ErrVaultLocked} {
		if errors.Is(err, sentinel) {
			t.Errorf("Unknown code must not map to %v", sentinel)
		}
	}
}

func TestInvokeAttachesToken(t *testing.T) {
	var seen string
	client := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Session-Token")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	client.SetToken("tok-123")
	if err := client.Invoke(context.Background(), "ping", nil, nil); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if seen != "tok-123" {
		t.Errorf("Token header = %q, want tok-123", seen)
	}
}

func TestInvokeUnreachableBackend(t *testing.T) {
	client := New("http://127.0.0.1:1")
	err := client.Invoke(context.Background(), "ping", nil, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

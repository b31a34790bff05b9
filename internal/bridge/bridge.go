package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is where the backend process listens on this machine.
const DefaultEndpoint = "http://127.0.0.1:8787"

var (
	ErrAuthFailed  = errors.New("authentication failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("version conflict")
	ErrVaultLocked = errors.New("vault is locked")
	ErrUnavailable = errors.New("backend unavailable")
)

// codeErrors maps backend error codes to sentinel errors callers can test
// with errors.Is.
var codeErrors = map[string]error{
	"auth_failed":      ErrAuthFailed,
	"not_found":        ErrNotFound,
	"version_conflict": ErrConflict,
	"vault_locked":     ErrVaultLocked,
}

type request struct {
	Command   string `json:"command"`
	RequestID string `json:"request_id"`
	Args      any    `json:"args,omitempty"`
}

type response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *commandError   `json:"error,omitempty"`
}

type commandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client invokes named commands on the backend process. Calls are rate
// limited so refresh loops in the UI cannot hammer the backend.
type Client struct {
	endpoint string
	httpc    *http.Client
	limiter  *rate.Limiter

	mu    sync.RWMutex
	token string
}

// New creates a bridge client for the given backend endpoint. An empty
// endpoint selects DefaultEndpoint.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(20), 40),
	}
}

// SetToken attaches a session token to subsequent invokes.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Invoke posts a command to the backend and decodes the result into out.
// A nil out discards the result. Backend-reported failures come back as
// sentinel errors where the code is known.
func (c *Client) Invoke(ctx context.Context, command string, args any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(request{
		Command:   command,
		RequestID: uuid.New().String(),
		Args:      args,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/invoke", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("X-Session-Token", token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", command, err)
	}

	if !envelope.OK {
		if envelope.Error == nil {
			return fmt.Errorf("command %s failed without error detail", command)
		}
		if base, known := codeErrors[envelope.Error.Code]; known {
			return fmt.Errorf("%w: %s", base, envelope.Error.Message)
		}
		return fmt.Errorf("command %s failed: %s (%s)", command, envelope.Error.Message, envelope.Error.Code)
	}

	if out == nil || envelope.Result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", command, err)
	}
	return nil
}

package clipguard

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manual clock. Advance moves time forward and runs every
// callback whose deadline has passed, synchronously on the calling
// goroutine, so tests are deterministic.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.when.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakePort is an in-memory clipboard with injectable failures.
type fakePort struct {
	mu       sync.Mutex
	text     string
	writes   int
	wipes    int
	readErr  error
	writeErr error
}

func (p *fakePort) ReadText() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return "", p.readErr
	}
	return p.text, nil
}

func (p *fakePort) WriteText(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	p.text = text
	p.writes++
	if text == "" {
		p.wipes++
	}
	return nil
}

func (p *fakePort) contents() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

func (p *fakePort) wipeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wipes
}

func newTestGuard(policy Policy) (*Guard, *fakePort, *fakeClock) {
	port := &fakePort{}
	clock := newFakeClock()
	return NewWithPort(port, clock, policy), port, clock
}

func TestCopySecretArmsTimer(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 30})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if port.contents() != "hunter2" {
		t.Errorf("Clipboard = %q, want hunter2", port.contents())
	}

	deadline, ok := guard.Pending()
	if !ok {
		t.Fatal("Expected an armed clear")
	}
	want := clock.Now().Add(30 * time.Second)
	if !deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", deadline, want)
	}
}

func TestCopyThenExpire(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("sk_live_abc", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if port.contents() != "sk_live_abc" {
		t.Errorf("Clipboard = %q, want sk_live_abc", port.contents())
	}

	clock.Advance(1000 * time.Millisecond)
	if port.contents() != "" {
		t.Errorf("Clipboard = %q after deadline, want empty", port.contents())
	}
	if _, ok := guard.Pending(); ok {
		t.Error("Clear should be disarmed after firing")
	}
}

func TestSupersedeCancelsPreviousTimer(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("sk_live_abc", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	clock.Advance(500 * time.Millisecond)
	if err := guard.Copy("sk_live_xyz", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	// Original deadline passes; the superseded timer must not fire
	clock.Advance(500 * time.Millisecond)
	if port.contents() != "sk_live_xyz" {
		t.Errorf("Clipboard = %q at original deadline, want sk_live_xyz", port.contents())
	}

	clock.Advance(500 * time.Millisecond)
	if port.contents() != "" {
		t.Errorf("Clipboard = %q after second deadline, want empty", port.contents())
	}
	if port.wipeCount() != 1 {
		t.Errorf("Wipe count = %d, want 1", port.wipeCount())
	}
}

func TestSupersededTimersNeverFire(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 10})

	secrets := []string{"one", "two", "three", "four", "five"}
	for _, s := range secrets {
		if err := guard.Copy(s, CopyOptions{Secret: true}); err != nil {
			t.Fatalf("Copy(%q) failed: %v", s, err)
		}
		clock.Advance(1 * time.Second)
	}

	// Walk past every superseded deadline; only the final copy may clear
	clock.Advance(time.Hour)
	if port.wipeCount() != 1 {
		t.Errorf("Wipe count = %d, want 1", port.wipeCount())
	}
	if port.contents() != "" {
		t.Errorf("Clipboard = %q, want empty", port.contents())
	}
}

func TestClearNowIdempotent(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 30})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	guard.ClearNow()
	guard.ClearNow()

	if port.contents() != "" {
		t.Errorf("Clipboard = %q, want empty", port.contents())
	}
	if port.wipeCount() != 1 {
		t.Errorf("Wipe count = %d, want 1", port.wipeCount())
	}

	// The cancelled timer must stay cancelled
	clock.Advance(time.Minute)
	if port.wipeCount() != 1 {
		t.Errorf("Wipe count after deadline = %d, want 1", port.wipeCount())
	}
}

func TestClearSkipsForeignContent(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	// User copies something else before the deadline
	port.mu.Lock()
	port.text = "other"
	port.mu.Unlock()

	clock.Advance(time.Second)
	if port.contents() != "other" {
		t.Errorf("Clipboard = %q, foreign content must not be wiped", port.contents())
	}
}

func TestWhitespaceOnlyCopyIsNoOp(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("   ", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if port.writes != 0 {
		t.Errorf("Write count = %d, want 0", port.writes)
	}
	if _, ok := guard.Pending(); ok {
		t.Error("No clear should be armed for a whitespace-only value")
	}
	clock.Advance(time.Minute)
	if port.wipeCount() != 0 {
		t.Errorf("Wipe count = %d, want 0", port.wipeCount())
	}
}

func TestNonSecretCopyDisarmsWithoutArming(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if err := guard.Copy("plain-username", CopyOptions{}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	if _, ok := guard.Pending(); ok {
		t.Error("Non-secret copy must not leave a clear armed")
	}
	clock.Advance(time.Hour)
	if port.contents() != "plain-username" {
		t.Errorf("Clipboard = %q, want plain-username", port.contents())
	}
}

func TestPolicyDisabledArmsNothing(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: false, TimeoutSeconds: 30})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if _, ok := guard.Pending(); ok {
		t.Error("Disabled policy must not arm a clear")
	}
	clock.Advance(time.Hour)
	if port.contents() != "hunter2" {
		t.Errorf("Clipboard = %q, want hunter2", port.contents())
	}
}

func TestTimeoutOverridePerCall(t *testing.T) {
	guard, _, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 30})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true, TimeoutSeconds: 20}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	deadline, ok := guard.Pending()
	if !ok {
		t.Fatal("Expected an armed clear")
	}
	want := clock.Now().Add(20 * time.Second)
	if !deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", deadline, want)
	}
}

func TestNonPositiveTimeoutFallsBackToDefault(t *testing.T) {
	guard, _, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 0})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	deadline, ok := guard.Pending()
	if !ok {
		t.Fatal("Expected an armed clear")
	}
	want := clock.Now().Add(DefaultTimeoutSeconds * time.Second)
	if !deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", deadline, want)
	}
}

func TestWriteFailureLeavesOlderClearArmed(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("first-secret", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	port.mu.Lock()
	port.writeErr = errors.New("platform denied")
	port.mu.Unlock()

	err := guard.Copy("second-secret", CopyOptions{Secret: true})
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("Expected ErrWriteFailed, got %v", err)
	}

	// The failed copy never touched the clipboard, so the original clear
	// must still fire against the original value
	if _, ok := guard.Pending(); !ok {
		t.Fatal("Older pending clear must survive a failed copy")
	}

	port.mu.Lock()
	port.writeErr = nil
	port.mu.Unlock()

	clock.Advance(time.Second)
	if port.contents() != "" {
		t.Errorf("Clipboard = %q, want empty", port.contents())
	}
}

func TestReadFailureAbandonsClear(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	port.mu.Lock()
	port.readErr = errors.New("platform denied")
	port.mu.Unlock()

	clock.Advance(time.Second)
	if port.contents() != "hunter2" {
		t.Errorf("Clipboard = %q, clear should be abandoned on read failure", port.contents())
	}
	if _, ok := guard.Pending(); ok {
		t.Error("Clear should be disarmed even when abandoned")
	}
}

func TestTeardownCancelsWithoutWiping(t *testing.T) {
	guard, port, clock := newTestGuard(Policy{Enabled: true, TimeoutSeconds: 1})

	if err := guard.Copy("hunter2", CopyOptions{Secret: true}); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	guard.Teardown()

	if _, ok := guard.Pending(); ok {
		t.Error("Teardown must disarm the pending clear")
	}
	clock.Advance(time.Hour)
	if port.contents() != "hunter2" {
		t.Errorf("Clipboard = %q, teardown must not wipe", port.contents())
	}
}

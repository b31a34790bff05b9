package clipguard

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// DefaultTimeoutSeconds applies when a policy or per-call override carries
// no positive timeout.
const DefaultTimeoutSeconds = 30

var ErrWriteFailed = errors.New("clipboard write failed")

// Policy controls whether secret copies schedule an automatic clear and
// how long the secret may stay on the clipboard.
type Policy struct {
	Enabled        bool `json:"enabled"`
	TimeoutSeconds int  `json:"timeout_seconds"`
}

// DefaultPolicy returns the auto-clear policy used when no preference has
// been stored.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:        true,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// CopyOptions qualifies a single Copy call.
type CopyOptions struct {
	// Secret marks the value for automatic clearing per the guard policy.
	Secret bool
	// TimeoutSeconds overrides the policy timeout for this copy when > 0.
	TimeoutSeconds int
}

// pendingClear tracks the single scheduled wipe. The seq field lets a fire
// that was superseded while already in flight detect it is stale.
type pendingClear struct {
	value    string
	deadline time.Time
	timer    Timer
	seq      uint64
}

// Guard copies values to the clipboard and wipes secrets after a bounded
// time. A guard holds at most one pending clear; arming a new one always
// cancels the previous one first.
type Guard struct {
	mu      sync.Mutex
	port    Port
	clock   Clock
	policy  Policy
	pending *pendingClear
	seq     uint64
}

// New creates a guard over the system clipboard.
func New(policy Policy) *Guard {
	return NewWithPort(SystemPort{}, SystemClock{}, policy)
}

// NewWithPort creates a guard with an explicit clipboard port and clock.
func NewWithPort(port Port, clock Clock, policy Policy) *Guard {
	return &Guard{
		port:   port,
		clock:  clock,
		policy: policy,
	}
}

// Copy writes value to the clipboard. Empty or whitespace-only values are a
// silent no-op. When the value is a secret and the policy enables clearing,
// a wipe is scheduled; any previously pending wipe is cancelled first.
// A non-secret copy cancels a pending wipe without arming a new one, so a
// stale secret timer never fires against unrelated content.
//
// On write failure the clipboard was not changed, so any older pending
// clear stays armed and valid.
func (g *Guard) Copy(value string, opts CopyOptions) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	if err := g.port.WriteText(value); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelPendingLocked()

	if !opts.Secret || !g.policy.Enabled {
		return nil
	}

	timeout := g.policy.TimeoutSeconds
	if opts.TimeoutSeconds > 0 {
		timeout = opts.TimeoutSeconds
	}
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds
	}

	g.seq++
	seq := g.seq
	d := time.Duration(timeout) * time.Second
	p := &pendingClear{
		value:    value,
		deadline: g.clock.Now().Add(d),
		seq:      seq,
	}
	// fire blocks on g.mu, so the slot is filled before it can run
	p.timer = g.clock.AfterFunc(d, func() { g.fire(seq) })
	g.pending = p

	return nil
}

// ClearNow cancels any pending wipe and, if one was armed, wipes the
// clipboard unconditionally. Calling it again without an armed wipe does
// nothing.
func (g *Guard) ClearNow() {
	g.mu.Lock()
	had := g.pending != nil
	g.cancelPendingLocked()
	g.mu.Unlock()

	if !had {
		return
	}
	if err := g.port.WriteText(""); err != nil {
		log.Printf("clipguard: clipboard clear failed: %v", err)
	}
}

// Teardown cancels any pending wipe without touching the clipboard. Used
// when the consumer goes away and must not surprise-wipe whatever the user
// has on the clipboard.
func (g *Guard) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelPendingLocked()
}

// Pending reports the deadline of the armed wipe, if any.
func (g *Guard) Pending() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return time.Time{}, false
	}
	return g.pending.deadline, true
}

func (g *Guard) cancelPendingLocked() {
	if g.pending == nil {
		return
	}
	g.pending.timer.Stop()
	g.pending = nil
}

// fire runs at the deadline. It wipes the clipboard only when the contents
// still equal the value this guard copied; anything else the user put there
// since is left alone. Failures here are logged and swallowed: there is no
// user action to attach them to, and a secret lingering one cycle longer
// carries the same risk as the user having copied over it.
func (g *Guard) fire(seq uint64) {
	g.mu.Lock()
	p := g.pending
	if p == nil || p.seq != seq {
		// superseded or cancelled while this fire was in flight
		g.mu.Unlock()
		return
	}
	g.pending = nil
	g.mu.Unlock()

	current, err := g.port.ReadText()
	if err != nil {
		log.Printf("clipguard: skipping clear, clipboard read failed: %v", err)
		return
	}
	if current != p.value {
		return
	}
	if err := g.port.WriteText(""); err != nil {
		log.Printf("clipguard: clipboard clear failed: %v", err)
	}
}

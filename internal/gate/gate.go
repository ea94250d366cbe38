// Package gate models the asynchronous yes/no confirmation a destructive
// operation must await before proceeding.
package gate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnknownToken reports a resolution for a confirmation nobody is
// waiting on (already resolved, timed out, or never issued).
var ErrUnknownToken = errors.New("unknown confirmation token")

// ConfirmationGate suspends the caller until the user answers. A false
// answer is a normal outcome, not an error.
type ConfirmationGate interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AutoGate answers every prompt the same way without suspending. Used in
// tests and non-interactive runs.
type AutoGate bool

func (g AutoGate) Confirm(ctx context.Context, prompt string) (bool, error) {
	return bool(g), nil
}

// PendingGate issues a token per prompt and parks the caller on a channel
// until Resolve is called with that token, the timeout passes, or the
// caller's context ends. An expired or cancelled confirmation counts as a
// declined one.
type PendingGate struct {
	mu      sync.Mutex
	pending map[string]chan bool
	timeout time.Duration
	onIssue func(token, prompt string)
}

// NewPendingGate creates a gate. onIssue is called with each new token so
// the surface that rendered the prompt can route the answer back; it may
// be nil.
func NewPendingGate(timeout time.Duration, onIssue func(token, prompt string)) *PendingGate {
	return &PendingGate{
		pending: make(map[string]chan bool),
		timeout: timeout,
		onIssue: onIssue,
	}
}

func (g *PendingGate) Confirm(ctx context.Context, prompt string) (bool, error) {
	token := newToken()
	ch := make(chan bool, 1)

	g.mu.Lock()
	g.pending[token] = ch
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.pending, token)
		g.mu.Unlock()
	}()

	if g.onIssue != nil {
		g.onIssue(token, prompt)
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case answer := <-ch:
		return answer, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Resolve answers a pending confirmation.
func (g *PendingGate) Resolve(token string, approved bool) error {
	g.mu.Lock()
	ch, ok := g.pending[token]
	if ok {
		delete(g.pending, token)
	}
	g.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}
	ch <- approved
	return nil
}

func newToken() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("tok_%d", time.Now().UnixNano())
	}
	return "tok_" + hex.EncodeToString(b)
}

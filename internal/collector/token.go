package collector

import (
	"sync"
	"sync/atomic"
)

// Token is an explicit cancellation flag for a paced collection.
// A nil *Token is never cancelled.
type Token struct {
	cancelled atomic.Bool
	once      sync.Once
	done      chan struct{}
}

// NewToken creates an uncancelled token
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel marks the token cancelled. Safe to call more than once.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.done)
	})
}

// Cancelled reports whether Cancel has been called
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// Done is closed once the token is cancelled. Nil tokens return a nil channel.
func (t *Token) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

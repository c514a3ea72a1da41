// Package announce keeps the site-wide notice shown as a banner on the
// public pages. A single slot holds the latest notice; setting a new one
// replaces the old immediately and each notice expires on its own TTL.
package announce

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays up when no TTL is given.
const DefaultTTL = 3 * time.Second

// Notice is the active site-wide message.
type Notice struct {
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Board is the single-slot notice holder. Safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	current *Notice
	gen     uint64
	timer   *time.Timer
}

func New() *Board {
	return &Board{}
}

// Set replaces the active notice. The previous notice's expiry timer is
// cancelled; a stale timer firing late must not clear a newer notice,
// which the generation counter guarantees.
func (b *Board) Set(message, kind string, ttl time.Duration) Notice {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	n := Notice{
		Message:   message,
		Kind:      kind,
		ExpiresAt: time.Now().Add(ttl),
	}
	b.current = &n
	b.timer = time.AfterFunc(ttl, func() {
		b.expire(gen)
	})
	return n
}

// Dismiss clears the active notice immediately.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.current = nil
}

// Current returns the active notice, or nil when the slot is empty or the
// notice has expired.
func (b *Board) Current() *Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	if time.Now().After(b.current.ExpiresAt) {
		return nil
	}
	n := *b.current
	return &n
}

func (b *Board) expire(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		return
	}
	b.current = nil
	b.timer = nil
}

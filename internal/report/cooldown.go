package report

import (
	"time"

	"github.com/whaleprotocol/watchdesk/internal/state"
)

// CooldownGuard is a client-side throttle between accepted submissions. It
// discourages accidental double-submits and casual spam; it is not a
// security control.
type CooldownGuard struct {
	store  *state.Store
	window time.Duration
	now    func() time.Time // injectable for tests
}

// NewCooldownGuard returns a guard over the persisted last-send timestamp.
func NewCooldownGuard(store *state.Store, window time.Duration) *CooldownGuard {
	return &CooldownGuard{store: store, window: window, now: time.Now}
}

// CanSendNow reports whether the cooldown window has elapsed since the
// visitor's last recorded send. A visitor with no recorded send always
// passes.
func (g *CooldownGuard) CanSendNow(visitor string) bool {
	last := g.store.LastSend(visitor)
	if last.IsZero() {
		return true
	}
	return g.now().Sub(last) > g.window
}

// MarkSent records the current time as the visitor's last accepted send.
func (g *CooldownGuard) MarkSent(visitor string) error {
	return g.store.MarkSend(visitor, g.now())
}

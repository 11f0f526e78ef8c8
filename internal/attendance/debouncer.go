// Package attendance decides when a recognized identity is recorded and
// appends the resulting attendance events.
package attendance

import (
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// Debouncer remembers the last mark per identity. Entries are never expired;
// ShouldMark compares lazily against the cooldown window.
type Debouncer struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewDebouncer creates an empty debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{last: make(map[string]time.Time)}
}

// ShouldMark reports whether identity has no mark inside [now-cooldown, now].
// A mark later than now (the clock stepped back) does not suppress; the
// next RecordMark replaces it.
func (d *Debouncer) ShouldMark(identity string, now time.Time, cooldown time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	last, ok := d.last[facematch.IdentityKey(identity)]
	if !ok {
		return true
	}
	return last.Before(now.Add(-cooldown)) || last.After(now)
}

// RecordMark stores now as the last mark for identity, overwriting any
// previous mark.
func (d *Debouncer) RecordMark(identity string, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last[facematch.IdentityKey(identity)] = now
}

// LastMark returns the last recorded mark for identity.
func (d *Debouncer) LastMark(identity string) (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.last[facematch.IdentityKey(identity)]
	return t, ok
}

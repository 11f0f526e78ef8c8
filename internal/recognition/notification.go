package recognition

import (
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Kind classifies a notification for the presentation layer.
type Kind string

const (
	KindTentative Kind = "tentative" // confident enough to display
	KindUnknown   Kind = "unknown"   // face seen, below display threshold
	KindMarked    Kind = "marked"    // attendance event recorded
	KindIdle      Kind = "idle"      // steady-state status
	KindClear     Kind = "clear"     // no face in this frame
)

// Notification is emitted once per decision for rendering.
type Notification struct {
	Kind       Kind      `json:"kind"`
	Identity   string    `json:"identity,omitempty"`
	Confidence int       `json:"confidence"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}

// Broadcaster fans notifications out to listeners. Sends never block; a
// listener with a full buffer misses the notification.
type Broadcaster struct {
	listeners []chan Notification
	closed    bool
	mu        sync.RWMutex
}

// AddListener adds a notification listener. After Close it returns an
// already closed channel.
func (b *Broadcaster) AddListener() chan Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Notification, constants.EventChannelBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

// Close closes and drops every listener so their readers return.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, listener := range b.listeners {
		close(listener)
	}
	b.listeners = nil
	b.closed = true
}

// RemoveListener removes and closes a listener.
func (b *Broadcaster) RemoveListener(ch chan Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// Send delivers n to all listeners.
func (b *Broadcaster) Send(n Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- n:
		default:
			// Listener buffer full, skip.
		}
	}
}

// ListenerCount returns the number of attached listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

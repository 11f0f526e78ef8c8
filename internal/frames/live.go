package frames

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// Live holds the latest frame pushed by the presentation layer. The loop is
// paced by pushes: WaitFrame returns once per new frame.
type Live struct {
	mu         sync.Mutex
	current    *Frame
	receivedAt time.Time
	updated    chan struct{} // closed and replaced on every push
	closed     bool
	staleAfter time.Duration
	now        func() time.Time
}

// NewLive creates a live source. A frame older than staleAfter makes the
// source not ready; zero disables the check.
func NewLive(staleAfter time.Duration) *Live {
	return &Live{
		updated:    make(chan struct{}),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Push replaces the current frame and wakes the waiting loop.
func (l *Live) Push(f Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return recognition.ErrSourceClosed
	}
	l.current = &f
	l.receivedAt = l.now()
	close(l.updated)
	l.updated = make(chan struct{})
	return nil
}

// Latest returns the current frame.
func (l *Live) Latest() (Frame, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return Frame{}, false
	}
	return *l.current, true
}

// Close marks the input as gone. Waiting loops return ErrSourceClosed.
func (l *Live) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.updated)
}

// Ready reports whether a fresh frame is available.
func (l *Live) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.current == nil {
		return false
	}
	return l.staleAfter <= 0 || l.now().Sub(l.receivedAt) <= l.staleAfter
}

// WaitFrame blocks until the next push.
func (l *Live) WaitFrame(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return recognition.ErrSourceClosed
	}
	ch := l.updated
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return recognition.ErrSourceClosed
	}
	return nil
}

// Snapshot freezes the current frame.
func (l *Live) Snapshot() (recognition.FrameSource, bool) {
	f, ok := l.Latest()
	if !ok {
		return nil, false
	}
	return &Still{Frame: f}, true
}

// Detect returns the face boxes of the frame frozen in src, or of the
// current frame.
func (l *Live) Detect(ctx context.Context, src recognition.FrameSource) ([]recognition.Detection, error) {
	f, ok := frameFor(src, l.Latest)
	if !ok {
		return nil, nil
	}
	return f.Faces, nil
}

// Landmarks returns the landmark mesh of the frame frozen in src, or of the
// current frame.
func (l *Live) Landmarks(ctx context.Context, src recognition.FrameSource) ([]facematch.Point, error) {
	f, ok := frameFor(src, l.Latest)
	if !ok {
		return nil, nil
	}
	return f.Landmarks, nil
}

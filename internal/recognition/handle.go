package recognition

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle state of a recognition run.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
)

// Handle controls one recognition run.
type Handle struct {
	cancel    context.CancelFunc
	stopped   atomic.Bool
	done      chan struct{}
	fps       atomic.Int64
	startedAt time.Time

	mu     sync.Mutex // guards notice and serializes emits against Stop
	notice *time.Timer
	err    error
}

func newHandle(cancel context.CancelFunc, startedAt time.Time) *Handle {
	return &Handle{
		cancel:    cancel,
		done:      make(chan struct{}),
		startedAt: startedAt,
	}
}

// Stop moves the run to idle. It takes effect before the next tick; an
// in-flight detection call is not interrupted. No notification is emitted
// after Stop returns.
func (h *Handle) Stop() {
	if !h.stopped.CompareAndSwap(false, true) {
		return
	}
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.notice != nil {
		h.notice.Stop()
		h.notice = nil
	}
}

// Running reports whether the loop is still scheduling ticks.
func (h *Handle) Running() bool {
	return !h.stopped.Load()
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	if h.Running() {
		return StateRunning
	}
	return StateIdle
}

// Done is closed once the loop goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the loop exits. It returns nil after Stop and an error
// wrapping ErrCameraAccess when the frame source went away.
func (h *Handle) Wait() error {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// FPS returns the number of ticks completed during the last full second.
func (h *Handle) FPS() int {
	return int(h.fps.Load())
}

// StartedAt returns when the run started.
func (h *Handle) StartedAt() time.Time {
	return h.startedAt
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	h.Stop()
}

// emit runs send unless the handle is stopped.
func (h *Handle) emit(send func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped.Load() {
		return
	}
	send()
}

// scheduleNotice replaces any pending notice timer with a new one.
func (h *Handle) scheduleNotice(d time.Duration, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped.Load() {
		return
	}
	if h.notice != nil {
		h.notice.Stop()
	}
	h.notice = time.AfterFunc(d, fn)
}

// fpsCounter counts ticks per wall-clock second.
type fpsCounter struct {
	windowStart time.Time
	frames      int
}

// tick records one completed tick and returns the rate once a second has passed.
func (f *fpsCounter) tick(now time.Time) (int, bool) {
	f.frames++
	elapsed := now.Sub(f.windowStart)
	if elapsed < time.Second {
		return 0, false
	}
	fps := int(float64(f.frames)/elapsed.Seconds() + 0.5)
	f.frames = 0
	f.windowStart = now
	return fps, true
}

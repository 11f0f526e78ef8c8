package frames

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/time/rate"

	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// Replay plays back recorded frames at a fixed rate and closes after the
// last one.
type Replay struct {
	frames  []Frame
	limiter *rate.Limiter // nil replays without pacing
	timed   bool          // every frame carries a recording timestamp

	mu      sync.Mutex
	pos     int // index of the current frame, -1 before the first WaitFrame
	onFrame func(index int)
}

// NewReplay creates a replay over frames. fps <= 0 replays without pacing.
func NewReplay(frames []Frame, fps int) *Replay {
	r := &Replay{frames: frames, pos: -1, timed: len(frames) > 0}
	for _, f := range frames {
		if f.Timestamp <= 0 {
			r.timed = false
			break
		}
	}
	if fps > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(fps), 1)
	}
	return r
}

// OpenReplay loads a JSON-lines recording from path. Files ending in .zst
// are decompressed on the fly.
func OpenReplay(path string, fps int) (*Replay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("opening compressed session: %w", err)
		}
		defer dec.Close()
		reader = dec
	}

	frames, err := ReadSession(reader)
	if err != nil {
		return nil, err
	}
	return NewReplay(frames, fps), nil
}

// OnFrame registers a callback invoked with the index of every frame handed
// to the loop.
func (r *Replay) OnFrame(fn func(index int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFrame = fn
}

// Len returns the number of recorded frames.
func (r *Replay) Len() int {
	return len(r.frames)
}

// Ready reports whether frames remain.
func (r *Replay) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames) > 0 && r.pos < len(r.frames)
}

// WaitFrame advances to the next frame, waiting to keep the frame rate.
func (r *Replay) WaitFrame(ctx context.Context) error {
	r.mu.Lock()
	if r.pos+1 >= len(r.frames) {
		r.pos = len(r.frames)
		r.mu.Unlock()
		return recognition.ErrSourceClosed
	}
	r.mu.Unlock()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("pacing replay: %w", err)
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.pos++
	idx, fn := r.pos, r.onFrame
	r.mu.Unlock()

	if fn != nil {
		fn(idx)
	}
	return nil
}

// Now returns the recording time of the current frame, or of the first
// frame before playback starts. Sessions where any frame lacks a timestamp
// use the wall clock. Pass it as recognition.Options.Now so cooldowns follow
// the recording regardless of the playback rate.
func (r *Replay) Now() time.Time {
	if !r.timed {
		return time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := min(max(r.pos, 0), len(r.frames)-1)
	return time.UnixMilli(r.frames[idx].Timestamp)
}

func (r *Replay) current() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := max(r.pos, 0)
	if idx >= len(r.frames) {
		return Frame{}, false
	}
	return r.frames[idx], true
}

// Snapshot freezes the current frame.
func (r *Replay) Snapshot() (recognition.FrameSource, bool) {
	f, ok := r.current()
	if !ok {
		return nil, false
	}
	return &Still{Frame: f}, true
}

// Detect returns the face boxes of the frame frozen in src, or of the
// current frame.
func (r *Replay) Detect(ctx context.Context, src recognition.FrameSource) ([]recognition.Detection, error) {
	f, ok := frameFor(src, r.current)
	if !ok {
		return nil, nil
	}
	return f.Faces, nil
}

// Landmarks returns the landmark mesh of the frame frozen in src, or of the
// current frame.
func (r *Replay) Landmarks(ctx context.Context, src recognition.FrameSource) ([]facematch.Point, error) {
	f, ok := frameFor(src, r.current)
	if !ok {
		return nil, nil
	}
	return f.Landmarks, nil
}

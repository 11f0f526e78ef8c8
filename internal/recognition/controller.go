package recognition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/metrics"
)

// UnknownIdentity is surfaced for faces below the display threshold.
const UnknownIdentity = "Unknown"

// Steady-state status shown while the loop runs.
const idleMessage = "Recognition active - looking for registered faces"

// Tick outcomes, used as metric labels.
const (
	outcomeNotReady   = "not_ready"
	outcomeNoFace     = "no_face"
	outcomeNoFeatures = "no_features"
	outcomeTentative  = "tentative"
	outcomeUnknown    = "unknown"
	outcomeError      = "error"
)

// Controller owns the recognition loop and the process-wide debounce state.
// At most one run is active at a time.
type Controller struct {
	profiles  *database.ProfileRepository
	marker    *attendance.Marker
	detector  Detector
	extractor LandmarkExtractor
	matcher   *facematch.Matcher
	opts      Options
	logger    *zap.Logger
	events    Broadcaster

	mu       sync.Mutex
	active   *Handle
	starting context.CancelFunc // set while a start runs its pre-flight checks
}

// NewController creates a controller. Zero-valued timing options fall back
// to the defaults.
func NewController(
	profiles *database.ProfileRepository,
	records *database.RecordRepository,
	detector Detector,
	extractor LandmarkExtractor,
	opts Options,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Controller{
		profiles:  profiles,
		marker:    attendance.NewMarker(records, opts.Cooldown, logger),
		detector:  detector,
		extractor: extractor,
		matcher:   facematch.NewMatcher(opts.MaxDistance),
		opts:      opts,
		logger:    logger,
	}
}

// Events returns the notification broadcaster. Listeners survive restarts.
func (c *Controller) Events() *Broadcaster {
	return &c.events
}

// Active returns the running handle, or nil when idle.
func (c *Controller) Active() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active.Running() {
		return c.active
	}
	return nil
}

// Starting reports whether a start is waiting on its pre-flight checks.
func (c *Controller) Starting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starting != nil
}

// Stop stops the active run, or aborts a pending start, and reports whether
// there was anything to stop.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	if c.starting != nil {
		c.starting()
		c.mu.Unlock()
		return true
	}
	h := c.active
	c.mu.Unlock()

	if h == nil || !h.Running() {
		return false
	}
	h.Stop()
	return true
}

// StartRecognition runs the pre-flight checks and starts the loop over src.
// It returns ErrEmptyEnrollment when nobody is enrolled, ErrCameraAccess when
// src does not become ready within the start timeout, ErrAlreadyRunning when
// a run is active or starting and ErrStartCancelled when Stop was called
// during the checks. The loop outlives ctx; use the handle to stop it.
func (c *Controller) StartRecognition(ctx context.Context, src FrameSource) (*Handle, error) {
	startCtx, cancelStart := context.WithCancel(ctx)
	defer cancelStart()

	c.mu.Lock()
	if c.starting != nil || (c.active != nil && c.active.Running()) {
		c.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	c.starting = cancelStart
	c.mu.Unlock()

	count, err := c.preflight(startCtx, src)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.starting = nil

	if startCtx.Err() != nil && ctx.Err() == nil {
		return nil, ErrStartCancelled
	}
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h := newHandle(cancel, c.opts.Now())
	c.active = h

	c.logger.Info("recognition started", zap.Int("registered_faces", count))
	c.emit(h, Notification{Kind: KindIdle, Message: idleMessage})

	go c.run(loopCtx, src, h)
	return h, nil
}

// preflight checks enrollment and the source, then seeds the debouncer. It
// runs without holding c.mu.
func (c *Controller) preflight(ctx context.Context, src FrameSource) (int, error) {
	count, err := c.profiles.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading registered faces: %w", err)
	}
	if count == 0 {
		return 0, ErrEmptyEnrollment
	}

	if err := c.waitReady(ctx, src); err != nil {
		return 0, err
	}

	if _, err := c.marker.Seed(ctx, c.opts.Now()); err != nil {
		c.logger.Warn("could not seed debounce state", zap.Error(err))
	}
	return count, nil
}

func (c *Controller) waitReady(ctx context.Context, src FrameSource) error {
	if src == nil {
		return ErrCameraAccess
	}
	if src.Ready() {
		return nil
	}

	timeout := time.NewTimer(c.opts.StartTimeout)
	defer timeout.Stop()
	ticker := time.NewTicker(c.opts.ReadyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return fmt.Errorf("%w after %s", ErrNotReady, c.opts.StartTimeout)
		case <-ticker.C:
			if src.Ready() {
				return nil
			}
		}
	}
}

func (c *Controller) run(ctx context.Context, src FrameSource, h *Handle) {
	defer close(h.done)

	fps := fpsCounter{windowStart: c.opts.Now()}
	for h.Running() {
		if err := src.WaitFrame(ctx); err != nil {
			if ctx.Err() == nil {
				h.finish(fmt.Errorf("%w: %w", ErrCameraAccess, err))
			}
			break
		}
		if !h.Running() {
			break
		}

		c.tick(ctx, src, h)

		if rate, ok := fps.tick(c.opts.Now()); ok {
			h.fps.Store(int64(rate))
			metrics.FramesPerSecond.Set(float64(rate))
		}
	}

	h.Stop()
	metrics.FramesPerSecond.Set(0)

	h.mu.Lock()
	reason := h.err
	h.mu.Unlock()
	if reason != nil {
		c.logger.Warn("recognition stopped", zap.Error(reason))
	} else {
		c.logger.Info("recognition stopped")
	}
}

func (c *Controller) tick(ctx context.Context, src FrameSource, h *Handle) {
	start := time.Now()
	outcome, err := c.step(ctx, src, h)
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	metrics.TicksTotal.WithLabelValues(outcome).Inc()

	if err != nil {
		c.logger.Warn("recognition tick failed", zap.Error(err))
	}
}

// step runs detection, extraction, matching and the threshold policy for
// one frame. Any failure, including a panic, ends the tick without a decision.
func (c *Controller) step(ctx context.Context, src FrameSource, h *Handle) (outcome string, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = outcomeError
			err = fmt.Errorf("recognition tick panicked: %v", r)
		}
	}()

	if !src.Ready() {
		return outcomeNotReady, nil
	}
	snap := snapshot(src)

	detections, err := c.detector.Detect(ctx, snap)
	if err != nil {
		return outcomeError, fmt.Errorf("%w: %w", ErrDetection, err)
	}
	if len(detections) == 0 {
		c.emit(h, Notification{Kind: KindClear})
		return outcomeNoFace, nil
	}

	points, err := c.extractor.Landmarks(ctx, snap)
	if err != nil {
		return outcomeError, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	probe := facematch.ExtractFeatures(points)
	if probe == nil {
		return outcomeNoFeatures, nil
	}

	// Read fresh every tick so concurrent enrollments are picked up.
	profiles, err := c.profiles.List(ctx)
	if err != nil {
		return outcomeError, fmt.Errorf("loading registered faces: %w", err)
	}

	result := c.matcher.Match(probe, profiles)
	decision := Decide(result, c.opts.DisplayThreshold, c.opts.MarkThreshold)
	if !decision.Tentative {
		c.emit(h, Notification{Kind: KindUnknown, Identity: UnknownIdentity, Confidence: result.Confidence})
		return outcomeUnknown, nil
	}

	c.emit(h, Notification{Kind: KindTentative, Identity: result.Identity, Confidence: result.Confidence})

	now := c.opts.Now()
	if decision.MarkEligible && c.marker.ShouldMark(result.Identity, now) {
		rec, err := c.marker.RecordMark(ctx, result.Identity, now)
		if err != nil {
			return outcomeError, err
		}
		metrics.MarksTotal.Inc()

		c.emit(h, Notification{
			Kind:       KindMarked,
			Identity:   rec.Name,
			Confidence: result.Confidence,
			Message:    fmt.Sprintf("Attendance marked for %s at %s", rec.Name, rec.Time),
		})
		h.scheduleNotice(c.opts.NoticeDuration, func() {
			c.emit(h, Notification{Kind: KindIdle, Message: idleMessage})
		})
	}
	return outcomeTentative, nil
}

func (c *Controller) emit(h *Handle, n Notification) {
	n.At = c.opts.Now()
	h.emit(func() { c.events.Send(n) })
}

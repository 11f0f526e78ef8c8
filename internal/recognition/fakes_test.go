package recognition

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// fakeSource hands out one frame per value sent on frames. Closing frames
// closes the source.
type fakeSource struct {
	ready  atomic.Bool
	frames chan struct{}
}

func newFakeSource() *fakeSource {
	s := &fakeSource{frames: make(chan struct{})}
	s.ready.Store(true)
	return s
}

func (s *fakeSource) Ready() bool { return s.ready.Load() }

func (s *fakeSource) WaitFrame(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-s.frames:
		if !ok {
			return ErrSourceClosed
		}
		return nil
	}
}

// frame is what the fake detector and extractor report for one tick.
type frame struct {
	faces     int
	landmarks []facematch.Point
	detectErr error
	panics    bool
}

// fakeModel serves detector and extractor results from the current frame.
type fakeModel struct {
	mu      sync.Mutex
	current frame
	detects atomic.Int64
}

func (m *fakeModel) set(f frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = f
}

func (m *fakeModel) Detect(ctx context.Context, src FrameSource) ([]Detection, error) {
	m.detects.Add(1)
	m.mu.Lock()
	f := m.current
	m.mu.Unlock()

	if f.panics {
		panic("model crashed")
	}
	if f.detectErr != nil {
		return nil, f.detectErr
	}
	detections := make([]Detection, f.faces)
	for i := range detections {
		detections[i] = Detection{Box: Box{X: 10, Y: 10, Width: 100, Height: 120}}
	}
	return detections, nil
}

func (m *fakeModel) Landmarks(ctx context.Context, src FrameSource) ([]facematch.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.landmarks, nil
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// mesh returns a 468-point 3D mesh with every coordinate set to base.
func mesh(base float64) []facematch.Point {
	points := make([]facematch.Point, facematch.MeshPoints)
	for i := range points {
		points[i] = facematch.Point{base, base, base}
	}
	return points
}

// meshAtDistance returns a mesh whose fingerprint is exactly d away from
// the fingerprint of mesh(0): only the first feature coordinate moves.
func meshAtDistance(d float64) []facematch.Point {
	points := mesh(0)
	idx := facematch.FeatureLandmarks[0].Index
	points[idx] = facematch.Point{d, 0, 0}
	return points
}

type harness struct {
	store    *mock.MockStore
	profiles *database.ProfileRepository
	records  *database.RecordRepository
	model    *fakeModel
	clock    *fakeClock
	ctrl     *Controller
}

func newHarness(t *testing.T, mutate func(*Options)) *harness {
	t.Helper()
	store := mock.NewMockStore()
	h := &harness{
		store:    store,
		profiles: database.NewProfileRepository(store, ""),
		records:  database.NewRecordRepository(store, ""),
		model:    &fakeModel{},
		clock:    &fakeClock{now: time.UnixMilli(1_700_000_000_000)},
	}
	opts := DefaultOptions()
	opts.Now = h.clock.Now
	opts.NoticeDuration = time.Hour
	opts.ReadyPollInterval = 5 * time.Millisecond
	opts.StartTimeout = time.Second
	if mutate != nil {
		mutate(&opts)
	}
	h.ctrl = NewController(h.profiles, h.records, h.model, h.model, opts, nil)
	return h
}

func (h *harness) enroll(t *testing.T, identity string, landmarks []facematch.Point) {
	t.Helper()
	_, err := h.profiles.Upsert(context.Background(), facematch.Profile{
		Identity:    identity,
		Fingerprint: facematch.ExtractFeatures(landmarks),
		EnrolledAt:  h.clock.Now(),
	})
	if err != nil {
		t.Fatalf("enroll %s: %v", identity, err)
	}
}

// next reads one notification or fails after a timeout.
func next(t *testing.T, ch <-chan Notification) Notification {
	t.Helper()
	select {
	case n, ok := <-ch:
		if !ok {
			t.Fatal("notification channel closed")
		}
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
	return Notification{}
}

func expectKind(t *testing.T, ch <-chan Notification, kind Kind) Notification {
	t.Helper()
	n := next(t, ch)
	if n.Kind != kind {
		t.Fatalf("expected %s notification, got %+v", kind, n)
	}
	return n
}

var errModel = errors.New("model failure")

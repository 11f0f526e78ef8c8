package frames

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

func TestReadSession(t *testing.T) {
	input := `{"faces":[{"box":{"x":1,"y":2,"width":3,"height":4}}],"landmarks":[[1,2,3],[4,5,6]],"timestamp":1000}

{"faces":[]}
`
	frames, err := ReadSession(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSession: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if !frames[0].HasFace() || frames[0].Faces[0].Box.Width != 3 {
		t.Errorf("unexpected first frame %+v", frames[0])
	}
	if len(frames[0].Landmarks) != 2 || frames[0].Landmarks[1][2] != 6 {
		t.Errorf("unexpected landmarks %v", frames[0].Landmarks)
	}
	if frames[1].HasFace() {
		t.Error("expected second frame without faces")
	}
}

func TestReadSession_BadLine(t *testing.T) {
	_, err := ReadSession(strings.NewReader("{\"faces\":[]}\nnot json\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestLive(t *testing.T) {
	live := NewLive(0)
	if live.Ready() {
		t.Error("expected empty source to be not ready")
	}

	done := make(chan error, 1)
	go func() { done <- live.WaitFrame(context.Background()) }()

	// Give the waiter time to park on the update channel.
	time.Sleep(10 * time.Millisecond)
	if err := live.Push(Frame{Faces: []recognition.Detection{{}}, Landmarks: []facematch.Point{{1, 2}}}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WaitFrame: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFrame did not return after push")
	}

	if !live.Ready() {
		t.Error("expected source to be ready after push")
	}
	dets, _ := live.Detect(context.Background(), live)
	if len(dets) != 1 {
		t.Errorf("expected 1 detection, got %d", len(dets))
	}
	points, _ := live.Landmarks(context.Background(), live)
	if len(points) != 1 {
		t.Errorf("expected 1 landmark, got %d", len(points))
	}
}

func TestLive_Snapshot(t *testing.T) {
	ctx := context.Background()
	live := NewLive(0)
	if _, ok := live.Snapshot(); ok {
		t.Fatal("expected no snapshot before the first push")
	}

	face := Frame{Faces: []recognition.Detection{{}}, Landmarks: []facematch.Point{{1, 2}}}
	if err := live.Push(face); err != nil {
		t.Fatalf("Push: %v", err)
	}
	snap, ok := live.Snapshot()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if err := live.Push(Frame{}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	dets, _ := live.Detect(ctx, snap)
	points, _ := live.Landmarks(ctx, snap)
	if len(dets) != 1 || len(points) != 1 {
		t.Errorf("expected the frozen frame, got %d detections and %d landmarks", len(dets), len(points))
	}
	if dets, _ := live.Detect(ctx, live); len(dets) != 0 {
		t.Errorf("expected the live source to serve the newest frame, got %d detections", len(dets))
	}
	if !snap.Ready() {
		t.Error("expected a snapshot to be ready")
	}
}

func TestLive_Close(t *testing.T) {
	live := NewLive(0)
	done := make(chan error, 1)
	go func() { done <- live.WaitFrame(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	live.Close()

	select {
	case err := <-done:
		if !errors.Is(err, recognition.ErrSourceClosed) {
			t.Fatalf("expected ErrSourceClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFrame did not return after close")
	}

	if err := live.Push(Frame{}); !errors.Is(err, recognition.ErrSourceClosed) {
		t.Errorf("expected push after close to fail, got %v", err)
	}
	live.Close()
}

func TestLive_Stale(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	live := NewLive(time.Second)
	live.now = func() time.Time { return now }

	if err := live.Push(Frame{}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if !live.Ready() {
		t.Error("expected fresh frame to be ready")
	}
	now = now.Add(2 * time.Second)
	if live.Ready() {
		t.Error("expected stale frame to be not ready")
	}
}

func TestLive_WaitFrameCancelled(t *testing.T) {
	live := NewLive(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := live.WaitFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReplay(t *testing.T) {
	frames := []Frame{
		{Faces: []recognition.Detection{{Score: 0.9}}},
		{},
	}
	r := NewReplay(frames, 0)

	var seen []int
	r.OnFrame(func(i int) { seen = append(seen, i) })

	if !r.Ready() {
		t.Fatal("expected replay to be ready before the first frame")
	}

	ctx := context.Background()
	if err := r.WaitFrame(ctx); err != nil {
		t.Fatalf("WaitFrame 1: %v", err)
	}
	dets, _ := r.Detect(ctx, r)
	if len(dets) != 1 {
		t.Errorf("expected face in frame 0, got %d", len(dets))
	}

	if err := r.WaitFrame(ctx); err != nil {
		t.Fatalf("WaitFrame 2: %v", err)
	}
	dets, _ = r.Detect(ctx, r)
	if len(dets) != 0 {
		t.Errorf("expected no face in frame 1, got %d", len(dets))
	}

	if err := r.WaitFrame(ctx); !errors.Is(err, recognition.ErrSourceClosed) {
		t.Fatalf("expected ErrSourceClosed after last frame, got %v", err)
	}
	if r.Ready() {
		t.Error("expected exhausted replay to be not ready")
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("unexpected OnFrame indexes %v", seen)
	}
}

func TestReplay_Paced(t *testing.T) {
	r := NewReplay(make([]Frame, 3), 50) // 20ms per frame
	ctx := context.Background()

	start := time.Now()
	for range 3 {
		if err := r.WaitFrame(ctx); err != nil {
			t.Fatalf("WaitFrame: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("expected pacing of ~40ms, took %v", elapsed)
	}
}

func TestReplay_WaitFrameCancelled(t *testing.T) {
	r := NewReplay(make([]Frame, 3), 1)
	if err := r.WaitFrame(context.Background()); err != nil {
		t.Fatalf("first WaitFrame: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.WaitFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOpenReplay(t *testing.T) {
	session := `{"faces":[{"box":{"x":1,"y":2,"width":3,"height":4}}],"landmarks":[[1,2,3]]}
{"faces":[]}
`
	dir := t.TempDir()

	plain := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(plain, []byte(session), 0o600); err != nil {
		t.Fatalf("write plain session: %v", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := enc.Write([]byte(session)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	compressed := filepath.Join(dir, "session.jsonl.zst")
	if err := os.WriteFile(compressed, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write compressed session: %v", err)
	}

	for _, path := range []string{plain, compressed} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			r, err := OpenReplay(path, 0)
			if err != nil {
				t.Fatalf("OpenReplay: %v", err)
			}
			if r.Len() != 2 {
				t.Errorf("expected 2 frames, got %d", r.Len())
			}
		})
	}

	if _, err := OpenReplay(filepath.Join(dir, "missing.jsonl"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReplay_Now(t *testing.T) {
	t0 := time.UnixMilli(1_700_000_000_000)
	r := NewReplay([]Frame{
		{Timestamp: t0.UnixMilli()},
		{Timestamp: t0.Add(time.Minute).UnixMilli()},
	}, 0)
	ctx := context.Background()

	if got := r.Now(); !got.Equal(t0) {
		t.Errorf("before playback: Now() = %v, want %v", got, t0)
	}
	for _, want := range []time.Time{t0, t0.Add(time.Minute)} {
		if err := r.WaitFrame(ctx); err != nil {
			t.Fatalf("WaitFrame: %v", err)
		}
		if got := r.Now(); !got.Equal(want) {
			t.Errorf("Now() = %v, want %v", got, want)
		}
	}
	if err := r.WaitFrame(ctx); !errors.Is(err, recognition.ErrSourceClosed) {
		t.Fatalf("expected ErrSourceClosed, got %v", err)
	}
	if got := r.Now(); !got.Equal(t0.Add(time.Minute)) {
		t.Errorf("after playback: Now() = %v, want last frame time", got)
	}

	untimed := NewReplay([]Frame{{Timestamp: t0.UnixMilli()}, {}}, 0)
	if got := untimed.Now(); time.Since(got) > time.Minute {
		t.Errorf("expected wall clock for a session without timestamps, got %v", got)
	}
}

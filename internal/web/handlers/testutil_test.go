package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/frames"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// testApp wires the handlers over an in-memory store and a live source.
type testApp struct {
	store    *mock.MockStore
	profiles *database.ProfileRepository
	records  *database.RecordRepository
	live     *frames.Live
	ctrl     *recognition.Controller
	enroller *recognition.Enroller
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := mock.NewMockStore()
	live := frames.NewLive(0)
	app := &testApp{
		store:    store,
		profiles: database.NewProfileRepository(store, ""),
		records:  database.NewRecordRepository(store, ""),
		live:     live,
	}

	opts := recognition.DefaultOptions()
	opts.StartTimeout = 50 * time.Millisecond
	opts.ReadyPollInterval = 5 * time.Millisecond
	app.ctrl = recognition.NewController(app.profiles, app.records, live, live, opts, nil)
	app.enroller = recognition.NewEnroller(app.profiles, live, live, nil)

	t.Cleanup(func() { app.ctrl.Stop() })
	return app
}

// faceFrame returns a frame with one face and a full mesh at base.
func faceFrame(base float64) frames.Frame {
	points := make([]facematch.Point, facematch.MeshPoints)
	for i := range points {
		points[i] = facematch.Point{base, base, base}
	}
	return frames.Frame{
		Faces:     []recognition.Detection{{Box: recognition.Box{Width: 100, Height: 100}}},
		Landmarks: points,
	}
}

func (a *testApp) enroll(t *testing.T, identity string) {
	t.Helper()
	_, err := a.profiles.Upsert(context.Background(), facematch.Profile{
		Identity:    identity,
		Fingerprint: facematch.ExtractFeatures(faceFrame(0).Landmarks),
		EnrolledAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

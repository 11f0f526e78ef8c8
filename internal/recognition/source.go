package recognition

import (
	"context"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// FrameSource is the visual input the loop is paced by.
type FrameSource interface {
	// Ready reports whether a frame can be analyzed right now.
	Ready() bool
	// WaitFrame blocks until the next frame is available. It returns
	// ErrSourceClosed when the input is gone and ctx.Err() on cancellation.
	WaitFrame(ctx context.Context) error
}

// Snapshotter is implemented by sources whose current frame can change
// between calls. The returned source holds one frozen frame.
type Snapshotter interface {
	Snapshot() (FrameSource, bool)
}

// snapshot freezes src when it supports it, so detection and landmarks of
// one pass read the same frame.
func snapshot(src FrameSource) FrameSource {
	if s, ok := src.(Snapshotter); ok {
		if frozen, ok := s.Snapshot(); ok {
			return frozen
		}
	}
	return src
}

// Box is a face bounding box in frame pixels.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is one detected face region.
type Detection struct {
	Box   Box     `json:"box"`
	Score float64 `json:"score,omitempty"`
}

// Detector finds face regions in the current frame. An empty slice means no face.
type Detector interface {
	Detect(ctx context.Context, src FrameSource) ([]Detection, error)
}

// LandmarkExtractor returns the face mesh points of the first face in the
// current frame, or an empty slice.
type LandmarkExtractor interface {
	Landmarks(ctx context.Context, src FrameSource) ([]facematch.Point, error)
}

// Package frames provides frame sources for the recognition loop: frames
// pushed by an external face mesh detector and recorded sessions.
package frames

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// Frame is one analyzed video frame: detected face boxes and the landmark
// mesh of the first face.
type Frame struct {
	Faces     []recognition.Detection `json:"faces"`
	Landmarks []facematch.Point       `json:"landmarks,omitempty"`
	Timestamp int64                   `json:"timestamp,omitempty"` // Unix milliseconds
}

// HasFace reports whether the detector found at least one face.
func (f Frame) HasFace() bool {
	return len(f.Faces) > 0
}

// Still is one frozen frame. It is always ready and never advances.
type Still struct {
	Frame Frame
}

// Ready always reports true.
func (s *Still) Ready() bool { return true }

// WaitFrame blocks until ctx is done.
func (s *Still) WaitFrame(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// frameFor returns the frame frozen in src, or the current frame otherwise.
func frameFor(src recognition.FrameSource, current func() (Frame, bool)) (Frame, bool) {
	if still, ok := src.(*Still); ok {
		return still.Frame, true
	}
	return current()
}

// maxLineSize bounds one JSON-lines record; a 468-point 3D mesh is ~30 KB.
const maxLineSize = 1 << 20

// ReadFrame decodes a single JSON frame.
func ReadFrame(r io.Reader) (Frame, error) {
	var f Frame
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Frame{}, fmt.Errorf("decoding frame: %w", err)
	}
	return f, nil
}

// ReadFrameFile decodes a single JSON frame from path.
func ReadFrameFile(path string) (Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return Frame{}, fmt.Errorf("opening frame file: %w", err)
	}
	defer file.Close()
	return ReadFrame(file)
}

// ReadSession decodes a JSON-lines recording, one frame per line. Blank
// lines are skipped.
func ReadSession(r io.Reader) ([]Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var frames []Frame
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return frames, nil
}

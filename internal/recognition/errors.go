// Package recognition runs enrollment and the continuous recognition loop on
// top of the face matching primitives.
package recognition

import (
	"errors"
	"fmt"
)

// Per-tick failures. These are wrapped, logged and swallowed by the loop.
var (
	ErrDetection  = errors.New("face detection failed")
	ErrExtraction = errors.New("landmark extraction failed")
)

// Pre-flight and enrollment errors returned to callers.
var (
	ErrEmptyEnrollment = errors.New("no registered faces")
	ErrInvalidName     = errors.New("identity name is required")
	ErrCameraAccess    = errors.New("frame source unavailable")
	ErrNoFaceDetected  = errors.New("no face detected")
	ErrAlreadyRunning  = errors.New("recognition already running")
	ErrStartCancelled  = errors.New("recognition start cancelled")
)

// ErrNotReady is returned when a source exists but has no usable frames yet.
// It matches ErrCameraAccess.
var ErrNotReady = fmt.Errorf("%w: not ready", ErrCameraAccess)

// ErrSourceClosed is returned by FrameSource.WaitFrame once the visual input is gone.
var ErrSourceClosed = errors.New("frame source closed")

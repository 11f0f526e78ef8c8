// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Recognition thresholds. These are empirical values tied to the coordinate
// scale of a 468-point face mesh in video pixel space.
const (
	// DisplayThreshold is the minimum confidence to surface a candidate identity
	DisplayThreshold = 60

	// MarkThreshold is the minimum confidence to record an attendance event
	MarkThreshold = 75

	// MaxDistance is the Euclidean distance at which confidence decays to zero
	MaxDistance = 500.0
)

// Timing constants
const (
	// MarkCooldown suppresses repeated marks of the same identity
	MarkCooldown = 5000 * time.Millisecond

	// MarkNoticeDuration is how long the "marked" notice stays up before
	// the status reverts to steady state
	MarkNoticeDuration = 3000 * time.Millisecond

	// ReadyPollInterval is the delay between frame source readiness checks at startup
	ReadyPollInterval = 500 * time.Millisecond

	// DefaultStartTimeout bounds how long StartRecognition waits for the source
	DefaultStartTimeout = 10 * time.Second
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for notification channels
	EventChannelBuffer = 100
)

// Replay constants
const (
	// DefaultReplayFPS is the frame rate used when replaying a recorded session
	DefaultReplayFPS = 30
)

// Storage keys for the two logical tables.
const (
	RegisteredFacesKey   = "registeredFaces"
	AttendanceRecordsKey = "attendanceRecords"
)

package database

import (
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// ProfileRecord is the stored form of an enrolled profile.
type ProfileRecord struct {
	Name      string    `json:"name"`
	Features  []float64 `json:"features"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds
}

// AttendanceRecord is one append-only attendance log entry.
type AttendanceRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`      // e.g. "Monday, January 2, 2006"
	Time      string `json:"time"`      // e.g. "03:04:05 PM"
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// At returns the record timestamp as a time.Time.
func (r AttendanceRecord) At() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Date and time layouts used for the human-readable record fields.
const (
	RecordDateLayout = "Monday, January 2, 2006"
	RecordTimeLayout = "03:04:05 PM"
)

func profileFromRecord(r ProfileRecord) facematch.Profile {
	return facematch.Profile{
		Identity:    r.Name,
		Fingerprint: facematch.FeatureVector(r.Features),
		EnrolledAt:  time.UnixMilli(r.Timestamp),
	}
}

func recordFromProfile(p facematch.Profile) ProfileRecord {
	return ProfileRecord{
		Name:      p.Identity,
		Features:  []float64(p.Fingerprint),
		Timestamp: p.EnrolledAt.UnixMilli(),
	}
}

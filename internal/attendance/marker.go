package attendance

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// Marker combines the debouncer with the attendance log.
type Marker struct {
	debouncer *Debouncer
	records   *database.RecordRepository
	cooldown  time.Duration
	logger    *zap.Logger
}

// NewMarker creates a marker with the given cooldown window.
func NewMarker(records *database.RecordRepository, cooldown time.Duration, logger *zap.Logger) *Marker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Marker{
		debouncer: NewDebouncer(),
		records:   records,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// Cooldown returns the debounce window.
func (m *Marker) Cooldown() time.Duration {
	return m.cooldown
}

// ShouldMark reports whether identity may be marked at now.
func (m *Marker) ShouldMark(identity string, now time.Time) bool {
	return m.debouncer.ShouldMark(identity, now, m.cooldown)
}

// RecordMark appends an attendance event for identity and updates the
// debounce state. The state is only updated after the event was stored, so
// a failed write is retried on the next eligible frame.
func (m *Marker) RecordMark(ctx context.Context, identity string, now time.Time) (database.AttendanceRecord, error) {
	rec := database.NewAttendanceRecord(identity, now)
	if err := m.records.Append(ctx, rec); err != nil {
		return database.AttendanceRecord{}, fmt.Errorf("recording attendance for %s: %w", identity, err)
	}
	m.debouncer.RecordMark(identity, now)

	m.logger.Info("attendance marked",
		zap.String("identity", identity),
		zap.String("record_id", rec.ID),
		zap.Time("at", now),
	)
	return rec, nil
}

// MarkIfDue records a mark when the identity is outside its cooldown window.
func (m *Marker) MarkIfDue(ctx context.Context, identity string, now time.Time) (database.AttendanceRecord, bool, error) {
	if !m.ShouldMark(identity, now) {
		return database.AttendanceRecord{}, false, nil
	}
	rec, err := m.RecordMark(ctx, identity, now)
	if err != nil {
		return database.AttendanceRecord{}, false, err
	}
	return rec, true, nil
}

// Seed loads marks stored within the cooldown window before now, so a
// restarted loop does not repeat a mark that is already in the log. Records
// dated after now (written by a host whose clock ran ahead) count as marked
// at now.
func (m *Marker) Seed(ctx context.Context, now time.Time) (int, error) {
	recent, err := m.records.Since(ctx, now.Add(-m.cooldown-time.Millisecond))
	if err != nil {
		return 0, fmt.Errorf("seeding debounce state: %w", err)
	}
	// Oldest first so the newest record per identity wins.
	for _, rec := range slices.Backward(recent) {
		at := rec.At()
		if at.After(now) {
			at = now
		}
		m.debouncer.RecordMark(rec.Name, at)
	}
	if len(recent) > 0 {
		m.logger.Debug("debounce state seeded", zap.Int("records", len(recent)))
	}
	return len(recent), nil
}

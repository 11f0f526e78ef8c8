package database

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// RecordRepository provides access to the attendance log, newest first.
type RecordRepository struct {
	store Store
	key   string
	mu    sync.Mutex
}

// NewRecordRepository creates an attendance log repository.
func NewRecordRepository(store Store, prefix string) *RecordRepository {
	return &RecordRepository{store: store, key: prefix + constants.AttendanceRecordsKey}
}

// NewAttendanceRecord builds a record for identity at the given instant.
func NewAttendanceRecord(identity string, at time.Time) AttendanceRecord {
	return AttendanceRecord{
		ID:        uuid.NewString(),
		Name:      identity,
		Date:      at.Format(RecordDateLayout),
		Time:      at.Format(RecordTimeLayout),
		Timestamp: at.UnixMilli(),
	}
}

// List returns all records, newest first.
func (r *RecordRepository) List(ctx context.Context) ([]AttendanceRecord, error) {
	return loadList[AttendanceRecord](ctx, r.store, r.key)
}

// Append adds a record at the head of the log.
func (r *RecordRepository) Append(ctx context.Context, rec AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := loadList[AttendanceRecord](ctx, r.store, r.key)
	if err != nil {
		return err
	}

	records = append([]AttendanceRecord{rec}, records...)
	return saveList(ctx, r.store, r.key, records)
}

// Since returns records with a timestamp strictly after t, newest first.
func (r *RecordRepository) Since(ctx context.Context, t time.Time) ([]AttendanceRecord, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var recent []AttendanceRecord
	for _, rec := range records {
		if rec.Timestamp > t.UnixMilli() {
			recent = append(recent, rec)
		}
	}
	return recent, nil
}

// Clear removes every record. This is a bulk administrative operation; the
// recognition loop never calls it.
func (r *RecordRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveList[AttendanceRecord](ctx, r.store, r.key, nil)
}

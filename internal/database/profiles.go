package database

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// ProfileRepository provides access to the registered faces table.
type ProfileRepository struct {
	store Store
	key   string
	mu    sync.Mutex // serializes read-modify-write cycles
}

// NewProfileRepository creates a profile repository. prefix is prepended to the storage key.
func NewProfileRepository(store Store, prefix string) *ProfileRepository {
	return &ProfileRepository{store: store, key: prefix + constants.RegisteredFacesKey}
}

// List returns all profiles in store order.
func (r *ProfileRepository) List(ctx context.Context) ([]facematch.Profile, error) {
	records, err := loadList[ProfileRecord](ctx, r.store, r.key)
	if err != nil {
		return nil, err
	}

	profiles := make([]facematch.Profile, 0, len(records))
	for _, rec := range records {
		profiles = append(profiles, profileFromRecord(rec))
	}
	return profiles, nil
}

// Upsert stores a profile. An existing profile with the same identity key
// (case-insensitive) is replaced in place and updated is true; otherwise the
// profile is appended.
func (r *ProfileRepository) Upsert(ctx context.Context, profile facematch.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := loadList[ProfileRecord](ctx, r.store, r.key)
	if err != nil {
		return false, err
	}

	rec := recordFromProfile(profile)
	updated := false
	for i := range records {
		if facematch.SameIdentity(records[i].Name, profile.Identity) {
			records[i] = rec
			updated = true
			break
		}
	}
	if !updated {
		records = append(records, rec)
	}

	if err := saveList(ctx, r.store, r.key, records); err != nil {
		return false, err
	}
	return updated, nil
}

// Count returns the number of enrolled profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	records, err := loadList[ProfileRecord](ctx, r.store, r.key)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

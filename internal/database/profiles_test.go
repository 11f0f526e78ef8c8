package database_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

func TestProfileRepository_EmptyStore(t *testing.T) {
	repo := database.NewProfileRepository(mock.NewMockStore(), "")

	profiles, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(profiles))
	}

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func TestProfileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	store := mock.NewMockStore()
	repo := database.NewProfileRepository(store, "")

	first := facematch.Profile{Identity: "Alice", Fingerprint: facematch.FeatureVector{1, 2}, EnrolledAt: time.UnixMilli(1000)}
	second := facematch.Profile{Identity: "Bob", Fingerprint: facematch.FeatureVector{3, 4}, EnrolledAt: time.UnixMilli(2000)}
	replacement := facematch.Profile{Identity: "alice", Fingerprint: facematch.FeatureVector{5, 6}, EnrolledAt: time.UnixMilli(3000)}

	for _, tc := range []struct {
		profile     facematch.Profile
		wantUpdated bool
	}{
		{first, false},
		{second, false},
		{replacement, true},
	} {
		updated, err := repo.Upsert(ctx, tc.profile)
		if err != nil {
			t.Fatalf("Upsert(%s): %v", tc.profile.Identity, err)
		}
		if updated != tc.wantUpdated {
			t.Errorf("Upsert(%s) updated = %v, want %v", tc.profile.Identity, updated, tc.wantUpdated)
		}
	}

	profiles, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Identity != "alice" || profiles[0].Fingerprint[0] != 5 {
		t.Errorf("expected replaced profile in first position, got %+v", profiles[0])
	}
	if !profiles[0].EnrolledAt.Equal(time.UnixMilli(3000)) {
		t.Errorf("expected enrolled at 3000ms, got %v", profiles[0].EnrolledAt)
	}
	if profiles[1].Identity != "Bob" {
		t.Errorf("expected Bob second, got %s", profiles[1].Identity)
	}
}

func TestProfileRepository_StoredFormat(t *testing.T) {
	ctx := context.Background()
	store := mock.NewMockStore()
	repo := database.NewProfileRepository(store, "kiosk:")

	_, err := repo.Upsert(ctx, facematch.Profile{
		Identity:    "Alice",
		Fingerprint: facematch.FeatureVector{0.5, 1.5},
		EnrolledAt:  time.UnixMilli(1700000000000),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	raw, err := store.Get(ctx, "kiosk:"+constants.RegisteredFacesKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var records []database.ProfileRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("stored value is not a JSON profile list: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Alice" || records[0].Timestamp != 1700000000000 {
		t.Errorf("unexpected stored records: %+v", records)
	}
}

func TestProfileRepository_Errors(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	t.Run("read error", func(t *testing.T) {
		store := mock.NewMockStore()
		store.GetError = errBoom
		repo := database.NewProfileRepository(store, "")
		if _, err := repo.List(ctx); !errors.Is(err, errBoom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("write error", func(t *testing.T) {
		store := mock.NewMockStore()
		store.PutError = errBoom
		repo := database.NewProfileRepository(store, "")
		_, err := repo.Upsert(ctx, facematch.Profile{Identity: "A", Fingerprint: facematch.FeatureVector{1}})
		if !errors.Is(err, errBoom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("corrupt value", func(t *testing.T) {
		store := mock.NewMockStore()
		store.Seed(constants.RegisteredFacesKey, []byte(`{not json`))
		repo := database.NewProfileRepository(store, "")
		if _, err := repo.List(ctx); err == nil {
			t.Error("expected decode error")
		}
	})
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fitlife/nutrio/internal/models"
)

func testProfile(name string) *models.StoredProfile {
	return &models.StoredProfile{
		Name: name,
		Profile: models.UserProfile{
			WeightKg:      80,
			HeightCm:      180,
			Age:           30,
			Sex:           "male",
			ActivityLevel: models.ActivityModeratelyActive,
			Goal:          models.GoalMuscleGain,
		},
	}
}

func TestSQLiteStorage_ProfileCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	p := testProfile("alex")
	if err := store.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Error("ID should be generated")
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "alex" || got.Profile.WeightKg != 80 {
		t.Errorf("got %+v", got)
	}
	if got.Profile.Goal != models.GoalMuscleGain {
		t.Errorf("expected goal to survive roundtrip, got %s", got.Profile.Goal)
	}

	byName, err := store.GetProfileByName(ctx, "alex")
	if err != nil {
		t.Fatal(err)
	}
	if byName.ID != p.ID {
		t.Errorf("expected %s, got %s", p.ID, byName.ID)
	}

	p.Profile.WeightKg = 78.5
	if err := store.UpdateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetProfile(ctx, p.ID)
	if got.Profile.WeightKg != 78.5 {
		t.Errorf("expected 78.5, got %v", got.Profile.WeightKg)
	}

	list, err := store.ListProfiles(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 profile, got %d", len(list))
	}

	if err := store.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetProfile(ctx, p.ID); err == nil {
		t.Error("expected error after delete")
	}
}

func TestSQLiteStorage_DuplicateName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.CreateProfile(ctx, testProfile("sam")); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateProfile(ctx, testProfile("sam")); err == nil {
		t.Error("expected unique name violation")
	}
}

func TestSQLiteStorage_Progress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	p := testProfile("kim")
	if err := store.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	weights := []float64{82, 81.2, 80.5}
	for i, w := range weights {
		e := &models.ProgressEntry{
			ProfileID:  p.ID,
			WeightKg:   w,
			RecordedAt: base.AddDate(0, 0, 7*i),
		}
		if err := store.AddProgress(ctx, e); err != nil {
			t.Fatal(err)
		}
		if e.ID == "" {
			t.Error("entry ID should be generated")
		}
	}

	list, err := store.ListProgress(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if list[0].WeightKg != 82 || list[2].WeightKg != 80.5 {
		t.Errorf("expected chronological order, got %v then %v", list[0].WeightKg, list[2].WeightKg)
	}

	latest, err := store.LatestProgress(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.WeightKg != 80.5 {
		t.Errorf("expected latest 80.5, got %v", latest.WeightKg)
	}

	if _, err := store.LatestProgress(ctx, "missing"); err == nil {
		t.Error("expected error for profile without entries")
	}

	if err := store.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	list, _ = store.ListProgress(ctx, p.ID)
	if len(list) != 0 {
		t.Errorf("expected 0 entries after profile delete, got %d", len(list))
	}
}

func TestSQLiteStorage_Counts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	n, err := store.CountProfiles(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountProfiles: %v, %d", err, n)
	}
	p := testProfile("lee")
	_ = store.CreateProfile(ctx, p)
	_ = store.AddProgress(ctx, &models.ProgressEntry{ProfileID: p.ID, WeightKg: 70})
	n, _ = store.CountProfiles(ctx)
	if n != 1 {
		t.Errorf("expected 1 profile, got %d", n)
	}
	n, _ = store.CountProgress(ctx)
	if n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}

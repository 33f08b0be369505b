// Package storage defines the persistence interface for profiles and
// progress entries.
package storage

import (
	"context"

	"github.com/fitlife/nutrio/internal/models"
)

// Storage defines profile and progress persistence operations.
type Storage interface {
	// Profile operations
	CreateProfile(ctx context.Context, p *models.StoredProfile) error
	GetProfile(ctx context.Context, id string) (*models.StoredProfile, error)
	GetProfileByName(ctx context.Context, name string) (*models.StoredProfile, error)
	UpdateProfile(ctx context.Context, p *models.StoredProfile) error
	DeleteProfile(ctx context.Context, id string) error
	ListProfiles(ctx context.Context, offset, limit int) ([]*models.StoredProfile, error)

	// Progress operations
	AddProgress(ctx context.Context, e *models.ProgressEntry) error
	ListProgress(ctx context.Context, profileID string) ([]*models.ProgressEntry, error)
	LatestProgress(ctx context.Context, profileID string) (*models.ProgressEntry, error)

	// Stats
	CountProfiles(ctx context.Context) (int64, error)
	CountProgress(ctx context.Context) (int64, error)

	Close() error
}

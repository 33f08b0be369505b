package models

import "time"

// StoredProfile is a persisted user profile, keyed by a generated ID and a
// unique human-readable name.
type StoredProfile struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Profile   UserProfile `json:"profile"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ProgressEntry is a single body-weight log line for a profile.
type ProgressEntry struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	WeightKg   float64   `json:"weight_kg"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

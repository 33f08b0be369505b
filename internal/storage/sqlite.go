// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fitlife/nutrio/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		profile TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles(name);

	CREATE TABLE IF NOT EXISTS progress_entries (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		note TEXT,
		recorded_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_progress_profile_id ON progress_entries(profile_id);
	CREATE INDEX IF NOT EXISTS idx_progress_profile_recorded ON progress_entries(profile_id, recorded_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateProfile inserts a profile. A missing ID is generated.
func (s *SQLiteStorage) CreateProfile(ctx context.Context, p *models.StoredProfile) error {
	profileJSON, err := json.Marshal(p.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, profile, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(profileJSON), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetProfile returns a profile by ID.
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*models.StoredProfile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT id, name, profile, created_at, updated_at
		 FROM profiles WHERE id = ?`, id), id)
}

// GetProfileByName returns a profile by its unique name.
func (s *SQLiteStorage) GetProfileByName(ctx context.Context, name string) (*models.StoredProfile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT id, name, profile, created_at, updated_at
		 FROM profiles WHERE name = ?`, name), name)
}

func (s *SQLiteStorage) scanProfile(row *sql.Row, key string) (*models.StoredProfile, error) {
	var p models.StoredProfile
	var profileJSON string

	err := row.Scan(&p.ID, &p.Name, &profileJSON, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found: %s", key)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(profileJSON), &p.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile updates an existing profile.
func (s *SQLiteStorage) UpdateProfile(ctx context.Context, p *models.StoredProfile) error {
	profileJSON, err := json.Marshal(p.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	p.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET name = ?, profile = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, string(profileJSON), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("profile not found: %s", p.ID)
	}
	return nil
}

// DeleteProfile removes a profile and its progress entries.
func (s *SQLiteStorage) DeleteProfile(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress_entries WHERE profile_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListProfiles returns profiles with offset and limit.
func (s *SQLiteStorage) ListProfiles(ctx context.Context, offset, limit int) ([]*models.StoredProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, profile, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.StoredProfile
	for rows.Next() {
		var p models.StoredProfile
		var profileJSON string
		if err := rows.Scan(&p.ID, &p.Name, &profileJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(profileJSON), &p.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// AddProgress inserts a progress entry. A missing ID is generated and a zero
// RecordedAt defaults to now.
func (s *SQLiteStorage) AddProgress(ctx context.Context, e *models.ProgressEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	e.CreatedAt = time.Now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress_entries (id, profile_id, weight_kg, note, recorded_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProfileID, e.WeightKg, e.Note, e.RecordedAt, e.CreatedAt,
	)
	return err
}

// ListProgress returns all entries for a profile ordered by recording time.
func (s *SQLiteStorage) ListProgress(ctx context.Context, profileID string) ([]*models.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile_id, weight_kg, note, recorded_at, created_at
		 FROM progress_entries WHERE profile_id = ? ORDER BY recorded_at`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ProgressEntry
	for rows.Next() {
		var e models.ProgressEntry
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.WeightKg, &e.Note, &e.RecordedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// LatestProgress returns the most recent entry for a profile.
func (s *SQLiteStorage) LatestProgress(ctx context.Context, profileID string) (*models.ProgressEntry, error) {
	var e models.ProgressEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, weight_kg, note, recorded_at, created_at
		 FROM progress_entries WHERE profile_id = ?
		 ORDER BY recorded_at DESC LIMIT 1`, profileID,
	).Scan(&e.ID, &e.ProfileID, &e.WeightKg, &e.Note, &e.RecordedAt, &e.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no progress recorded for profile: %s", profileID)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountProfiles returns the total number of profiles.
func (s *SQLiteStorage) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// CountProgress returns the total number of progress entries.
func (s *SQLiteStorage) CountProgress(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM progress_entries`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

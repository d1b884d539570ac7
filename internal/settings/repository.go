package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository is the persistence boundary for the settings document.
type Repository interface {
	// Get returns the current settings, falling back to Defaults when no
	// row has been written yet.
	Get(ctx context.Context) (*Settings, error)

	// Put validates and replaces the settings document.
	Put(ctx context.Context, s *Settings) error
}

// SQLiteRepository implements Repository using a single-row SQLite table.
// The document is stored as JSON; the row id is fixed so a write is always
// an upsert of the same row.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed settings repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the current settings document.
func (r *SQLiteRepository) Get(ctx context.Context) (*Settings, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		"SELECT data FROM settings WHERE id = 1",
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s := Defaults()
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &s, nil
}

// Put validates and replaces the settings document, stamping UpdatedAt.
func (r *SQLiteRepository) Put(ctx context.Context, s *Settings) error {
	if err := Validate(s); err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data),
		s.UpdatedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("storing settings: %w", err)
	}
	return nil
}

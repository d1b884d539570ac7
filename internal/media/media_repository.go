package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MediaRepository defines the interface for media asset persistence.
type MediaRepository interface {
	// GetByID retrieves a media asset.
	// Returns ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Media, error)

	// List retrieves all media assets, newest first.
	List(ctx context.Context) ([]Media, error)

	// Create registers a new media asset.
	// Returns ErrExists if the ID is already registered.
	Create(ctx context.Context, m *Media) error

	// Delete removes a media asset and every slideshow slide that
	// references it, in a single transaction.
	// Returns ErrNotFound if the asset does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteMediaRepository implements MediaRepository using SQLite.
type SQLiteMediaRepository struct {
	db *sql.DB
}

// NewSQLiteMediaRepository creates a new SQLite-backed media repository.
func NewSQLiteMediaRepository(db *sql.DB) *SQLiteMediaRepository {
	return &SQLiteMediaRepository{db: db}
}

// GetByID retrieves a media asset.
func (r *SQLiteMediaRepository) GetByID(ctx context.Context, id string) (*Media, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, path, mime, size_bytes, created_at FROM media WHERE id = ?", id)

	m, err := scanMedia(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying media by id: %w", err)
	}
	return m, nil
}

// List retrieves all media assets, newest first.
func (r *SQLiteMediaRepository) List(ctx context.Context) ([]Media, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, path, mime, size_bytes, created_at FROM media ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("querying media: %w", err)
	}
	defer rows.Close()

	var assets []Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning media: %w", err)
		}
		assets = append(assets, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating media: %w", err)
	}
	return assets, nil
}

// Create registers a new media asset.
func (r *SQLiteMediaRepository) Create(ctx context.Context, m *Media) error {
	if err := ValidateMedia(m); err != nil {
		return err
	}

	m.CreatedAt = time.Now().UTC()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO media (id, name, path, mime, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Path, m.Mime, m.SizeBytes,
		m.CreatedAt.Format(time.RFC3339),
	); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrExists, m.ID)
		}
		return fmt.Errorf("inserting media: %w", err)
	}
	return nil
}

// Delete removes a media asset and its referencing slides in one
// transaction. Slideshows keep playing with the remaining slides.
func (r *SQLiteMediaRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM slideshow_slides WHERE media_id = ?", id); err != nil {
		return fmt.Errorf("deleting referencing slides: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing media delete: %w", err)
	}
	return nil
}

// scanMedia scans a media row into a Media.
func scanMedia(scanner interface{ Scan(dest ...any) error }) (*Media, error) {
	var m Media
	var createdAt string
	if err := scanner.Scan(&m.ID, &m.Name, &m.Path, &m.Mime, &m.SizeBytes, &createdAt); err != nil {
		return nil, err
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	return &m, nil
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}

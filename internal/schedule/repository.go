package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is one persisted schedule row. Data is the schedule JSON exactly
// as stored; callers run it through Normalize before serving it.
type Record struct {
	Version   int
	Data      []byte
	IsActive  bool
	CreatedAt time.Time
}

// VersionInfo summarises one stored schedule version for history listings.
type VersionInfo struct {
	Version   int       `json:"version"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence boundary for schedules. Implementations keep
// the append-only versioning contract: exactly one active record, old
// versions retained and queryable, never mutated in place.
type Store interface {
	// GetActive returns the active schedule record, or nil when none exists.
	GetActive(ctx context.Context) (*Record, error)

	// GetByVersion returns a historical schedule record.
	// Returns ErrNotFound if the version does not exist.
	GetByVersion(ctx context.Context, version int) (*Record, error)

	// ListVersions returns all stored versions, oldest first.
	ListVersions(ctx context.Context) ([]VersionInfo, error)

	// ReplaceActive deactivates every active record and inserts data as the
	// new active record at the given version, in a single transaction.
	// A crash can never leave storage without an active schedule as the
	// committed state.
	ReplaceActive(ctx context.Context, version int, data []byte) error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed schedule store.
// The db parameter should be an open SQLite connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetActive returns the active schedule record, or nil when none exists.
func (s *SQLiteStore) GetActive(ctx context.Context) (*Record, error) {
	query := `
		SELECT version, data, is_active, created_at
		FROM schedules
		WHERE is_active = 1
		ORDER BY version DESC
		LIMIT 1`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying active schedule: %w", err)
	}
	return rec, nil
}

// GetByVersion returns a historical schedule record.
func (s *SQLiteStore) GetByVersion(ctx context.Context, version int) (*Record, error) {
	query := `
		SELECT version, data, is_active, created_at
		FROM schedules
		WHERE version = ?`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying schedule version: %w", err)
	}
	return rec, nil
}

// ListVersions returns all stored versions, oldest first.
func (s *SQLiteStore) ListVersions(ctx context.Context) ([]VersionInfo, error) {
	query := `
		SELECT version, is_active, created_at
		FROM schedules
		ORDER BY version`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying schedule versions: %w", err)
	}
	defer rows.Close()

	var versions []VersionInfo
	for rows.Next() {
		var info VersionInfo
		var isActive int
		var createdAt string
		if err := rows.Scan(&info.Version, &isActive, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning schedule version: %w", err)
		}
		info.IsActive = isActive != 0
		info.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
		versions = append(versions, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule versions: %w", err)
	}
	return versions, nil
}

// ReplaceActive deactivates all active records and inserts the new active
// record in one transaction.
func (s *SQLiteStore) ReplaceActive(ctx context.Context, version int, data []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		"UPDATE schedules SET is_active = 0 WHERE is_active = 1",
	); err != nil {
		return fmt.Errorf("deactivating schedules: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schedules (version, data, is_active, created_at) VALUES (?, ?, 1, ?)",
		version,
		string(data),
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: version %d", ErrVersionExists, version)
		}
		return fmt.Errorf("inserting schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schedule replacement: %w", err)
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a schedule row into a Record.
func scanRecord(scanner rowScanner) (*Record, error) {
	var rec Record
	var data string
	var isActive int
	var createdAt string

	if err := scanner.Scan(&rec.Version, &data, &isActive, &createdAt); err != nil {
		return nil, err
	}

	rec.Data = []byte(data)
	rec.IsActive = isActive != 0
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	return &rec, nil
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

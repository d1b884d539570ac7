package display

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for display persistence operations.
type Repository interface {
	// GetByID retrieves a display by its unique identifier.
	// Returns ErrNotFound if the display does not exist.
	GetByID(ctx context.Context, id string) (*Display, error)

	// List retrieves all displays, ordered by name.
	List(ctx context.Context) ([]Display, error)

	// Create inserts a new display.
	// Returns ErrExists if a display with the same ID is already registered.
	Create(ctx context.Context, d *Display) error

	// Update modifies an existing display.
	// Returns ErrNotFound if the display does not exist.
	Update(ctx context.Context, d *Display) error

	// Delete removes a display by ID.
	// Returns ErrNotFound if the display does not exist.
	Delete(ctx context.Context, id string) error

	// Touch records a heartbeat: updates last_seen_at only.
	Touch(ctx context.Context, id string, seenAt time.Time) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed display repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const displayColumns = "id, name, location, orientation, slideshow_id, last_seen_at, created_at, updated_at"

// GetByID retrieves a display by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Display, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+displayColumns+" FROM displays WHERE id = ?", id)

	d, err := scanDisplay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying display by id: %w", err)
	}
	return d, nil
}

// List retrieves all displays, ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Display, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+displayColumns+" FROM displays ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying displays: %w", err)
	}
	defer rows.Close()

	var displays []Display
	for rows.Next() {
		d, err := scanDisplay(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning display: %w", err)
		}
		displays = append(displays, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating displays: %w", err)
	}
	return displays, nil
}

// Create inserts a new display.
func (r *SQLiteRepository) Create(ctx context.Context, d *Display) error {
	if err := Validate(d); err != nil {
		return err
	}

	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO displays (id, name, location, orientation, slideshow_id, last_seen_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.Name,
		nullString(d.Location),
		string(d.Orientation),
		d.SlideshowID,
		nullTime(d.LastSeenAt),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrExists, d.ID)
		}
		return fmt.Errorf("inserting display: %w", err)
	}
	return nil
}

// Update modifies an existing display.
func (r *SQLiteRepository) Update(ctx context.Context, d *Display) error {
	if err := Validate(d); err != nil {
		return err
	}

	d.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE displays
		SET name = ?, location = ?, orientation = ?, slideshow_id = ?, updated_at = ?
		WHERE id = ?`,
		d.Name,
		nullString(d.Location),
		string(d.Orientation),
		d.SlideshowID,
		d.UpdatedAt.Format(time.RFC3339),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating display: %w", err)
	}
	return requireRow(result, d.ID)
}

// Delete removes a display by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM displays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting display: %w", err)
	}
	return requireRow(result, id)
}

// Touch records a heartbeat without bumping updated_at; only the display
// itself causes it, not an admin edit.
func (r *SQLiteRepository) Touch(ctx context.Context, id string, seenAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE displays SET last_seen_at = ? WHERE id = ?",
		seenAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching display: %w", err)
	}
	return requireRow(result, id)
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDisplay scans a display row into a Display.
func scanDisplay(scanner rowScanner) (*Display, error) {
	var d Display
	var location, slideshowID, lastSeenAt sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(
		&d.ID, &d.Name, &location, (*string)(&d.Orientation),
		&slideshowID, &lastSeenAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	if location.Valid {
		d.Location = location.String
	}
	if slideshowID.Valid {
		d.SlideshowID = &slideshowID.String
	}
	if lastSeenAt.Valid {
		if t, err := time.Parse(time.RFC3339, lastSeenAt.String); err == nil {
			d.LastSeenAt = &t
		}
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled
	return &d, nil
}

// nullString converts an empty string to NULL for optional columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullTime converts a nil time pointer to NULL, else RFC3339 text.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
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

package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SlideshowRepository defines the interface for slideshow persistence.
type SlideshowRepository interface {
	// GetByID retrieves a slideshow with its slides in position order.
	// Returns ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Slideshow, error)

	// List retrieves all slideshows with their slides, ordered by name.
	List(ctx context.Context) ([]Slideshow, error)

	// Create inserts a new slideshow and its slides in one transaction.
	// Returns ErrExists if the ID is already registered.
	Create(ctx context.Context, s *Slideshow) error

	// Update replaces a slideshow's name and slide list in one transaction.
	// Returns ErrNotFound if the slideshow does not exist.
	Update(ctx context.Context, s *Slideshow) error

	// Delete removes a slideshow and its slides.
	// Returns ErrNotFound if the slideshow does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteSlideshowRepository implements SlideshowRepository using SQLite.
type SQLiteSlideshowRepository struct {
	db *sql.DB
}

// NewSQLiteSlideshowRepository creates a new SQLite-backed slideshow repository.
func NewSQLiteSlideshowRepository(db *sql.DB) *SQLiteSlideshowRepository {
	return &SQLiteSlideshowRepository{db: db}
}

// GetByID retrieves a slideshow with its slides in position order.
func (r *SQLiteSlideshowRepository) GetByID(ctx context.Context, id string) (*Slideshow, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM slideshows WHERE id = ?", id)

	s, err := scanSlideshow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying slideshow by id: %w", err)
	}

	slides, err := r.loadSlides(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Slides = slides
	return s, nil
}

// List retrieves all slideshows with their slides, ordered by name.
func (r *SQLiteSlideshowRepository) List(ctx context.Context) ([]Slideshow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM slideshows ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying slideshows: %w", err)
	}
	defer rows.Close()

	var shows []Slideshow
	for rows.Next() {
		s, err := scanSlideshow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning slideshow: %w", err)
		}
		shows = append(shows, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slideshows: %w", err)
	}

	for i := range shows {
		slides, err := r.loadSlides(ctx, shows[i].ID)
		if err != nil {
			return nil, err
		}
		shows[i].Slides = slides
	}
	return shows, nil
}

// Create inserts a new slideshow and its slides in one transaction.
func (r *SQLiteSlideshowRepository) Create(ctx context.Context, s *Slideshow) error {
	if err := ValidateSlideshow(s); err != nil {
		return err
	}

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO slideshows (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		s.ID, s.Name,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrExists, s.ID)
		}
		return fmt.Errorf("inserting slideshow: %w", err)
	}

	if err := insertSlides(ctx, tx, s.ID, s.Slides); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slideshow create: %w", err)
	}
	return nil
}

// Update replaces a slideshow's name and slide list in one transaction.
func (r *SQLiteSlideshowRepository) Update(ctx context.Context, s *Slideshow) error {
	if err := ValidateSlideshow(s); err != nil {
		return err
	}

	s.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	result, err := tx.ExecContext(ctx,
		"UPDATE slideshows SET name = ?, updated_at = ? WHERE id = ?",
		s.Name, s.UpdatedAt.Format(time.RFC3339), s.ID)
	if err != nil {
		return fmt.Errorf("updating slideshow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM slideshow_slides WHERE slideshow_id = ?", s.ID); err != nil {
		return fmt.Errorf("clearing slides: %w", err)
	}
	if err := insertSlides(ctx, tx, s.ID, s.Slides); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slideshow update: %w", err)
	}
	return nil
}

// Delete removes a slideshow and its slides.
func (r *SQLiteSlideshowRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM slideshow_slides WHERE slideshow_id = ?", id); err != nil {
		return fmt.Errorf("deleting slides: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM slideshows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting slideshow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slideshow delete: %w", err)
	}
	return nil
}

// loadSlides fetches a slideshow's slides in position order.
func (r *SQLiteSlideshowRepository) loadSlides(ctx context.Context, slideshowID string) ([]Slide, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT media_id, position, duration_seconds
		FROM slideshow_slides
		WHERE slideshow_id = ?
		ORDER BY position`, slideshowID)
	if err != nil {
		return nil, fmt.Errorf("querying slides: %w", err)
	}
	defer rows.Close()

	slides := []Slide{}
	for rows.Next() {
		var slide Slide
		if err := rows.Scan(&slide.MediaID, &slide.Position, &slide.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scanning slide: %w", err)
		}
		slides = append(slides, slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slides: %w", err)
	}
	return slides, nil
}

// insertSlides writes a slideshow's slide list within the given transaction.
func insertSlides(ctx context.Context, tx *sql.Tx, slideshowID string, slides []Slide) error {
	for _, slide := range slides {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO slideshow_slides (slideshow_id, media_id, position, duration_seconds)
			VALUES (?, ?, ?, ?)`,
			slideshowID, slide.MediaID, slide.Position, slide.DurationSeconds,
		); err != nil {
			return fmt.Errorf("inserting slide %d: %w", slide.Position, err)
		}
	}
	return nil
}

// scanSlideshow scans a slideshow row (without slides) into a Slideshow.
func scanSlideshow(scanner interface{ Scan(dest ...any) error }) (*Slideshow, error) {
	var s Slideshow
	var createdAt, updatedAt string
	if err := scanner.Scan(&s.ID, &s.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled
	return &s, nil
}

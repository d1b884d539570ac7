package display

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE displays (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT,
			orientation TEXT NOT NULL,
			slideshow_id TEXT,
			last_seen_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func testDisplay() *Display {
	return &Display{
		ID:          uuid.NewString(),
		Name:        "Foyer Links",
		Location:    "Eingang, linke Wand",
		Orientation: OrientationLandscape,
	}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	d := testDisplay()
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("Create() did not stamp timestamps")
	}

	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != d.Name || got.Location != d.Location {
		t.Errorf("GetByID() = %+v, want %+v", got, d)
	}
	if got.Orientation != OrientationLandscape {
		t.Errorf("Orientation = %q, want landscape", got.Orientation)
	}
	if got.LastSeenAt != nil {
		t.Error("fresh display should have no last_seen_at")
	}
}

func TestSQLiteRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	d := testDisplay()
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, d); !errors.Is(err, ErrExists) {
		t.Errorf("second Create() error = %v, want ErrExists", err)
	}
}

func TestSQLiteRepository_CreateInvalid(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	d := testDisplay()
	d.Name = "   "
	if err := repo.Create(ctx, d); !errors.Is(err, ErrInvalid) {
		t.Errorf("Create() error = %v, want ErrInvalid", err)
	}
}

func TestSQLiteRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	d := testDisplay()
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	slideshow := uuid.NewString()
	d.Name = "Foyer Rechts"
	d.Orientation = OrientationPortrait
	d.SlideshowID = &slideshow
	if err := repo.Update(ctx, d); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Foyer Rechts" || got.Orientation != OrientationPortrait {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.SlideshowID == nil || *got.SlideshowID != slideshow {
		t.Errorf("SlideshowID = %v, want %q", got.SlideshowID, slideshow)
	}
}

func TestSQLiteRepository_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	if err := repo.Update(ctx, testDisplay()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	d := testDisplay()
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRepository_Touch(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	d := testDisplay()
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	seenAt := time.Now().Add(-5 * time.Second)
	if err := repo.Touch(ctx, d.ID, seenAt); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.LastSeenAt == nil {
		t.Fatal("Touch() did not set last_seen_at")
	}
	if !got.Online(time.Now()) {
		t.Error("display should be online right after a heartbeat")
	}

	if err := repo.Touch(ctx, uuid.NewString(), seenAt); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch() unknown id error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRepository_ListOrdersByName(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	for _, name := range []string{"Sauna Bar", "Eingang", "Ruheraum"} {
		d := testDisplay()
		d.ID = uuid.NewString()
		d.Name = name
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	displays, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"Eingang", "Ruheraum", "Sauna Bar"}
	if len(displays) != len(want) {
		t.Fatalf("len(displays) = %d, want %d", len(displays), len(want))
	}
	for i, name := range want {
		if displays[i].Name != name {
			t.Errorf("displays[%d].Name = %q, want %q", i, displays[i].Name, name)
		}
	}
}

func TestDisplay_Online(t *testing.T) {
	now := time.Now()

	recent := now.Add(-30 * time.Second)
	stale := now.Add(-5 * time.Minute)

	tests := []struct {
		name string
		seen *time.Time
		want bool
	}{
		{"never seen", nil, false},
		{"recent heartbeat", &recent, true},
		{"stale heartbeat", &stale, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Display{LastSeenAt: tt.seen}
			if got := d.Online(now); got != tt.want {
				t.Errorf("Online() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	for _, action := range []string{ActionReload, ActionScreenOn, ActionScreenOff, ActionIdentify} {
		if err := ValidateCommand(&Command{Action: action}); err != nil {
			t.Errorf("ValidateCommand(%q) error = %v", action, err)
		}
	}
	if err := ValidateCommand(&Command{Action: "self_destruct"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("ValidateCommand() error = %v, want ErrInvalid", err)
	}
}

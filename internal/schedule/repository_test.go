package schedule

import (
	"context"
	"database/sql"
	"errors"
	"testing"

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
		CREATE TABLE schedules (
			version INTEGER PRIMARY KEY,
			data TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX idx_schedules_active ON schedules(is_active);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func TestSQLiteStore_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage returns nil without error", func(t *testing.T) {
		store := NewSQLiteStore(setupTestDB(t))

		rec, err := store.GetActive(ctx)
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if rec != nil {
			t.Errorf("GetActive() = %+v, want nil", rec)
		}
	})

	t.Run("returns the active record", func(t *testing.T) {
		store := NewSQLiteStore(setupTestDB(t))
		if err := store.ReplaceActive(ctx, 3, []byte(`{"version":3}`)); err != nil {
			t.Fatalf("ReplaceActive() error = %v", err)
		}

		rec, err := store.GetActive(ctx)
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if rec == nil {
			t.Fatal("GetActive() = nil, want record")
		}
		if rec.Version != 3 {
			t.Errorf("Version = %d, want 3", rec.Version)
		}
		if !rec.IsActive {
			t.Error("IsActive = false, want true")
		}
		if string(rec.Data) != `{"version":3}` {
			t.Errorf("Data = %s, want stored JSON", rec.Data)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("CreatedAt not populated")
		}
	})
}

func TestSQLiteStore_ReplaceActive(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly one active record after replacement", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewSQLiteStore(db)

		for v := 1; v <= 3; v++ {
			if err := store.ReplaceActive(ctx, v, []byte(`{}`)); err != nil {
				t.Fatalf("ReplaceActive(%d) error = %v", v, err)
			}
		}

		var activeCount int
		if err := db.QueryRow(
			"SELECT COUNT(*) FROM schedules WHERE is_active = 1",
		).Scan(&activeCount); err != nil {
			t.Fatalf("counting active: %v", err)
		}
		if activeCount != 1 {
			t.Errorf("active records = %d, want 1", activeCount)
		}

		rec, err := store.GetActive(ctx)
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if rec.Version != 3 {
			t.Errorf("active version = %d, want 3", rec.Version)
		}
	})

	t.Run("old versions stay queryable", func(t *testing.T) {
		store := NewSQLiteStore(setupTestDB(t))
		if err := store.ReplaceActive(ctx, 1, []byte(`{"v":1}`)); err != nil {
			t.Fatalf("ReplaceActive(1) error = %v", err)
		}
		if err := store.ReplaceActive(ctx, 2, []byte(`{"v":2}`)); err != nil {
			t.Fatalf("ReplaceActive(2) error = %v", err)
		}

		rec, err := store.GetByVersion(ctx, 1)
		if err != nil {
			t.Fatalf("GetByVersion(1) error = %v", err)
		}
		if rec.IsActive {
			t.Error("superseded version still marked active")
		}
		if string(rec.Data) != `{"v":1}` {
			t.Errorf("Data = %s, want original JSON", rec.Data)
		}
	})

	t.Run("duplicate version rejected", func(t *testing.T) {
		store := NewSQLiteStore(setupTestDB(t))
		if err := store.ReplaceActive(ctx, 1, []byte(`{}`)); err != nil {
			t.Fatalf("ReplaceActive() error = %v", err)
		}

		err := store.ReplaceActive(ctx, 1, []byte(`{}`))
		if !errors.Is(err, ErrVersionExists) {
			t.Errorf("ReplaceActive() error = %v, want ErrVersionExists", err)
		}

		// The failed replacement must not have deactivated the old record.
		rec, err := store.GetActive(ctx)
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if rec == nil {
			t.Fatal("failed replacement left no active record")
		}
	})
}

func TestSQLiteStore_GetByVersion(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(setupTestDB(t))

	if _, err := store.GetByVersion(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByVersion() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListVersions(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(setupTestDB(t))

	t.Run("empty storage lists nothing", func(t *testing.T) {
		versions, err := store.ListVersions(ctx)
		if err != nil {
			t.Fatalf("ListVersions() error = %v", err)
		}
		if len(versions) != 0 {
			t.Errorf("versions = %v, want none", versions)
		}
	})

	t.Run("oldest first with active flag", func(t *testing.T) {
		for v := 1; v <= 3; v++ {
			if err := store.ReplaceActive(ctx, v, []byte(`{}`)); err != nil {
				t.Fatalf("ReplaceActive(%d) error = %v", v, err)
			}
		}

		versions, err := store.ListVersions(ctx)
		if err != nil {
			t.Fatalf("ListVersions() error = %v", err)
		}
		if len(versions) != 3 {
			t.Fatalf("len(versions) = %d, want 3", len(versions))
		}
		for i, info := range versions {
			if info.Version != i+1 {
				t.Errorf("versions[%d].Version = %d, want %d", i, info.Version, i+1)
			}
			wantActive := i == 2
			if info.IsActive != wantActive {
				t.Errorf("versions[%d].IsActive = %v, want %v", i, info.IsActive, wantActive)
			}
			if info.CreatedAt.IsZero() {
				t.Errorf("versions[%d].CreatedAt not populated", i)
			}
		}
	})
}

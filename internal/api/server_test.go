package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nordbad/signage-core/internal/auth"
	"github.com/nordbad/signage-core/internal/display"
	"github.com/nordbad/signage-core/internal/infrastructure/config"
	"github.com/nordbad/signage-core/internal/infrastructure/logging"
	"github.com/nordbad/signage-core/internal/media"
	"github.com/nordbad/signage-core/internal/schedule"
	"github.com/nordbad/signage-core/internal/settings"
)

const testJWTSecret = "test-secret-key-at-least-32-characters-long"

// testServer creates a Server backed by repositories on in-memory SQLite.
func testServer(t *testing.T) *Server {
	t.Helper()

	db := setupTestDB(t)
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{
				Secret:         testJWTSecret,
				AccessTokenTTL: 15,
			},
			Admin: config.AdminConfig{
				Username: "admin",
			},
		},
		Logger:     log,
		Schedules:  schedule.NewSQLiteStore(db),
		Settings:   settings.NewSQLiteRepository(db),
		Displays:   display.NewSQLiteRepository(db),
		Media:      media.NewSQLiteMediaRepository(db),
		Slideshows: media.NewSQLiteSlideshowRepository(db),
		Version:    "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests without starting the listener
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv
}

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE schedules (
			version INTEGER PRIMARY KEY,
			data TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE TABLE settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE displays (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT,
			orientation TEXT NOT NULL,
			slideshow_id TEXT,
			last_seen_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE media (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			mime TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE TABLE slideshows (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE slideshow_slides (
			slideshow_id TEXT NOT NULL,
			media_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (slideshow_id, position)
		);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
	return db
}

// authHeader returns a valid Bearer header for the test admin.
func authHeader(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateAccessToken("admin", testJWTSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return "Bearer " + token
}

// doRequest runs an authenticated request against the router.
func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", authHeader(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

func TestRequestID_Generated(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/schedule"},
		{http.MethodGet, "/api/v1/settings"},
		{http.MethodGet, "/api/v1/displays"},
		{http.MethodGet, "/api/v1/media"},
		{http.MethodGet, "/api/v1/slideshows"},
		{http.MethodPost, "/api/v1/auth/ws-ticket"},
	}

	for _, tt := range paths {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want %d", tt.method, tt.path, w.Code, http.StatusUnauthorized)
		}
	}
}

func TestLogin(t *testing.T) {
	srv := testServer(t)

	hash, err := auth.HashPassword("sauna-admin-pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	srv.secCfg.Admin.PasswordHash = hash
	router := srv.buildRouter()

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"username":"admin","password":"sauna-admin-pw"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("login status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp loginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.AccessToken == "" || resp.TokenType != "Bearer" {
			t.Errorf("login response = %+v, want bearer token", resp)
		}

		if _, err := auth.ParseToken(resp.AccessToken, testJWTSecret); err != nil {
			t.Errorf("issued token does not parse: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"username":"admin","password":"nope"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("wrong username", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"username":"root","password":"sauna-admin-pw"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestWSTicket(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/ws-ticket", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ws-ticket status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ticket := resp["ticket"]
	if ticket == "" {
		t.Fatal("expected a ticket value")
	}

	subject, err := srv.tickets.Redeem(ticket)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if subject != "admin" {
		t.Errorf("ticket subject = %q, want admin", subject)
	}
}

func TestWebSocket_RequiresTicket(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	// No bearer token needed on the upgrade path; the ticket is the auth.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("ws without ticket status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp Error
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "ticket query parameter is required" {
		t.Errorf("message = %q, want ticket requirement", resp.Message)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ws?ticket=bogus", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("ws with bogus ticket status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

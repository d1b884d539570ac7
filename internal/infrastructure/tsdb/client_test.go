package tsdb_test

import (
	"errors"
	"os"
	"testing"

	"github.com/nordbad/signage-core/internal/infrastructure/config"
	"github.com/nordbad/signage-core/internal/infrastructure/tsdb"
)

// testConfig returns a configuration for a local dev InfluxDB.
func testConfig() config.TelemetryConfig {
	url := os.Getenv("TSDB_URL")
	if url == "" {
		url = "http://127.0.0.1:8086"
	}
	return config.TelemetryConfig{
		Enabled:       true,
		URL:           url,
		Org:           "test",
		Bucket:        "signage-test",
		BatchSize:     100,
		FlushInterval: 1, // faster test feedback
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := tsdb.Connect(cfg)
	if err == nil {
		t.Fatal("Connect() should return error when disabled")
	}
	if !errors.Is(err, tsdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:1" // nothing listens here

	_, err := tsdb.Connect(cfg)
	if err == nil {
		t.Fatal("Connect() should fail against an unreachable server")
	}
	if !errors.Is(err, tsdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

// TestWrites_Integration exercises real writes when an InfluxDB instance
// is available. Skipped otherwise.
func TestWrites_Integration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION") == "" {
		t.Skip("set RUN_INTEGRATION to run against a live InfluxDB")
	}

	client, err := tsdb.Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if !client.IsConnected() {
		t.Fatal("IsConnected() = false after Connect()")
	}

	client.WriteHeartbeat("display-test", 3600, true)
	client.WritePlayback("display-test", "slideshow", "show-1")
}

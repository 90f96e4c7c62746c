// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/prefdash/internal/dataset"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad verifies that a valid configuration file loads with defaults applied,
// while invalid JSON, an unknown session store and a missing file are rejected.
func TestLoad(t *testing.T) {
	validConfig := `{
        "datasets": {"domainLevel": "data/final_dashboard_df.csv"},
        "listen": {"port": 9000},
        "session": {"store": "SQLite"}
    }`
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	paths := cfg.DatasetPaths()
	if paths[dataset.DomainLevel] != "data/final_dashboard_df.csv" {
		t.Fatalf("unexpected domain dataset path %q", paths[dataset.DomainLevel])
	}
	if paths[dataset.CountryLevel] != "" {
		t.Fatalf("expected unset country dataset path, got %q", paths[dataset.CountryLevel])
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.SessionStore() != SessionStoreSQLite || cfg.SessionPath() != "data/sessions.db" {
		t.Fatalf("unexpected session settings %q %q", cfg.SessionStore(), cfg.SessionPath())
	}
	if w, h := cfg.ChartSize(); w != 1024 || h != 400 {
		t.Fatalf("unexpected chart size %dx%d", w, h)
	}
	if cfg.LogFilePath() != "prefdash.log" {
		t.Fatalf("unexpected log file %q", cfg.LogFilePath())
	}

	if _, err := Load(writeConfig(t, `{ "datasets": [`)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load(writeConfig(t, `{ "session": {"store": "redis"} }`)); err == nil {
		t.Fatal("Load() with unknown session store should have failed")
	}

	if _, err := Load("nonexistent.json"); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	if cfg.Addr() != "127.0.0.1:8501" {
		t.Fatalf("unexpected default addr %q", cfg.Addr())
	}
	if cfg.SessionStore() != SessionStoreNone || cfg.SessionPath() != "" {
		t.Fatalf("unexpected default session %q %q", cfg.SessionStore(), cfg.SessionPath())
	}
	cfg.Session.Store = "file"
	if cfg.SessionPath() != "data/sessions" {
		t.Fatalf("unexpected file session dir %q", cfg.SessionPath())
	}
	if err := (Config{Listen: Listen{Port: 70000}}).Validate(); err == nil {
		t.Fatal("expected invalid port error")
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil, Config{Stacked: true})
	out := buf.String()
	for _, want := range []string{"No config file loaded", "final_dashboard_df.csv", "country_level_distribution.csv", "Stacked:         true", "(built-in presets)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tailwindplay/internal/database"
	"tailwindplay/internal/preview"
)

var allVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "APP_BASE_URL",
	"DB_DRIVER", "SQLITE_PATH",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"CATALOG_PATH", "TAILWIND_SCRIPT_URL", "PREVIEW_DEBOUNCE_MS", "PREVIEW_LOADING_MS",
	"SHARE_RATE_LIMIT", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
}

// clearEnv sets every variable Load reads to "", which envOrDefault
// treats the same as unset. t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Host", cfg.Host, "0.0.0.0"},
		{"Port", cfg.Port, "8080"},
		{"Env", cfg.Env, "development"},
		{"BaseURL", cfg.BaseURL, "http://localhost:8080"},
		{"DBDriver", cfg.DBDriver, database.DriverSQLite},
		{"SQLitePath", cfg.SQLitePath, "tailwindplay.db"},
		{"ValkeyHost", cfg.ValkeyHost, ""},
		{"ScriptURL", cfg.ScriptURL, preview.DefaultScriptURL},
		{"PreviewDebounce", cfg.PreviewDebounce, 300 * time.Millisecond},
		{"PreviewLoading", cfg.PreviewLoading, 150 * time.Millisecond},
		{"ShareRateLimit", cfg.ShareRateLimit, 10},
		{"LogFormat", cfg.LogFormat, "auto"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}

	if cfg.ValkeyEnabled() {
		t.Error("Valkey should be disabled without VALKEY_HOST")
	}
	if !cfg.IsDev() {
		t.Error("IsDev should be true by default")
	}
	if cfg.DSN() != "tailwindplay.db" {
		t.Errorf("DSN: got %q", cfg.DSN())
	}
}

func TestLoadPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("POSTGRES_DB", "play")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBDriver != database.DriverPostgres {
		t.Errorf("DBDriver: got %q", cfg.DBDriver)
	}
	want := "postgres://u:p@db.internal:5432/play?sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"bad debounce", map[string]string{"PREVIEW_DEBOUNCE_MS": "soon"}, "PREVIEW_DEBOUNCE_MS"},
		{"negative debounce", map[string]string{"PREVIEW_DEBOUNCE_MS": "-5"}, "PREVIEW_DEBOUNCE_MS"},
		{"debounce too long", map[string]string{"PREVIEW_DEBOUNCE_MS": "60000"}, "at most"},
		{"bad rate limit", map[string]string{"SHARE_RATE_LIMIT": "x"}, "SHARE_RATE_LIMIT"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{
			"production default password",
			map[string]string{"APP_ENV": "production", "DB_DRIVER": "pgx", "APP_BASE_URL": "https://x"},
			"POSTGRES_PASSWORD",
		},
		{
			"production without base url",
			map[string]string{"APP_ENV": "production"},
			"APP_BASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q", got)
	}
}

func TestPreviewOptions(t *testing.T) {
	cfg := &Config{
		ScriptURL:       "https://cdn.example.com/tw.js",
		PreviewDebounce: 500 * time.Millisecond,
		PreviewLoading:  50 * time.Millisecond,
	}
	opts := cfg.PreviewOptions()
	if opts.DebounceWindow != 500*time.Millisecond || opts.LoadingDelay != 50*time.Millisecond {
		t.Errorf("timings: %+v", opts)
	}
	if opts.ScriptURL != cfg.ScriptURL || !opts.AutoRefresh || opts.Device != preview.DeviceDesktop {
		t.Errorf("options: %+v", opts)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TP_DOTENV_A=from-file\nTP_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TP_DOTENV_A", "")
	os.Unsetenv("TP_DOTENV_A")
	t.Setenv("TP_DOTENV_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("TP_DOTENV_A") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("TP_DOTENV_A"); got != "from-file" {
		t.Errorf("A: got %q", got)
	}
	if got := os.Getenv("TP_DOTENV_B"); got != "from-env" {
		t.Errorf("B should not be overridden: got %q", got)
	}
}

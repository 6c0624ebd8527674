package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STUDIO_CONFIG_FILE",
		"STUDIO_HTTP_PORT",
		"STUDIO_SQLITE_DSN",
		"STUDIO_SESSION_SECRET",
		"STUDIO_SESSION_TTL",
		"STUDIO_SESSION_SWEEP_INTERVAL",
		"STUDIO_DEFAULT_TIMEZONE",
	} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnvironment(t)

		const secret = "super-secret"
		t.Setenv("STUDIO_SESSION_SECRET", secret)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:studio.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionSecret != secret {
			t.Fatalf("expected session secret to be %q, got %q", secret, cfg.SessionSecret)
		}
		if cfg.DefaultTimezone != "Europe/Berlin" {
			t.Fatalf("unexpected default timezone: %q", cfg.DefaultTimezone)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnvironment(t)

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: STUDIO_SESSION_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STUDIO_SESSION_SECRET", "secret-value")
		t.Setenv("STUDIO_HTTP_PORT", "9090")
		t.Setenv("STUDIO_SQLITE_DSN", "file:/tmp/studio.db")
		t.Setenv("STUDIO_SESSION_TTL", "12h")
		t.Setenv("STUDIO_SESSION_SWEEP_INTERVAL", "30m")
		t.Setenv("STUDIO_DEFAULT_TIMEZONE", "America/New_York")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.SessionSweepInterval != 30*time.Minute {
			t.Fatalf("expected sweep interval 30m, got %s", cfg.SessionSweepInterval)
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.DefaultTimezone != "America/New_York" {
			t.Fatalf("unexpected timezone: %q", cfg.DefaultTimezone)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STUDIO_SESSION_SECRET", "secret-value")
		t.Setenv("STUDIO_HTTP_PORT", "not-a-port")
		t.Setenv("STUDIO_SESSION_TTL", "-5m")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		expected := "environment variables have invalid values: STUDIO_HTTP_PORT, STUDIO_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STUDIO_SESSION_SECRET", "secret-value")
		t.Setenv("STUDIO_DEFAULT_TIMEZONE", "Mars/Olympus_Mons")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for unknown timezone")
		}
	})
}

func TestLoader_ConfigFile(t *testing.T) {

	t.Run("reads values from a YAML file", func(t *testing.T) {
		clearEnvironment(t)

		path := filepath.Join(t.TempDir(), "studio.yaml")
		contents := "http_port: 7070\nsqlite_dsn: file:/tmp/from-file.db\nsession_secret: file-secret\n"
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("write config file: %v", err)
		}
		t.Setenv("STUDIO_CONFIG_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 7070 {
			t.Fatalf("expected port 7070 from file, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/from-file.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionSecret != "file-secret" {
			t.Fatalf("unexpected secret: %q", cfg.SessionSecret)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		clearEnvironment(t)

		path := filepath.Join(t.TempDir(), "studio.yaml")
		contents := "http_port: 7070\nsession_secret: file-secret\n"
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("write config file: %v", err)
		}
		t.Setenv("STUDIO_CONFIG_FILE", path)
		t.Setenv("STUDIO_HTTP_PORT", "9091")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9091 {
			t.Fatalf("expected environment override 9091, got %d", cfg.HTTPPort)
		}
	})

	t.Run("errors on a missing file", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STUDIO_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("STUDIO_SESSION_SECRET", "secret-value")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}

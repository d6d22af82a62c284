package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"APPOINTMENTS_HTTP_PORT",
			"APPOINTMENTS_SQLITE_DSN",
			"APPOINTMENTS_SESSION_TTL",
			"APPOINTMENTS_ADMIN_PIN",
			"APPOINTMENTS_CONFLICT_CHECK",
			"APPOINTMENTS_SEED",
			"APPOINTMENTS_ALLOWED_ORIGINS",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:appointments.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.AdminPIN != "4242" {
			t.Fatalf("expected default admin PIN, got %q", cfg.AdminPIN)
		}
		if cfg.ConflictCheck {
			t.Fatal("expected conflict checking to default off")
		}
		if cfg.Seed {
			t.Fatal("expected seeding to default off")
		}
	})

	t.Run("parses provided values", func(t *testing.T) {
		t.Setenv("APPOINTMENTS_HTTP_PORT", "9090")
		t.Setenv("APPOINTMENTS_SQLITE_DSN", "file:/tmp/appointments.db")
		t.Setenv("APPOINTMENTS_SESSION_TTL", "12h")
		t.Setenv("APPOINTMENTS_ADMIN_PIN", "9999")
		t.Setenv("APPOINTMENTS_CONFLICT_CHECK", "true")
		t.Setenv("APPOINTMENTS_SEED", "true")
		t.Setenv("APPOINTMENTS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/appointments.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.AdminPIN != "9999" {
			t.Fatalf("expected admin PIN override, got %q", cfg.AdminPIN)
		}
		if !cfg.ConflictCheck {
			t.Fatal("expected conflict checking on")
		}
		if !cfg.Seed {
			t.Fatal("expected seeding on")
		}
		if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://app.example.com" || cfg.AllowedOrigins[1] != "https://admin.example.com" {
			t.Fatalf("unexpected allowed origins: %v", cfg.AllowedOrigins)
		}
	})

	t.Run("collects invalid values", func(t *testing.T) {
		t.Setenv("APPOINTMENTS_HTTP_PORT", "not-a-port")
		t.Setenv("APPOINTMENTS_SESSION_TTL", "yesterday")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "invalid environment variable values: APPOINTMENTS_HTTP_PORT, APPOINTMENTS_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

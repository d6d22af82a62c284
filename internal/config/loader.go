package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the
// appointment service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	SessionTTL     time.Duration
	AdminPIN       string
	ConflictCheck  bool
	Seed           bool
	AllowedOrigins []string
}

// Load parses configuration values from the current process environment.
//
// Every key is optional; the loader applies defaults and collects the names
// of entries it could not parse rather than failing on the first one.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:appointments.db?_foreign_keys=on",
		SessionTTL: 24 * time.Hour,
		AdminPIN:   "4242",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("APPOINTMENTS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "APPOINTMENTS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("APPOINTMENTS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("APPOINTMENTS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "APPOINTMENTS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if pin := strings.TrimSpace(os.Getenv("APPOINTMENTS_ADMIN_PIN")); pin != "" {
		cfg.AdminPIN = pin
	}

	if value := strings.TrimSpace(os.Getenv("APPOINTMENTS_CONFLICT_CHECK")); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "APPOINTMENTS_CONFLICT_CHECK")
		} else {
			cfg.ConflictCheck = enabled
		}
	}

	if value := strings.TrimSpace(os.Getenv("APPOINTMENTS_SEED")); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "APPOINTMENTS_SEED")
		} else {
			cfg.Seed = enabled
		}
	}

	if origins := strings.TrimSpace(os.Getenv("APPOINTMENTS_ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Package config loads scraper configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"binday/internal/fetch"
	"binday/internal/schedule"
)

// Config is everything one scraper run needs.
type Config struct {
	// URL of the council's collection-day form.
	URL string

	// Postcode entered into the lookup form. Required.
	Postcode string

	// AddressLine matched against the address dropdown. Required; it is also
	// the storage primary key.
	AddressLine string

	// Timezone name for date parsing and "now". Invalid names fall back to
	// Europe/London with a warning.
	Timezone string

	// StorageKind selects the storage backend ("postgres", "sqlite", "mssql").
	StorageKind string

	// StorageDSN, when set, is passed to the backend verbatim. For postgres
	// it is otherwise assembled from the PG_* variables.
	StorageDSN string
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity
	Field    string
	Message  string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present (real environment wins; that is
// godotenv's default).
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		URL:         envOr("BINDAY_URL", fetch.DefaultURL),
		Postcode:    cleanEnv("POSTCODE"),
		AddressLine: cleanEnv("ADDRESS_LINE"),
		Timezone:    envOr("TIMEZONE", schedule.DefaultZone),
		StorageKind: envOr("STORAGE_KIND", "postgres"),
		StorageDSN:  cleanEnv("STORAGE_DSN"),
	}

	if cfg.StorageDSN == "" && cfg.StorageKind == "postgres" {
		cfg.StorageDSN = postgresDSN()
	}

	return cfg
}

// Validate reports configuration problems. Errors make a run impossible;
// warnings are degraded-but-working conditions the operator should know
// about.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if cfg.Postcode == "" {
		issues = append(issues, Issue{SeverityError, "POSTCODE", "required"})
	}
	if cfg.AddressLine == "" {
		issues = append(issues, Issue{SeverityError, "ADDRESS_LINE", "required"})
	}
	if cfg.StorageKind == "" {
		issues = append(issues, Issue{SeverityError, "STORAGE_KIND", "required"})
	}
	if cfg.StorageDSN == "" {
		switch cfg.StorageKind {
		case "postgres":
			issues = append(issues, Issue{SeverityError, "PG_HOST", "required (or set STORAGE_DSN)"})
		default:
			issues = append(issues, Issue{SeverityError, "STORAGE_DSN", "required for kind " + cfg.StorageKind})
		}
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		issues = append(issues, Issue{
			SeverityWarning, "TIMEZONE",
			fmt.Sprintf("invalid zone %q, falling back to %s", cfg.Timezone, schedule.DefaultZone),
		})
	}

	return issues
}

// postgresDSN assembles a postgres URL from discrete PG_* variables, for
// deployments that configure the database piecewise rather than via a single
// STORAGE_DSN. Returns "" when the required pieces are missing.
func postgresDSN() string {
	host := cleanEnv("PG_HOST")
	user := cleanEnv("PG_USERNAME")
	pass := cleanEnv("PG_PASSWORD")
	if host == "" || user == "" || pass == "" {
		return ""
	}

	port := envOr("PG_PORT", "5432")
	dbName := envOr("PG_DATABASE", "binday")
	appName := envOr("PG_APPNAME", "binday-scraper")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: url.Values{"application_name": []string{appName}}.Encode(),
	}
	return u.String()
}

// cleanEnv reads an env var, trimming whitespace and one layer of surrounding
// quotes (values pasted into .env files often carry them).
func cleanEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	v = strings.Trim(v, `"'`)
	return v
}

func envOr(key, def string) string {
	if v := cleanEnv(key); v != "" {
		return v
	}
	return def
}

// Package storage persists extracted collection schedules, one row per
// address, through pluggable relational backends.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"binday/internal/schedule"
)

// Config is the minimal configuration needed to create a Store.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is backend-specific.
//   - Zone names the timezone used when parsing raw collection-date strings
//     for persistence; invalid names fall back to Europe/London.
type Config struct {
	Kind string
	DSN  string
	Zone string
}

// Store is a backend-agnostic interface for the collections table.
//
// IMPORTANT: This interface is intentionally minimal. Each backend implements
// the upsert in its own idiomatic way (Postgres ON CONFLICT, SQLite upsert,
// MSSQL MERGE) but all share full-replace semantics: every call writes all
// bin-type column pairs, clearing to NULL any bin type absent from the
// current record set.
type Store interface {
	// Close releases backend resources. Treat as "call once" at shutdown.
	Close()

	// EnsureSchema creates the collections table and its index if missing.
	// Idempotent; safe to run on every invocation.
	EnsureSchema(ctx context.Context) error

	// UpsertSchedule persists one address's schedule. Records whose
	// collection type does not resolve to a storage key are skipped;
	// checkedAt is written to site_last_checked unconditionally.
	UpsertSchedule(ctx context.Context, address string, records []schedule.CollectionRecord, checkedAt time.Time) error
}

// ---- backend factories ----

type factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// Call Register from an init() function in a backend package. Registering the
// same kind twice panics, to fail fast on ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Store using the registered backend factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

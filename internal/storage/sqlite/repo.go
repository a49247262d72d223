package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"binday/internal/schedule"
	"binday/internal/storage"
)

// Repo implements storage.Store for SQLite.
//
// Key design points vs Postgres:
//   - SQLite has no native TIMESTAMPTZ type; modernc.org/sqlite stores
//     timestamps with TEXT affinity. Timestamps are therefore written as
//     RFC3339Nano strings for reliable round-trip behavior and easy
//     debugging.
//   - The upsert uses SQLite's ON CONFLICT ... DO UPDATE (available since
//     3.24), mirroring the Postgres statement shape.
type Repo struct {
	db   *sql.DB
	zone string
}

func init() {
	storage.Register("sqlite", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db, zone: cfg.Zone}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureSchema creates the collections table and its index if missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, buildCreateTableSQL()); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("create site_last_checked index: %w", err)
	}
	return nil
}

// UpsertSchedule persists one address's schedule with full-replace semantics.
func (r *Repo) UpsertSchedule(ctx context.Context, address string, records []schedule.CollectionRecord, checkedAt time.Time) error {
	columns, values := storage.ScheduleColumns(records, r.zone)
	stmt, args := buildUpsertSQL(address, columns, values, checkedAt)

	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert collections for %q: %w", address, err)
	}
	return nil
}

const createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_collections_site_last_checked ON collections (site_last_checked)`

func buildCreateTableSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS collections (\n")
	b.WriteString("    address TEXT PRIMARY KEY")
	for _, key := range schedule.StorageKeys {
		fmt.Fprintf(&b, ",\n    %s_last_collection TEXT", key)
		fmt.Fprintf(&b, ",\n    %s_next_collection TEXT", key)
	}
	b.WriteString(",\n    site_last_checked TEXT NOT NULL\n)")
	return b.String()
}

// buildUpsertSQL constructs the full-replace upsert and its args. Pure, so
// statement shape and NULL binding are unit testable without a database.
//
// Timestamps bind as RFC3339Nano strings; nil values bind as NULL.
func buildUpsertSQL(address string, columns []string, values []*time.Time, checkedAt time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO collections (address, site_last_checked")
	for _, c := range columns {
		b.WriteString(", ")
		b.WriteString(sqlIdent(c))
	}
	b.WriteString(") VALUES (?, ?")

	args := make([]any, 0, 2+len(values))
	args = append(args, address, checkedAt.Format(time.RFC3339Nano))
	for _, v := range values {
		b.WriteString(", ?")
		args = append(args, timeArg(v))
	}

	b.WriteString(") ON CONFLICT(address) DO UPDATE SET site_last_checked = excluded.site_last_checked")
	for _, c := range columns {
		ident := sqlIdent(c)
		b.WriteString(", ")
		b.WriteString(ident)
		b.WriteString(" = excluded.")
		b.WriteString(ident)
	}
	b.WriteString(";")

	return b.String(), args
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

// sqlIdent quotes a SQLite identifier.
func sqlIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

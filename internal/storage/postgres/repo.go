package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"binday/internal/schedule"
	"binday/internal/storage"
)

// Repo implements storage.Store for Postgres.
//
// The upsert uses INSERT ... ON CONFLICT (address) DO UPDATE with every
// bin-type column in the statement, so each run fully replaces the address
// row: bin types missing from the current scrape clear to NULL.
type Repo struct {
	pool *pgxpool.Pool
	zone string
}

func init() {
	storage.Register("postgres", New)
}

// New creates a new Postgres-backed Repo.
func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &Repo{pool: pool, zone: cfg.Zone}, nil
}

// Close closes the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

// EnsureSchema creates the collections table and its site_last_checked index
// if they do not exist. Idempotent.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, buildCreateTableSQL()); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}
	if _, err := r.pool.Exec(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("create site_last_checked index: %w", err)
	}
	return nil
}

// UpsertSchedule persists one address's schedule with full-replace semantics.
func (r *Repo) UpsertSchedule(ctx context.Context, address string, records []schedule.CollectionRecord, checkedAt time.Time) error {
	columns, values := storage.ScheduleColumns(records, r.zone)
	sql, args := buildUpsertSQL(address, columns, values, checkedAt)

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert collections for %q: %w", address, err)
	}
	return nil
}

const createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_collections_site_last_checked ON collections (site_last_checked)`

// buildCreateTableSQL renders the collections DDL from the storage key list,
// keeping the schema and the upsert column set in lockstep.
func buildCreateTableSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS collections (\n")
	b.WriteString("    address TEXT PRIMARY KEY")
	for _, key := range schedule.StorageKeys {
		fmt.Fprintf(&b, ",\n    %s_last_collection TIMESTAMP WITH TIME ZONE", key)
		fmt.Fprintf(&b, ",\n    %s_next_collection TIMESTAMP WITH TIME ZONE", key)
	}
	b.WriteString(",\n    site_last_checked TIMESTAMP WITH TIME ZONE NOT NULL\n)")
	return b.String()
}

// buildUpsertSQL constructs the full-replace upsert and its args.
//
// Why this exists:
//   - It is pure and deterministic, so placeholder numbering and ON CONFLICT
//     behavior can be unit tested without a database.
//
// values holds one entry per column; nil entries bind as NULL.
func buildUpsertSQL(address string, columns []string, values []*time.Time, checkedAt time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO collections (address, site_last_checked")
	for _, c := range columns {
		b.WriteString(", ")
		b.WriteString(pgIdent(c))
	}
	b.WriteString(") VALUES ($1, $2")

	args := make([]any, 0, 2+len(values))
	args = append(args, address, checkedAt)
	for i, v := range values {
		fmt.Fprintf(&b, ", $%d", i+3)
		args = append(args, v)
	}

	b.WriteString(") ON CONFLICT (address) DO UPDATE SET site_last_checked = EXCLUDED.site_last_checked")
	for _, c := range columns {
		ident := pgIdent(c)
		b.WriteString(", ")
		b.WriteString(ident)
		b.WriteString(" = EXCLUDED.")
		b.WriteString(ident)
	}
	b.WriteString(";")

	return b.String(), args
}

// pgIdent quotes a Postgres identifier.
func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"binday/internal/schedule"
	"binday/internal/storage"
)

// Repo implements storage.Store for Microsoft SQL Server.
//
// The upsert is a single MERGE statement keyed on address: a matched row is
// updated in place, an unmatched address is inserted. Both branches bind the
// same parameter set, so full-replace semantics match the other backends.
type Repo struct {
	db   *sql.DB
	zone string
}

func init() {
	storage.Register("mssql", New)
}

// New constructs a Repo using database/sql and the "sqlserver" driver.
// Connectivity is validated via PingContext.
func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}

	// Conservative defaults; this workload is a single short-lived upsert.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db, zone: cfg.Zone}, nil
}

func (r *Repo) Close() {
	if r == nil || r.db == nil {
		return
	}
	_ = r.db.Close()
}

// EnsureSchema creates the collections table and its index if missing.
// SQL Server has no CREATE TABLE IF NOT EXISTS, so existence is checked via
// OBJECT_ID / sys.indexes guards. Idempotent.
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
	stmt, args := buildMergeSQL(address, columns, values, checkedAt)

	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("merge collections for %q: %w", address, err)
	}
	return nil
}

const createIndexSQL = `IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = 'idx_collections_site_last_checked')
CREATE INDEX idx_collections_site_last_checked ON collections (site_last_checked)`

func buildCreateTableSQL() string {
	var b strings.Builder
	b.WriteString("IF OBJECT_ID('collections', 'U') IS NULL\n")
	b.WriteString("CREATE TABLE collections (\n")
	// NVARCHAR(450) keeps the primary key within SQL Server's index key limit.
	b.WriteString("    address NVARCHAR(450) PRIMARY KEY")
	for _, key := range schedule.StorageKeys {
		fmt.Fprintf(&b, ",\n    %s_last_collection DATETIMEOFFSET", key)
		fmt.Fprintf(&b, ",\n    %s_next_collection DATETIMEOFFSET", key)
	}
	b.WriteString(",\n    site_last_checked DATETIMEOFFSET NOT NULL\n)")
	return b.String()
}

// buildMergeSQL constructs the MERGE upsert and its args. Pure, so parameter
// numbering and branch column lists are unit testable without a database.
//
// values holds one entry per column; nil entries bind as NULL.
func buildMergeSQL(address string, columns []string, values []*time.Time, checkedAt time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString("MERGE INTO collections AS t\n")
	b.WriteString("USING (SELECT @p1 AS address) AS s ON t.address = s.address\n")

	b.WriteString("WHEN MATCHED THEN UPDATE SET site_last_checked = @p2")
	for i, c := range columns {
		fmt.Fprintf(&b, ", %s = @p%d", msIdent(c), i+3)
	}

	b.WriteString("\nWHEN NOT MATCHED THEN INSERT (address, site_last_checked")
	for _, c := range columns {
		b.WriteString(", ")
		b.WriteString(msIdent(c))
	}
	b.WriteString(") VALUES (@p1, @p2")
	for i := range columns {
		fmt.Fprintf(&b, ", @p%d", i+3)
	}
	b.WriteString(");")

	args := make([]any, 0, 2+len(values))
	args = append(args, address, checkedAt)
	for _, v := range values {
		args = append(args, timeArg(v))
	}
	return b.String(), args
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// msIdent quotes a SQL Server identifier.
func msIdent(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

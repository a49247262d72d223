package postgres

import (
	"strings"
	"testing"
	"time"
)

// TestBuildCreateTableSQL verifies the DDL carries every bin-type column pair
// plus the address key and site_last_checked.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	ddl := buildCreateTableSQL()
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS collections",
		"address TEXT PRIMARY KEY",
		"black_rubbish_140l_last_collection TIMESTAMP WITH TIME ZONE",
		"black_rubbish_140l_next_collection TIMESTAMP WITH TIME ZONE",
		"green_recycling_box_next_collection TIMESTAMP WITH TIME ZONE",
		"site_last_checked TIMESTAMP WITH TIME ZONE NOT NULL",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("DDL missing %q:\n%s", want, ddl)
		}
	}
}

// TestBuildUpsertSQL verifies placeholder numbering, ON CONFLICT shape, and
// that nil values bind as NULL-carrying args in column order.
func TestBuildUpsertSQL(t *testing.T) {
	t.Parallel()

	next := time.Date(2025, time.November, 17, 7, 0, 0, 0, time.UTC)
	checked := time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC)
	columns := []string{"black_rubbish_140l_last_collection", "black_rubbish_140l_next_collection"}
	values := []*time.Time{nil, &next}

	sql, args := buildUpsertSQL("1 High Street", columns, values, checked)

	for _, want := range []string{
		`INSERT INTO collections (address, site_last_checked, "black_rubbish_140l_last_collection", "black_rubbish_140l_next_collection")`,
		"VALUES ($1, $2, $3, $4)",
		"ON CONFLICT (address) DO UPDATE SET site_last_checked = EXCLUDED.site_last_checked",
		`"black_rubbish_140l_next_collection" = EXCLUDED."black_rubbish_140l_next_collection"`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("statement missing %q:\n%s", want, sql)
		}
	}

	if len(args) != 4 {
		t.Fatalf("got %d args, want 4", len(args))
	}
	if args[0] != "1 High Street" || args[1] != checked {
		t.Fatalf("key args = %v", args[:2])
	}
	if args[2] != (*time.Time)(nil) {
		t.Fatalf("args[2] = %v, want nil for an absent date", args[2])
	}
	if got, ok := args[3].(*time.Time); !ok || !got.Equal(next) {
		t.Fatalf("args[3] = %v, want %v", args[3], next)
	}
}

// TestPgIdent verifies embedded quotes are doubled.
func TestPgIdent(t *testing.T) {
	t.Parallel()

	if got := pgIdent(`odd"name`); got != `"odd""name"` {
		t.Fatalf("pgIdent = %s", got)
	}
}

package mssql

import (
	"strings"
	"testing"
	"time"
)

// TestBuildCreateTableSQL verifies the OBJECT_ID guard and DATETIMEOFFSET
// columns.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	ddl := buildCreateTableSQL()
	for _, want := range []string{
		"IF OBJECT_ID('collections', 'U') IS NULL",
		"address NVARCHAR(450) PRIMARY KEY",
		"green_recycling_box_last_collection DATETIMEOFFSET",
		"black_rubbish_140l_next_collection DATETIMEOFFSET",
		"site_last_checked DATETIMEOFFSET NOT NULL",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("DDL missing %q:\n%s", want, ddl)
		}
	}
}

// TestBuildMergeSQL verifies both MERGE branches bind the same @pN parameter
// sequence and that nil values come through as NULL args.
func TestBuildMergeSQL(t *testing.T) {
	t.Parallel()

	next := time.Date(2025, time.November, 17, 7, 0, 0, 0, time.UTC)
	checked := time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC)
	columns := []string{"green_garden_bin_last_collection", "green_garden_bin_next_collection"}
	values := []*time.Time{nil, &next}

	stmt, args := buildMergeSQL("1 High Street", columns, values, checked)

	for _, want := range []string{
		"MERGE INTO collections AS t",
		"USING (SELECT @p1 AS address) AS s ON t.address = s.address",
		"WHEN MATCHED THEN UPDATE SET site_last_checked = @p2, [green_garden_bin_last_collection] = @p3, [green_garden_bin_next_collection] = @p4",
		"WHEN NOT MATCHED THEN INSERT (address, site_last_checked, [green_garden_bin_last_collection], [green_garden_bin_next_collection]) VALUES (@p1, @p2, @p3, @p4);",
	} {
		if !strings.Contains(stmt, want) {
			t.Errorf("statement missing %q:\n%s", want, stmt)
		}
	}

	if len(args) != 4 {
		t.Fatalf("got %d args, want 4", len(args))
	}
	if args[0] != "1 High Street" || args[1] != checked {
		t.Fatalf("key args = %v", args[:2])
	}
	if args[2] != nil {
		t.Fatalf("args[2] = %v, want nil for an absent date", args[2])
	}
	if args[3] != next {
		t.Fatalf("args[3] = %v, want %v", args[3], next)
	}
}

// TestMsIdent verifies closing brackets are escaped by doubling.
func TestMsIdent(t *testing.T) {
	t.Parallel()

	if got := msIdent("odd]name"); got != "[odd]]name]" {
		t.Fatalf("msIdent = %s", got)
	}
}

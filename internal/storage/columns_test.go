package storage

import (
	"testing"
	"time"

	"binday/internal/schedule"
)

// TestScheduleColumns_Order verifies the column sequence is fixed and
// independent of which bin types the records mention.
func TestScheduleColumns_Order(t *testing.T) {
	t.Parallel()

	columns, values, wantLen := columnsFixture(t, nil)
	if len(columns) != wantLen || len(values) != wantLen {
		t.Fatalf("got %d columns / %d values, want %d", len(columns), len(values), wantLen)
	}

	want := []string{
		"black_rubbish_140l_last_collection", "black_rubbish_140l_next_collection",
		"blue_cardboard_bag_last_collection", "blue_cardboard_bag_next_collection",
		"black_food_waste_last_collection", "black_food_waste_next_collection",
		"green_garden_bin_last_collection", "green_garden_bin_next_collection",
		"green_recycling_box_last_collection", "green_recycling_box_next_collection",
	}
	for i, col := range want {
		if columns[i] != col {
			t.Fatalf("columns[%d] = %q, want %q", i, columns[i], col)
		}
	}
}

// columnsFixture runs ScheduleColumns over records and returns the result
// plus the expected slice length.
func columnsFixture(t *testing.T, records []schedule.CollectionRecord) ([]string, []*time.Time, int) {
	t.Helper()
	columns, values := ScheduleColumns(records, "Europe/London")
	return columns, values, 2 * len(schedule.StorageKeys)
}

// TestScheduleColumns_ValuesAndNulls verifies present bin types carry parsed
// 07:00 timestamps while absent ones come back nil, so an upsert clears them.
func TestScheduleColumns_ValuesAndNulls(t *testing.T) {
	t.Parallel()

	records := []schedule.CollectionRecord{
		{
			CollectionType: "Black Rubbish Bin",
			NextCollection: "Monday, 17 November 2025",
			LastCollection: "Monday, 10 November 2025",
		},
	}
	columns, values, _ := columnsFixture(t, records)

	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	byCol := make(map[string]*time.Time, len(columns))
	for i, col := range columns {
		byCol[col] = values[i]
	}

	next := byCol["black_rubbish_140l_next_collection"]
	if next == nil || !next.Equal(time.Date(2025, time.November, 17, 7, 0, 0, 0, loc)) {
		t.Fatalf("next = %v", next)
	}
	last := byCol["black_rubbish_140l_last_collection"]
	if last == nil || !last.Equal(time.Date(2025, time.November, 10, 7, 0, 0, 0, loc)) {
		t.Fatalf("last = %v", last)
	}

	for _, col := range []string{
		"blue_cardboard_bag_next_collection",
		"green_garden_bin_last_collection",
		"green_recycling_box_next_collection",
	} {
		if byCol[col] != nil {
			t.Fatalf("%s = %v, want nil for absent bin type", col, *byCol[col])
		}
	}
}

// TestScheduleColumns_SentinelDates verifies "unknown"/"n/a" cells persist as
// nil, matching how the site marks a missing collection.
func TestScheduleColumns_SentinelDates(t *testing.T) {
	t.Parallel()

	records := []schedule.CollectionRecord{
		{
			CollectionType: "Green Garden Waste Bin",
			NextCollection: "unknown",
			LastCollection: "N/A",
		},
		{
			CollectionType: "Blue Cardboard Bag",
			NextCollection: "not a real date",
		},
	}
	columns, values, _ := columnsFixture(t, records)

	for i, col := range columns {
		if values[i] != nil {
			t.Fatalf("%s = %v, want nil", col, *values[i])
		}
	}
}

// TestScheduleColumns_LaterRecordWins verifies the last record for a storage
// key overrides earlier ones.
func TestScheduleColumns_LaterRecordWins(t *testing.T) {
	t.Parallel()

	records := []schedule.CollectionRecord{
		{CollectionType: "Black Rubbish Bin", NextCollection: "Monday, 10 November 2025"},
		{CollectionType: "Black Rubbish Bin", NextCollection: "Monday, 17 November 2025"},
	}
	columns, values, _ := columnsFixture(t, records)

	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	for i, col := range columns {
		if col != "black_rubbish_140l_next_collection" {
			continue
		}
		if values[i] == nil || !values[i].Equal(time.Date(2025, time.November, 17, 7, 0, 0, 0, loc)) {
			t.Fatalf("next = %v, want the later record's date", values[i])
		}
		return
	}
	t.Fatal("column not found")
}

package storage

import (
	"strings"
	"time"

	"binday/internal/schedule"
)

// notADate lists raw cell values that mean "no date" rather than a parse
// failure. Compared case-insensitively.
var notADate = map[string]bool{
	"":        true,
	"unknown": true,
	"n/a":     true,
}

// ScheduleColumns flattens a record set into the fixed bin-type column
// sequence shared by every backend: for each storage key, in schema order,
// a "<key>_last_collection" then "<key>_next_collection" column.
//
// Why this exists:
//   - It is pure and deterministic, so upsert correctness (column order,
//     NULL-clearing of absent bin types, sentinel date filtering) can be unit
//     tested without a database.
//
// Values are nil for bin types absent from records and for date strings that
// are missing, sentinel ("unknown"/"n/a"), or unparseable. When two records
// resolve to the same storage key, the later one wins.
func ScheduleColumns(records []schedule.CollectionRecord, zoneName string) ([]string, []*time.Time) {
	type pair struct {
		last *time.Time
		next *time.Time
	}

	byKey := make(map[schedule.StorageKey]pair, len(schedule.StorageKeys))
	for _, rec := range records {
		key, ok := schedule.StorageKeyFor(rec.CollectionType)
		if !ok {
			continue
		}
		byKey[key] = pair{
			last: parseStoredDate(rec.LastCollection, zoneName),
			next: parseStoredDate(rec.NextCollection, zoneName),
		}
	}

	columns := make([]string, 0, 2*len(schedule.StorageKeys))
	values := make([]*time.Time, 0, 2*len(schedule.StorageKeys))
	for _, key := range schedule.StorageKeys {
		p := byKey[key]
		columns = append(columns, string(key)+"_last_collection", string(key)+"_next_collection")
		values = append(values, p.last, p.next)
	}
	return columns, values
}

// parseStoredDate converts a raw date cell to a timestamp for persistence,
// or nil when the cell carries no usable date.
func parseStoredDate(raw, zoneName string) *time.Time {
	if notADate[strings.ToLower(strings.TrimSpace(raw))] {
		return nil
	}
	t, ok := schedule.ParseCollectionDate(raw, zoneName)
	if !ok {
		return nil
	}
	return &t
}

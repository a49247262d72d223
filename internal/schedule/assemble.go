package schedule

import (
	"time"

	"binday/internal/extracthtml"
)

// Assemble runs the full extraction pipeline over one HTML snapshot: table
// rows in, ordered CollectionRecords out.
//
// now is injected rather than read internally so that runs are deterministic
// and testable; given identical HTML, zone, and now, the output is identical.
//
// Per row: the collection-type label (possibly composite) is resolved and
// split, the row's next/last date strings are resolved once, and each split
// label becomes its own record sharing those dates and their computed time
// deltas. Rows that yield no non-empty label produce no records. The only
// error condition is HTML that fails to parse as markup at all.
func Assemble(html string, now time.Time, zoneName string) ([]CollectionRecord, error) {
	mapping, rows, err := extracthtml.Extract(html)
	if err != nil {
		return nil, err
	}

	var records []CollectionRecord
	for _, row := range rows {
		labels := SplitTypes(mapping.CollectionType(row))
		if len(labels) == 0 {
			continue
		}

		next, last := mapping.Dates(row)
		deltas := ComputeTimeDeltas(next, last, zoneName, now)

		for _, label := range labels {
			rec := CollectionRecord{
				CollectionType:    label,
				NextCollection:    next,
				LastCollection:    last,
				DaysUntilNext:     deltas.DaysUntilNext,
				MinutesUntilNext:  deltas.MinutesUntilNext,
				TimeUntilNextText: deltas.TimeUntilNextText,
				DaysSinceLast:     deltas.DaysSinceLast,
				MinutesSinceLast:  deltas.MinutesSinceLast,
			}
			if group, _, ok := Classify(label); ok {
				rec.WasteGroup = group
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

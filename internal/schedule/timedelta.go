package schedule

import (
	"fmt"
	"strings"
	"time"
)

// passedText is emitted when a "next collection" date parses but is already
// behind now. The site should never serve one, but the table is not trusted.
const passedText = "Collection time has passed"

// TimeDeltas carries the computed time-until/time-since figures for one row's
// date pair. Fields stay nil when the corresponding date string is absent or
// does not parse.
type TimeDeltas struct {
	DaysUntilNext     *int
	MinutesUntilNext  *int
	TimeUntilNextText string
	DaysSinceLast     *int
	MinutesSinceLast  *int
}

// ComputeTimeDeltas derives day/minute deltas between now and the raw
// next/last collection date strings.
//
// A future next date yields floor-of-days, floor-of-minutes, and a formatted
// duration; a past next date yields zeros and passedText. A past last date
// yields elapsed days/minutes; a future last date yields zeros. Unparseable
// input leaves the dependent fields nil.
func ComputeTimeDeltas(nextText, lastText, zoneName string, now time.Time) TimeDeltas {
	var d TimeDeltas

	if next, ok := ParseCollectionDate(nextText, zoneName); ok {
		if !next.Before(now) {
			delta := next.Sub(now)
			days := int(delta.Hours() / 24)
			minutes := int(delta.Minutes())
			d.DaysUntilNext = &days
			d.MinutesUntilNext = &minutes
			d.TimeUntilNextText = FormatDuration(days, minutes)
		} else {
			zero := 0
			d.DaysUntilNext = &zero
			d.MinutesUntilNext = &zero
			d.TimeUntilNextText = passedText
		}
	}

	if last, ok := ParseCollectionDate(lastText, zoneName); ok {
		if !last.After(now) {
			delta := now.Sub(last)
			days := int(delta.Hours() / 24)
			minutes := int(delta.Minutes())
			d.DaysSinceLast = &days
			d.MinutesSinceLast = &minutes
		} else {
			zero := 0
			d.DaysSinceLast = &zero
			d.MinutesSinceLast = &zero
		}
	}

	return d
}

// FormatDuration renders a non-negative (days, total minutes) pair as plain
// English, e.g. "2 days, 5 hours and 30 minutes".
//
// totalMinutes is the full span in minutes; hours are derived after removing
// the whole days. Zero components are omitted; an all-zero span renders as
// "Less than 1 minute". The function is pure.
func FormatDuration(days, totalMinutes int) string {
	hours := totalMinutes/60 - days*24
	minutes := totalMinutes % 60

	var parts []string
	if days > 0 {
		parts = append(parts, pluralize(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "minute"))
	}

	switch len(parts) {
	case 0:
		return "Less than 1 minute"
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

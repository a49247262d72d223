package schedule

import (
	"strings"
	"time"
)

// DefaultZone is the timezone used when the configured zone name cannot be
// resolved. The council the data comes from operates on UK local time.
const DefaultZone = "Europe/London"

// collectionHour pins every parsed collection date to 07:00 local time,
// the hour bins are expected to be out by.
const collectionHour = 7

// collectionDateLayout matches the date part of the site's strings after the
// weekday prefix is removed, e.g. "17 November 2025".
const collectionDateLayout = "2 January 2006"

// Location resolves a zone name, silently falling back to DefaultZone when
// the name is invalid or unresolvable. Callers that want to warn on fallback
// should check the name themselves (see config validation).
func Location(zoneName string) *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		loc, err = time.LoadLocation(DefaultZone)
		if err != nil {
			// Europe/London missing means a broken zoneinfo install;
			// UTC keeps the pipeline total.
			return time.UTC
		}
	}
	return loc
}

// ParseCollectionDate parses a site date string like
// "Monday, 17 November 2025" into 07:00:00 local time in the named zone.
//
// The weekday token before the first comma is discarded without validation
// (the site's weekday is trusted to be decorative). The boolean is false for
// empty input or any string that does not match the expected shape; parse
// failures are never escalated.
func ParseCollectionDate(text, zoneName string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	datePart := text
	if i := strings.Index(text, ","); i >= 0 {
		datePart = text[i+1:]
	}
	datePart = strings.TrimSpace(datePart)

	loc := Location(zoneName)
	t, err := time.ParseInLocation(collectionDateLayout, datePart, loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), collectionHour, 0, 0, 0, loc), true
}

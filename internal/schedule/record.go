// Package schedule turns the council's results table into canonical,
// per-bin-type collection records.
//
// The pipeline is deliberately total over its input domain: malformed rows,
// unparseable dates, and unrecognized bin types degrade to partially-filled
// records (or no record) rather than errors, so one bad row never sinks a run.
package schedule

import "encoding/json"

// StorageKey is the fixed column-name prefix used to persist one bin type's
// schedule. Collection types that do not resolve to a key are kept in the
// extraction output but skipped by persistence.
type StorageKey string

const (
	KeyBlackRubbish     StorageKey = "black_rubbish_140l"
	KeyBlueCardboardBag StorageKey = "blue_cardboard_bag"
	KeyBlackFoodWaste   StorageKey = "black_food_waste"
	KeyGreenGardenBin   StorageKey = "green_garden_bin"
	KeyGreenRecycling   StorageKey = "green_recycling_box"
)

// StorageKeys lists every persistable bin type in schema column order.
// Backends iterate this to build the full column set on every upsert.
var StorageKeys = []StorageKey{
	KeyBlackRubbish,
	KeyBlueCardboardBag,
	KeyBlackFoodWaste,
	KeyGreenGardenBin,
	KeyGreenRecycling,
}

// WasteGroup is the semantic category (or categories) a collection type maps
// to. Most bin types carry exactly one group; the green recycling box covers
// two material streams.
type WasteGroup []string

// MarshalJSON renders a single group as a bare string and multiple groups as
// an array, matching the legacy output shape consumed downstream.
func (g WasteGroup) MarshalJSON() ([]byte, error) {
	if len(g) == 1 {
		return json.Marshal(g[0])
	}
	return json.Marshal([]string(g))
}

// CollectionRecord is the canonical output unit of the pipeline: one bin type
// with its raw collection dates and computed time figures.
//
// Numeric fields are pointers so that a legitimate zero (e.g. a collection
// time that has just passed) still serializes, while an unparseable date
// omits its dependent fields entirely.
type CollectionRecord struct {
	CollectionType    string     `json:"collection_type"`
	WasteGroup        WasteGroup `json:"waste_group,omitempty"`
	NextCollection    string     `json:"next_collection,omitempty"`
	LastCollection    string     `json:"last_collection,omitempty"`
	DaysUntilNext     *int       `json:"days_until_next,omitempty"`
	MinutesUntilNext  *int       `json:"minutes_until_next,omitempty"`
	TimeUntilNextText string     `json:"time_until_next_text,omitempty"`
	DaysSinceLast     *int       `json:"days_since_last,omitempty"`
	MinutesSinceLast  *int       `json:"minutes_since_last,omitempty"`
}

package schedule

import (
	"strings"

	"golang.org/x/text/cases"
)

// classificationRule pairs a predicate over the case-folded label with the
// waste group and storage key it yields.
//
// Rules are evaluated top to bottom, first match wins. The current conditions
// are mutually disjoint, but the order is part of the contract: future rule
// additions may overlap, and auditing precedence requires a fixed sequence.
type classificationRule struct {
	match func(label string) bool
	group WasteGroup
	key   StorageKey
}

var classificationRules = []classificationRule{
	{
		match: func(l string) bool { return contains(l, "black") && contains(l, "rubbish") },
		group: WasteGroup{"General Rubbish (black bin)"},
		key:   KeyBlackRubbish,
	},
	{
		match: func(l string) bool { return contains(l, "blue") && (contains(l, "cardboard") || contains(l, "bag")) },
		group: WasteGroup{"Cardboard (blue bag/box)"},
		key:   KeyBlueCardboardBag,
	},
	{
		match: func(l string) bool { return contains(l, "food") || contains(l, "caddy") },
		group: WasteGroup{"Food Waste (caddy)"},
		key:   KeyBlackFoodWaste,
	},
	{
		match: func(l string) bool { return contains(l, "green") && contains(l, "recycling") },
		group: WasteGroup{"Plastics & Metals (green box)", "Glass & Paper (green box)"},
		key:   KeyGreenRecycling,
	},
	{
		match: func(l string) bool { return contains(l, "garden") && contains(l, "waste") },
		group: WasteGroup{"Garden Waste (garden bin subscription)"},
		key:   KeyGreenGardenBin,
	},
}

func contains(s, substr string) bool { return strings.Contains(s, substr) }

// labelFold performs Unicode case folding so that rule matching is
// case-insensitive regardless of how the council capitalizes labels.
var labelFold = cases.Fold()

// Classify maps a free-text collection-type label to its waste group(s) and
// storage key. The boolean reports whether any rule matched; unrecognized
// labels yield (nil, "", false) and the record is kept without a group.
func Classify(label string) (WasteGroup, StorageKey, bool) {
	if label == "" {
		return nil, "", false
	}
	folded := labelFold.String(label)
	for _, r := range classificationRules {
		if r.match(folded) {
			return r.group, r.key, true
		}
	}
	return nil, "", false
}

// StorageKeyFor resolves just the persistence key for a label. Used by the
// storage layer, which does not care about waste groups.
func StorageKeyFor(label string) (StorageKey, bool) {
	_, key, ok := Classify(label)
	return key, ok
}

package extracthtml

import (
	"reflect"
	"testing"
)

// TestLooksLikeDate exercises the weekday-substring heuristic on the values
// the site actually renders plus the ones it must reject.
func TestLooksLikeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		val  string
		want bool
	}{
		{"Monday, 17 November 2025", true},
		{"Friday, 2 January 2026", true},
		{"Saturday", true},
		{"Black Rubbish Bin", false},
		{"Green Garden Waste Bin", false},
		{"unknown", false},
		{"", false},
		{"monday, 17 november 2025", false}, // weekday match is case-sensitive
	}
	for _, tc := range cases {
		if got := LooksLikeDate(tc.val); got != tc.want {
			t.Errorf("LooksLikeDate(%q) = %v, want %v", tc.val, got, tc.want)
		}
	}
}

// TestExtract_HeaderMapping verifies the column mapping comes from the thead
// labels, with a later matching header overwriting an earlier one.
func TestExtract_HeaderMapping(t *testing.T) {
	t.Parallel()

	const src = `<table>
  <thead><tr>
    <th>Collection</th>
    <th>Next collection</th>
    <th>Last collection</th>
  </tr></thead>
  <tbody><tr>
    <td>Black Rubbish Bin</td>
    <td>Monday, 17 November 2025</td>
    <td>Monday, 10 November 2025</td>
  </tr></tbody>
</table>`

	mapping, rows, err := Extract(src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if mapping.Type != 0 || mapping.Next != 1 || mapping.Last != 2 {
		t.Fatalf("mapping = %+v, want Type=0 Next=1 Last=2", mapping)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	want := RawRow{Cells: []string{"Black Rubbish Bin", "Monday, 17 November 2025", "Monday, 10 November 2025"}}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("row = %+v, want %+v", rows[0], want)
	}
}

// TestExtract_DuplicateHeaderLastWins pins the overwrite order: with two
// headers matching the same column role, the later index is kept.
func TestExtract_DuplicateHeaderLastWins(t *testing.T) {
	t.Parallel()

	const src = `<table>
  <thead><tr>
    <th>Next collection</th>
    <th>Next collection</th>
  </tr></thead>
  <tbody></tbody>
</table>`

	mapping, _, err := Extract(src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if mapping.Next != 1 {
		t.Fatalf("mapping.Next = %d, want 1", mapping.Next)
	}
}

// TestExtract_NoTable verifies a page without a results table is a valid
// empty outcome.
func TestExtract_NoTable(t *testing.T) {
	t.Parallel()

	mapping, rows, err := Extract("<html><body><p>No collections found</p></body></html>")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected no rows, got %+v", rows)
	}
	if mapping.Next != -1 || mapping.Last != -1 || mapping.Type != -1 {
		t.Fatalf("mapping should stay unmapped, got %+v", mapping)
	}
}

// TestExtract_NoTbody verifies a headers-only table yields zero rows.
func TestExtract_NoTbody(t *testing.T) {
	t.Parallel()

	_, rows, err := Extract(`<table><thead><tr><th>Next collection</th></tr></thead></table>`)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

// TestExtract_RowHeaderSegments verifies a <br>-separated row header is
// captured with the segment separator between its text nodes, and that the
// header cell is excluded from Cells.
func TestExtract_RowHeaderSegments(t *testing.T) {
	t.Parallel()

	const src = `<table>
  <thead><tr><th>Collection</th><th>Next collection</th></tr></thead>
  <tbody><tr>
    <th> Black Rubbish Bin <br> Blue Cardboard Bag </th>
    <td>Monday, 17 November 2025</td>
  </tr></tbody>
</table>`

	_, rows, err := Extract(src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if !row.HasHeader {
		t.Fatal("expected HasHeader")
	}
	if row.Header != "Black Rubbish Bin | Blue Cardboard Bag" {
		t.Fatalf("header = %q", row.Header)
	}
	if !reflect.DeepEqual(row.Cells, []string{"Monday, 17 November 2025"}) {
		t.Fatalf("cells = %+v", row.Cells)
	}
}

// TestCollectionType covers the resolution chain: row header, then the mapped
// type column with no fallthrough, then the first cell.
func TestCollectionType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mapping ColumnMapping
		row     RawRow
		want    string
	}{
		{
			name:    "RowHeaderWins",
			mapping: ColumnMapping{Type: 0, Next: 1, Last: -1},
			row:     RawRow{Header: "Black Rubbish Bin", HasHeader: true, Cells: []string{"Green Garden Waste Bin"}},
			want:    "Black Rubbish Bin",
		},
		{
			name:    "MappedColumn",
			mapping: ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:     RawRow{Cells: []string{"Green Recycling Box", "Monday, 17 November 2025"}},
			want:    "Green Recycling Box",
		},
		{
			name:    "MappedColumnEmptyNoFallthrough",
			mapping: ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:     RawRow{Cells: []string{"", "Blue Cardboard Bag"}},
			want:    "",
		},
		{
			name:    "MappedColumnDateNoFallthrough",
			mapping: ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:     RawRow{Cells: []string{"Monday, 17 November 2025", "Blue Cardboard Bag"}},
			want:    "",
		},
		{
			name:    "FirstCellWhenUnmapped",
			mapping: ColumnMapping{Type: -1, Next: -1, Last: -1},
			row:     RawRow{Cells: []string{"Black Food Waste Bin", "Monday, 17 November 2025"}},
			want:    "Black Food Waste Bin",
		},
		{
			name:    "FirstCellDateExcluded",
			mapping: ColumnMapping{Type: -1, Next: -1, Last: -1},
			row:     RawRow{Cells: []string{"Monday, 17 November 2025"}},
			want:    "",
		},
		{
			name:    "NoCells",
			mapping: ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:     RawRow{},
			want:    "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.mapping.CollectionType(tc.row); got != tc.want {
				t.Fatalf("CollectionType = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestDates covers mapped resolution, the positional fallback when mapped
// indices miss, and the mix of both.
func TestDates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		mapping  ColumnMapping
		row      RawRow
		wantNext string
		wantLast string
	}{
		{
			name:     "BothMapped",
			mapping:  ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:      RawRow{Cells: []string{"Black Rubbish Bin", "Monday, 17 November 2025", "Monday, 10 November 2025"}},
			wantNext: "Monday, 17 November 2025",
			wantLast: "Monday, 10 November 2025",
		},
		{
			name:     "MappedOutOfRangePositionalFallback",
			mapping:  ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:      RawRow{HasHeader: true, Header: "Black Rubbish Bin", Cells: []string{"Monday, 17 November 2025"}},
			wantNext: "Monday, 17 November 2025",
			wantLast: "",
		},
		{
			name:     "PositionalOrderWhenUnmapped",
			mapping:  ColumnMapping{Type: -1, Next: -1, Last: -1},
			row:      RawRow{Cells: []string{"Black Rubbish Bin", "Monday, 17 November 2025", "Monday, 10 November 2025"}},
			wantNext: "Monday, 17 November 2025",
			wantLast: "Monday, 10 November 2025",
		},
		{
			// The mapped next cell holds a placeholder, so the positional
			// fallback promotes the only date in the row; the mapped last
			// value is kept as-is.
			name:     "MappedCellNotADate",
			mapping:  ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:      RawRow{Cells: []string{"Black Rubbish Bin", "unknown", "Monday, 10 November 2025"}},
			wantNext: "Monday, 10 November 2025",
			wantLast: "Monday, 10 November 2025",
		},
		{
			name:     "NoDates",
			mapping:  ColumnMapping{Type: 0, Next: 1, Last: 2},
			row:      RawRow{Cells: []string{"Black Rubbish Bin"}},
			wantNext: "",
			wantLast: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			next, last := tc.mapping.Dates(tc.row)
			if next != tc.wantNext || last != tc.wantLast {
				t.Fatalf("Dates = (%q, %q), want (%q, %q)", next, last, tc.wantNext, tc.wantLast)
			}
		})
	}
}

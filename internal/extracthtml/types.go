package extracthtml

// unmapped marks a column index that was not resolved from the header row.
const unmapped = -1

// ColumnMapping records which data-cell index holds each semantic column,
// derived once per table from the <thead> cell texts. Indices refer to
// positions within a row's <td> sequence; a row's <th> header cell is not
// counted. Unresolved columns hold -1.
type ColumnMapping struct {
	Next int // "Next collection" column
	Last int // "Last collection" column
	Type int // any other "Collection" column (the bin type)
}

// RawRow is one <tbody> row before any interpretation: the text of its <th>
// header cell (if any) and the texts of its <td> cells in document order.
//
// HasHeader distinguishes "no <th> in the row" from "<th> present but empty";
// the collection-type resolution order depends on that distinction.
type RawRow struct {
	Header    string
	HasHeader bool
	Cells     []string
}

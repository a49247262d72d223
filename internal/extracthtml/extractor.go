// Package extracthtml parses the council's collection-day results page into
// raw table rows plus a header-derived column mapping.
//
// The package is resilient by design: a missing table, missing <tbody>, or
// malformed row yields fewer rows, never an error. Only HTML that cannot be
// parsed as markup at all is reported to the caller.
package extracthtml

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HeaderSeparator is inserted between the text segments of a row header cell
// (the site renders one bin type per line inside a single <th>). Downstream
// splitting of composite labels keys off this token.
const HeaderSeparator = " | "

// weekdayNames drives the date-detection heuristic. The site renders dates
// with a full English weekday prefix, so a weekday substring is the signal
// that a cell holds a date rather than a bin type.
var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// LooksLikeDate reports whether a cell value looks like a collection date.
//
// Known fragility: a bin-type label that happens to contain a weekday name
// (say, a proper noun) would be misread as a date. The source data has never
// produced one, and the heuristic is kept as-is rather than guessed around.
func LooksLikeDate(val string) bool {
	if val == "" {
		return false
	}
	for _, day := range weekdayNames {
		if strings.Contains(val, day) {
			return true
		}
	}
	return false
}

// Extract parses the document and returns the column mapping derived from the
// single results table's <thead> plus one RawRow per <tbody> row.
//
// Absence of a table or of its body yields an empty row slice, not an error;
// "zero collections found" is a valid outcome.
func Extract(htmlSrc string) (ColumnMapping, []RawRow, error) {
	mapping := ColumnMapping{Next: unmapped, Last: unmapped, Type: unmapped}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return mapping, nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return mapping, nil, nil
	}

	// Header order matters: a later matching header overwrites an earlier
	// one, mirroring how the site's table has always been read.
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		h := strings.TrimSpace(th.Text())
		switch {
		case strings.Contains(h, "Next collection"):
			mapping.Next = i
		case strings.Contains(h, "Last collection"):
			mapping.Last = i
		case h != "" && strings.Contains(h, "Collection"):
			mapping.Type = i
		}
	})

	body := table.Find("tbody").First()
	if body.Length() == 0 {
		return mapping, nil, nil
	}

	var rows []RawRow
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row RawRow

		th := tr.Find("th").First()
		if th.Length() > 0 {
			row.HasHeader = true
			row.Header = segmentedText(th, HeaderSeparator)
		}

		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row.Cells = append(row.Cells, strings.TrimSpace(td.Text()))
		})

		rows = append(rows, row)
	})

	return mapping, rows, nil
}

// CollectionType resolves a row's raw collection-type label.
//
// Resolution order: the row header cell if the row has one; else the cell at
// the mapped type column (no further fallback when that cell is empty or
// date-like); else the first data cell under the same date-exclusion rule.
// The returned label is raw; whitespace normalization happens downstream.
func (m ColumnMapping) CollectionType(row RawRow) string {
	if row.HasHeader {
		return row.Header
	}
	if m.Type != unmapped && m.Type < len(row.Cells) {
		if v := row.Cells[m.Type]; v != "" && !LooksLikeDate(v) {
			return v
		}
		return ""
	}
	if len(row.Cells) > 0 {
		if v := row.Cells[0]; v != "" && !LooksLikeDate(v) {
			return v
		}
	}
	return ""
}

// Dates resolves a row's raw next/last collection date strings.
//
// Header-mapped indices are consulted first; a mapped cell only counts if it
// actually looks like a date. Anything still unresolved falls back to the
// row's date-looking values in document order: first becomes next, second
// becomes last.
func (m ColumnMapping) Dates(row RawRow) (next, last string) {
	if m.Next != unmapped && m.Next < len(row.Cells) {
		if v := row.Cells[m.Next]; v != "" && LooksLikeDate(v) {
			next = v
		}
	}
	if m.Last != unmapped && m.Last < len(row.Cells) {
		if v := row.Cells[m.Last]; v != "" && LooksLikeDate(v) {
			last = v
		}
	}

	if next != "" && last != "" {
		return next, last
	}

	var dates []string
	for _, v := range row.Cells {
		if v != "" && LooksLikeDate(v) {
			dates = append(dates, v)
		}
	}
	if next == "" && len(dates) > 0 {
		next = dates[0]
	}
	if last == "" && len(dates) >= 2 {
		last = dates[1]
	}
	return next, last
}

// segmentedText extracts the text of a cell with sep between text nodes, so
// that line-break-separated content ("<br>") stays distinguishable after the
// markup is flattened. Each segment is trimmed; empty segments are dropped.
func segmentedText(sel *goquery.Selection, sep string) string {
	var segments []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				segments = append(segments, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	return strings.Join(segments, sep)
}

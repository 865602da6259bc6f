// Package format renders merged query results as a tagged tabular
// structure: one row per unified record, one trailing column naming the
// contributing sources.
package format

import (
	"strings"

	"unify/internal/record"
)

// sourcesColumn is the provenance column appended after the field
// columns; cells look like "sql" or "sql+file".
const sourcesColumn = "sources"

// noResults is what an empty result set renders as. An empty answer is
// valid, never an error, so it gets a well-defined shape instead of an
// empty table.
const noResults = "no results"

// Table is the tabular form of a result set. Rows are aligned with
// Columns; missing field values are empty cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Build lays out unified records as a table. The column set is the
// union of fields referenced by the query and fields present in any
// record, in canonical field order, plus the sources column.
func Build(recs []record.UnifiedRecord, queried []record.Field) *Table {
	want := make(map[record.Field]bool, len(queried))
	for _, f := range queried {
		want[f] = true
	}
	for _, r := range recs {
		for _, f := range record.EntityFields {
			if _, ok := r.Fields[f]; ok {
				want[f] = true
			}
		}
	}

	var cols []record.Field
	for _, f := range record.EntityFields {
		if want[f] {
			cols = append(cols, f)
		}
	}

	t := &Table{}
	for _, f := range cols {
		t.Columns = append(t.Columns, string(f))
	}
	t.Columns = append(t.Columns, sourcesColumn)

	for _, r := range recs {
		row := make([]string, 0, len(cols)+1)
		for _, f := range cols {
			row = append(row, r.Fields[f])
		}
		row = append(row, joinTags(r.Sources))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Empty reports whether the table has no result rows.
func (t *Table) Empty() bool { return len(t.Rows) == 0 }

// Render produces an aligned plain-text table, or the no-results line
// for an empty set.
func (t *Table) Render() string {
	if t.Empty() {
		return noResults
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if pad := widths[i] - len(cell); i < len(cells)-1 && pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteByte('\n')
	}

	writeRow(t.Columns)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteByte('\n')
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}

func joinTags(tags []record.Tag) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, "+")
}

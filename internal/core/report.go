package core

import (
	"fmt"
	"strings"
)

// Cell is one field of a report row. Display strings are wrapped in double
// quotes on serialization (internal quotes doubled); pre-formatted numeric
// literals and header words are emitted as-is.
type Cell struct {
	Value  string
	Quoted bool
}

// Text returns a quoted display cell.
func Text(s string) Cell { return Cell{Value: s, Quoted: true} }

// Plain returns an unquoted cell.
func Plain(s string) Cell { return Cell{Value: s} }

// Num returns a plain numeric cell with exactly two fractional digits.
func Num(hours float64) Cell { return Cell{Value: fmt.Sprintf("%.2f", hours)} }

// Row is an ordered sequence of cells.
type Row []Cell

// Report is an ordered sequence of rows. Builders pad every row to the
// section's header width so each serialized line carries the same number of
// comma-separated fields.
type Report struct {
	rows []Row
}

// Append adds one row.
func (r *Report) Append(row Row) {
	r.rows = append(r.rows, row)
}

// AppendGroup emits one row per trailing cell group, writing the identity
// cells only on the first row and blanks in their place afterwards. This is
// what produces the merged-cell look for multi-task users. With no trailing
// groups a single padded identity row is emitted.
func (r *Report) AppendGroup(identity Row, trailing []Row, width int) {
	if len(trailing) == 0 {
		r.Append(padRow(identity, width))
		return
	}
	blanks := make(Row, len(identity))
	for i, t := range trailing {
		lead := identity
		if i > 0 {
			lead = blanks
		}
		row := append(append(Row{}, lead...), t...)
		r.Append(padRow(row, width))
	}
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.rows)
}

// Serialize renders the report as comma-delimited text, one row per line,
// every line newline-terminated. Quoted cells double any internal quote, so
// a consumer can split on newline then comma, strip one surrounding quote
// pair and halve doubled quotes to recover the original cell values.
func (r *Report) Serialize() string {
	var b strings.Builder
	for _, row := range r.rows {
		for i, c := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			if c.Quoted {
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(c.Value, `"`, `""`))
				b.WriteByte('"')
			} else {
				b.WriteString(c.Value)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func padRow(row Row, width int) Row {
	for len(row) < width {
		row = append(row, Cell{})
	}
	return row
}

// Package layout word-wraps document lines into the fixed-width rows of a
// viewport.
package layout

import (
	"strings"

	"gemview/document"
)

// ContinuationIndent prefixes every wrapped row after the first.
const ContinuationIndent = "  "

// Row is one physical display row.
type Row struct {
	Text         string
	Kind         document.Kind
	Source       int  // index of the logical line in the document
	Continuation bool // wrapped overflow of the previous row
	Selected     bool
}

// Layout produces the rows visible in a cols x rows viewport whose first
// logical line is top. Widths are counted in runes. Output stops after
// rows rows, even in the middle of a logical line.
func Layout(doc *document.Document, cols, rows, selection, top int) []Row {
	if cols < 1 || rows < 1 || top < 0 {
		return nil
	}

	var out []Row
	for i := top; i < doc.Len() && len(out) < rows; i++ {
		line, _ := doc.Line(i)
		for j, part := range Wrap(line.Display(), cols) {
			if len(out) >= rows {
				break
			}
			row := Row{Text: part, Kind: line.Kind, Source: i, Selected: i == selection}
			if j > 0 {
				row.Text = ContinuationIndent + part
				row.Continuation = true
			}
			out = append(out, row)
		}
	}
	return out
}

// Wrap splits text into pieces no wider than cols; pieces after the first
// are sized to leave room for ContinuationIndent, which the caller adds.
// Breaks happen at the rightmost space that fits, with the remainder
// left-trimmed; a run without spaces is hard-broken with nothing lost.
// Empty text yields one empty piece.
func Wrap(text string, cols int) []string {
	remaining := []rune(text)
	if len(remaining) == 0 {
		return []string{""}
	}

	var parts []string
	width := cols
	for len(remaining) > 0 {
		if len(remaining) <= width {
			parts = append(parts, string(remaining))
			break
		}

		if brk := lastSpace(remaining, width); brk >= 0 {
			parts = append(parts, string(remaining[:brk]))
			remaining = []rune(strings.TrimLeft(string(remaining[brk:]), " "))
		} else {
			parts = append(parts, string(remaining[:width]))
			remaining = remaining[width:]
		}

		width = cols - len(ContinuationIndent)
		if width < 1 {
			width = 1
		}
	}
	return parts
}

// lastSpace returns the index of the rightmost space at or before limit,
// or -1.
func lastSpace(r []rune, limit int) int {
	if limit >= len(r) {
		limit = len(r) - 1
	}
	for i := limit; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}

package render

import (
	"io"

	"gemview/document"
	"gemview/layout"
)

const (
	statusRow    = 0
	contentStart = 1
)

var statusStyle = Style{Underline: true}

// Screen paints a status line and laid-out rows onto a canvas and writes
// finished frames to an output stream. The top row is the status area;
// content row y is drawn on canvas row y+1.
type Screen struct {
	canvas *Canvas
	out    io.Writer
}

// NewScreen creates a screen of the given size writing frames to out.
func NewScreen(out io.Writer, cols, rows int) *Screen {
	return &Screen{canvas: NewCanvas(cols, rows), out: out}
}

// ContentSize returns the size of the area below the status line.
func (s *Screen) ContentSize() (cols, rows int) {
	return s.canvas.Width(), max(s.canvas.Height()-contentStart, 0)
}

// Canvas exposes the backing canvas.
func (s *Screen) Canvas() *Canvas {
	return s.canvas
}

func (s *Screen) ClearStatusArea() {
	s.canvas.ClearRows(statusRow, contentStart)
}

func (s *Screen) DrawStatus(text string) {
	s.canvas.WriteString(0, statusRow, text, statusStyle)
	s.canvas.FillRow(statusRow, statusStyle)
}

func (s *Screen) ClearContent() {
	s.canvas.ClearRows(contentStart, s.canvas.Height())
}

// DrawRow draws one content row. Headings are bold and preformatted text
// is dim; the selected line is shown inverted across the full width.
func (s *Screen) DrawRow(y int, row layout.Row) {
	style := rowStyle(row)
	s.canvas.WriteString(0, contentStart+y, row.Text, style)
	if row.Selected {
		s.canvas.FillRow(contentStart+y, style)
	}
}

func rowStyle(row layout.Row) Style {
	var style Style
	switch row.Kind {
	case document.KindHeading:
		style.Bold = true
	case document.KindPreformatToggle, document.KindPreformatted:
		style.Dim = true
	}
	style.Reverse = row.Selected
	return style
}

// Present writes the frame. A full refresh clears the terminal first.
func (s *Screen) Present(full bool) error {
	if full {
		if _, err := io.WriteString(s.out, ClearScreen); err != nil {
			return err
		}
	}
	return s.canvas.RenderTo(s.out)
}

// Package document holds the line model of a gemtext page and the parser
// that produces it.
package document

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a logical line.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindLink
	KindQuote
	KindListItem
	KindPreformatToggle
	KindPreformatted
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHeading:
		return "heading"
	case KindLink:
		return "link"
	case KindQuote:
		return "quote"
	case KindListItem:
		return "list"
	case KindPreformatToggle:
		return "preformat-toggle"
	case KindPreformatted:
		return "preformatted"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Line is one logical line of a document.
//
// Text is the stored display text: headings without their markers, list
// items with a two-space indent, quotes with a "> " prefix, links with
// their title only.
type Line struct {
	Kind    Kind
	Text    string
	Level   int    // heading level, 1-3
	Target  string // link target as written, unresolved
	Ordinal int    // link number, 1-based, in source order
	Alt     string // alt text after a preformat fence
}

// Display returns the text shown for the line: a normalised "#" marker for
// headings and a "[n] " prefix for links.
func (l Line) Display() string {
	switch l.Kind {
	case KindHeading:
		return strings.Repeat("#", l.Level) + " " + l.Text
	case KindLink:
		return fmt.Sprintf("[%d] %s", l.Ordinal, l.Text)
	}
	return l.Text
}

// IsLink reports whether the line is a link.
func (l Line) IsLink() bool {
	return l.Kind == KindLink
}

// Document is a parsed page. It is replaced wholesale on navigation and
// never edited in place.
type Document struct {
	Lines []Line
}

// Len returns the number of logical lines.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Lines)
}

// Line returns line i, or false when i is out of range.
func (d *Document) Line(i int) (Line, bool) {
	if d == nil || i < 0 || i >= len(d.Lines) {
		return Line{}, false
	}
	return d.Lines[i], true
}

// Link returns the index of the link with the given ordinal.
func (d *Document) Link(ordinal int) (int, bool) {
	if d == nil {
		return 0, false
	}
	for i, l := range d.Lines {
		if l.Kind == KindLink && l.Ordinal == ordinal {
			return i, true
		}
	}
	return 0, false
}

// Links returns all link lines in document order.
func (d *Document) Links() []Line {
	if d == nil {
		return nil
	}
	var links []Line
	for _, l := range d.Lines {
		if l.Kind == KindLink {
			links = append(links, l)
		}
	}
	return links
}

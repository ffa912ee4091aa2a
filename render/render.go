// Package render provides a character-cell canvas, the terminal plumbing
// to show it, and the screen that paints laid-out rows onto it.
package render

import "strings"

// Cell represents a single character cell in the terminal.
type Cell struct {
	Rune  rune
	Style Style
}

// Style represents text styling for a cell. The display is monochrome, so
// there are attributes but no colours.
type Style struct {
	Bold      bool
	Dim       bool
	Underline bool
	Reverse   bool
}

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	var sb strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

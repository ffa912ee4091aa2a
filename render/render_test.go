package render

import (
	"bytes"
	"strings"
	"testing"

	"gemview/document"
	"gemview/layout"
)

func TestCanvas(t *testing.T) {
	c := NewCanvas(10, 5)

	if c.Width() != 10 || c.Height() != 5 {
		t.Errorf("wrong dimensions: got %dx%d, expected 10x5", c.Width(), c.Height())
	}

	c.Set(0, 0, 'X', Style{})
	if c.Get(0, 0).Rune != 'X' {
		t.Error("Set/Get failed")
	}

	c.Set(-1, 0, 'Y', Style{})
	c.Set(100, 0, 'Y', Style{})
	if c.Get(-1, 0).Rune != ' ' {
		t.Error("out of bounds Set should be ignored")
	}
}

func TestWriteStringWidths(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		plain    string
	}{
		{"ascii", "hello", 5, "hello"},
		{"clipped", "hello world!", 10, "hello worl"},
		{"wide runes", "日本", 4, "日本"},
		{"wide rune does not straddle the edge", "abcdefghi日", 9, "abcdefghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(10, 1)
			if got := c.WriteString(0, 0, tt.text, Style{}); got != tt.expected {
				t.Errorf("got width %d, expected %d", got, tt.expected)
			}
			if got := strings.TrimSpace(c.PlainText()); got != tt.plain {
				t.Errorf("got %q, expected %q", got, tt.plain)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	if got := StripANSI("\033[0;7mhi\033[0m there"); got != "hi there" {
		t.Errorf("got %q", got)
	}
}

func TestScreenLayout(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, 20, 4)

	if cols, rows := s.ContentSize(); cols != 20 || rows != 3 {
		t.Fatalf("got content size %dx%d, expected 20x3", cols, rows)
	}

	s.ClearStatusArea()
	s.DrawStatus("gemini://ex/")
	s.ClearContent()
	s.DrawRow(0, layout.Row{Text: "# Hi", Source: 0})
	s.DrawRow(1, layout.Row{Text: "[1] Page", Source: 1, Selected: true})

	want := "gemini://ex/\n# Hi\n[1] Page\n"
	if got := s.Canvas().PlainText(); got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
	if !s.Canvas().Get(19, 2).Style.Reverse {
		t.Error("selected row should be inverted across the full width")
	}
	if s.Canvas().Get(0, 1).Style.Reverse {
		t.Error("unselected row should not be inverted")
	}
	if !s.Canvas().Get(15, 0).Style.Underline {
		t.Error("status line should be underlined across the full width")
	}
}

func TestScreenPresent(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, 10, 2)
	s.DrawStatus("status")

	if err := s.Present(false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), ClearScreen) {
		t.Error("partial refresh should not clear the terminal")
	}

	out.Reset()
	if err := s.Present(true); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), ClearScreen) {
		t.Error("full refresh should clear the terminal first")
	}
	if !strings.Contains(out.String(), "status") {
		t.Errorf("frame missing content: %q", out.String())
	}
}

func TestScreenClearsStaleRows(t *testing.T) {
	s := NewScreen(&bytes.Buffer{}, 10, 3)
	s.DrawRow(0, layout.Row{Text: "old text", Selected: true})
	s.ClearContent()
	s.DrawRow(0, layout.Row{Text: "new"})

	if got := s.Canvas().PlainText(); got != "\nnew\n" {
		t.Errorf("got %q", got)
	}
	if s.Canvas().Get(5, 1).Style.Reverse {
		t.Error("highlight from the previous frame survived ClearContent")
	}
}

func TestScreenRowStyles(t *testing.T) {
	tests := []struct {
		name string
		row  layout.Row
		want Style
	}{
		{"text", layout.Row{Text: "plain", Kind: document.KindText}, Style{}},
		{"heading", layout.Row{Text: "# Hi", Kind: document.KindHeading}, Style{Bold: true}},
		{"preformatted", layout.Row{Text: "  x := 1", Kind: document.KindPreformatted}, Style{Dim: true}},
		{"fence", layout.Row{Text: "```go", Kind: document.KindPreformatToggle}, Style{Dim: true}},
		{"selected link", layout.Row{Text: "[1] Page", Kind: document.KindLink, Selected: true}, Style{Reverse: true}},
		{"selected heading", layout.Row{Text: "# Hi", Kind: document.KindHeading, Selected: true}, Style{Bold: true, Reverse: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(&bytes.Buffer{}, 12, 2)
			s.DrawRow(0, tt.row)
			if got := s.Canvas().Get(1, 1).Style; got != tt.want {
				t.Errorf("got %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestRenderStartsAtCursorHome(t *testing.T) {
	c := NewCanvas(4, 2)
	c.WriteString(0, 0, "ab", Style{Bold: true})
	c.WriteString(0, 1, "cd", Style{Dim: true})

	out := c.Render()
	if !strings.HasPrefix(out, CursorHome) {
		t.Errorf("frame should start by homing the cursor: %q", out)
	}
	for _, seq := range []string{"\033[0;1m", "\033[0;2m"} {
		if !strings.Contains(out, seq) {
			t.Errorf("frame missing %q: %q", seq, out)
		}
	}
}

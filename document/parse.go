package document

import (
	"strings"
	"unicode"
)

const fence = "```"

// Parse converts a gemtext body into logical lines. It never fails.
func Parse(body string) *Document {
	doc := &Document{}
	preformatted := false
	ordinal := 0

	for _, raw := range splitLines(body) {
		if strings.HasPrefix(raw, fence) {
			preformatted = !preformatted
			doc.Lines = append(doc.Lines, Line{
				Kind: KindPreformatToggle,
				Text: raw,
				Alt:  strings.TrimSpace(raw[len(fence):]),
			})
			continue
		}

		if preformatted {
			doc.Lines = append(doc.Lines, Line{Kind: KindPreformatted, Text: raw})
			continue
		}

		if strings.TrimSpace(raw) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(raw, "=>"):
			target, title, ok := splitLink(raw)
			if !ok {
				doc.Lines = append(doc.Lines, Line{Kind: KindText, Text: raw})
				continue
			}
			ordinal++
			doc.Lines = append(doc.Lines, Line{Kind: KindLink, Text: title, Target: target, Ordinal: ordinal})
		case strings.HasPrefix(raw, "###"):
			doc.Lines = append(doc.Lines, heading(3, raw))
		case strings.HasPrefix(raw, "##"):
			doc.Lines = append(doc.Lines, heading(2, raw))
		case strings.HasPrefix(raw, "#"):
			doc.Lines = append(doc.Lines, heading(1, raw))
		case strings.HasPrefix(raw, "*"):
			doc.Lines = append(doc.Lines, Line{Kind: KindListItem, Text: "  " + strings.TrimSpace(raw[1:])})
		case strings.HasPrefix(raw, ">"):
			doc.Lines = append(doc.Lines, Line{Kind: KindQuote, Text: "> " + strings.TrimSpace(raw[1:])})
		default:
			doc.Lines = append(doc.Lines, Line{Kind: KindText, Text: raw})
		}
	}

	return doc
}

func heading(level int, raw string) Line {
	return Line{Kind: KindHeading, Level: level, Text: strings.TrimSpace(raw[level:])}
}

// splitLink splits "=> target [title]". The title defaults to the target.
func splitLink(raw string) (target, title string, ok bool) {
	rest := strings.TrimSpace(raw[len("=>"):])
	if rest == "" {
		return "", "", false
	}
	target = rest
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		target, title = rest[:i], strings.TrimSpace(rest[i:])
	}
	if title == "" {
		title = target
	}
	return target, title, true
}

// splitLines splits on \n, \r\n and \r. A trailing line ending does not
// produce an extra empty line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

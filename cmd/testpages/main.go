// Test pages fetches and parses multiple capsules to validate rendering.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gemview/document"
	"gemview/fetcher"
	"gemview/gemurl"
	"gemview/layout"
	"gemview/render"
)

var testURLs = []string{
	"gemini://geminiprotocol.net/",
	"gemini://geminiprotocol.net/docs/",
	"gemini://geminiprotocol.net/docs/gemtext.gmi",
	"gemini://kennedy.gemi.dev/",
	"gemini://tlgs.one/",
	"gemini://gemi.dev/",
	"gemini://bbs.geminispace.org/",
}

const (
	screenCols = 40
	screenRows = 12
)

func main() {
	if len(os.Args) > 1 {
		// Single URL mode
		testURL(os.Args[1])
		return
	}

	for _, url := range testURLs {
		testURL(url)
		fmt.Println(strings.Repeat("=", screenCols+4))
	}
}

func testURL(raw string) {
	fmt.Printf("Testing: %s\n", raw)

	u, err := gemurl.Parse(raw)
	if err != nil {
		fmt.Printf("  ERROR parsing URL: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := fetcher.DefaultOptions()
	client := fetcher.New(fetcher.NewTLSTransport(opts.Timeout), opts)

	start := time.Now()
	res := client.Fetch(ctx, u)
	fmt.Printf("  Result: %s in %v\n", res.Kind, time.Since(start).Round(time.Millisecond))
	if res.Status != nil {
		fmt.Printf("  Status: %s\n", res.Status)
	}
	if res.Kind != fetcher.KindSuccess {
		fmt.Printf("  ERROR: %v\n", res.Err)
		return
	}

	doc := document.Parse(res.Body)
	counts := map[document.Kind]int{}
	for _, line := range doc.Lines {
		counts[line.Kind]++
	}
	fmt.Printf("  Body: %d bytes, %d lines\n", len(res.Body), doc.Len())
	fmt.Printf("  Content: %d headings, %d links, %d quotes, %d list items, %d preformatted\n",
		counts[document.KindHeading], counts[document.KindLink], counts[document.KindQuote],
		counts[document.KindListItem], counts[document.KindPreformatted])

	all := layout.Layout(doc, screenCols, doc.Len()*screenCols, -1, 0)
	fmt.Printf("  Rows at %d columns: %d\n", screenCols, len(all))

	// First screen, selection on the first line
	screen := render.NewScreen(os.Stdout, screenCols, screenRows+1)
	screen.DrawStatus(raw)
	for y, row := range layout.Layout(doc, screenCols, screenRows, 0, 0) {
		screen.DrawRow(y, row)
	}
	fmt.Println()
	for _, line := range strings.Split(strings.TrimRight(screen.Canvas().PlainText(), "\n"), "\n") {
		fmt.Printf("  | %s\n", line)
	}
}

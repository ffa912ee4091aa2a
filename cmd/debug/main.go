// Debug tool to analyze gemtext structure and layout offline.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gemview/document"
	"gemview/layout"
)

func main() {
	// debug [file] [columns]; reads stdin when no file is given
	var r io.Reader = os.Stdin
	if len(os.Args) > 1 && os.Args[1] != "-" {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}
	cols := 40
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			fmt.Println("Bad column count:", os.Args[2])
			os.Exit(1)
		}
		cols = n
	}

	body, err := io.ReadAll(r)
	if err != nil {
		fmt.Println("Read error:", err)
		os.Exit(1)
	}

	doc := document.Parse(string(body))
	fmt.Printf("%d lines, %d links\n\n", doc.Len(), len(doc.Links()))

	for i, line := range doc.Lines {
		analyzeLine(i, line)
	}

	rows := layout.Layout(doc, cols, doc.Len()*cols+1, -1, 0)
	fmt.Printf("\n%d rows at %d columns:\n", len(rows), cols)
	for _, row := range rows {
		marker := ' '
		if row.Continuation {
			marker = '+'
		}
		fmt.Printf("%4d %c|%s\n", row.Source, marker, row.Text)
	}
}

func analyzeLine(i int, line document.Line) {
	fmt.Printf("%4d %-12s %q", i, line.Kind, line.Text)
	switch line.Kind {
	case document.KindHeading:
		fmt.Printf(" level=%d", line.Level)
	case document.KindLink:
		fmt.Printf(" ordinal=%d target=%q", line.Ordinal, line.Target)
	case document.KindPreformatToggle:
		if line.Alt != "" {
			fmt.Printf(" alt=%q", line.Alt)
		}
	}
	fmt.Println()
}

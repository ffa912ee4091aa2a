package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"gemview/browser"
	"gemview/config"
	"gemview/document"
	"gemview/fetcher"
	"gemview/gemurl"
	"gemview/input"
	"gemview/layout"
	"gemview/logger"
	"gemview/render"
)

// printRows bounds how much of a page print mode lays out.
const printRows = 10000

// defaultPrintColumns is used when printing to something that is not a
// terminal and no width is configured.
const defaultPrintColumns = 60

func main() {
	url := ""
	printMode := false
	initConfig := false
	debug := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-p", "--print":
			printMode = true
		case "--init-config":
			initConfig = true
		case "--debug":
			debug = true
		case "-h", "--help":
			printUsage()
			return
		default:
			if url == "" {
				url = arg
			}
		}
	}

	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		os.Exit(1)
	}
	if debug {
		cfg.Log.Debug = true
	}
	if err := logger.Init(cfg.Log.Path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	logger.SetDebug(cfg.Log.Debug)
	defer logger.Close()

	if url == "" {
		url = cfg.Browser.HomeURL
	}

	if printMode || !term.IsTerminal(int(os.Stdout.Fd())) {
		err = runPrint(cfg, url)
	} else {
		err = run(cfg, url)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		logger.Close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gemview - Terminal Gemini Browser

Usage: gemview [options] [url]

Options:
  -p, --print       Print page to stdout (one-shot mode)
  --init-config     Output default config (redirect to ~/.config/gemview/config.toml)
  --debug           Write debug-level logs
  -h, --help        Show this help

Keys:
  k, Up             Previous line
  j, Down           Next line
  l, Enter, Right   Follow the selected link
  h, Backspace, Left  Back
  q, Ctrl-C         Quit

Examples:
  gemview                                   Open the home page
  gemview gemini://geminiprotocol.net/      Open URL
  gemview -p gemini://geminiprotocol.net/   Print page to stdout

Configuration:
  Config file: ~/.config/gemview/config.toml
  Generate with: gemview --init-config > ~/.config/gemview/config.toml`)
}

func newFetcher(cfg *config.Config) *fetcher.Client {
	opts := cfg.FetcherOptions()
	return fetcher.New(fetcher.NewTLSTransport(opts.Timeout), opts)
}

// runPrint fetches one page and writes its laid-out rows to stdout.
func runPrint(cfg *config.Config, url string) error {
	u, err := gemurl.Parse(url)
	if err != nil {
		return err
	}

	cols := cfg.Display.Columns
	if cols == 0 {
		if w, _, err := render.TerminalSize(); err == nil {
			cols = w
		} else {
			cols = defaultPrintColumns
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := newFetcher(cfg).Fetch(ctx, u)
	if res.Kind != fetcher.KindSuccess {
		return fmt.Errorf("%s: %w", u, res.Err)
	}

	doc := document.Parse(res.Body)
	for _, row := range layout.Layout(doc, cols, printRows, -1, 0) {
		fmt.Println(row.Text)
	}
	return nil
}

// run starts the interactive browser on the alternate screen.
func run(cfg *config.Config, url string) error {
	start, err := gemurl.Parse(url)
	if err != nil {
		return err
	}

	t, err := render.NewTerminal(os.Stdin)
	if err != nil {
		return fmt.Errorf("stdin is not a terminal: %w", err)
	}

	cols, rows := cfg.Display.Columns, cfg.Display.Rows
	if cols == 0 || rows == 0 {
		w, h, err := render.TerminalSize()
		if err != nil {
			return err
		}
		if cols == 0 {
			cols = w
		}
		if rows == 0 {
			rows = h
		}
	}

	if err := t.EnterRawMode(); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer t.RestoreMode()
	render.EnterAltScreen(os.Stdout)
	defer render.ExitAltScreen(os.Stdout)

	screen := render.NewScreen(os.Stdout, cols, rows)
	contentCols, contentRows := screen.ContentSize()
	vp := browser.Viewport{Cols: contentCols, Rows: contentRows}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := browser.New(newFetcher(cfg), screen, cfg.BrowserOptions(vp))
	src := input.NewSource(t, cfg.Keymap(), cfg.Debounce())

	err = c.Run(ctx, start, src)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Package browser is the navigation state machine: it owns the current
// URL, history, document, selection and scroll position, and decides when
// to fetch and when to redraw.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gemview/document"
	"gemview/fetcher"
	"gemview/gemurl"
	"gemview/input"
	"gemview/layout"
	"gemview/logger"
)

// State is the controller's position in the fetch/display cycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Fetcher performs one request. *fetcher.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, u gemurl.URL) fetcher.Result
}

// RenderSink paints rows. Row 0 of the content area sits directly below
// the status area.
type RenderSink interface {
	ClearStatusArea()
	DrawStatus(text string)
	ClearContent()
	DrawRow(y int, row layout.Row)
	// Present pushes the frame to the display and blocks until it is idle.
	Present(full bool) error
}

// InputSource yields button presses. *input.Source implements it.
type InputSource interface {
	Poll(ctx context.Context) (input.Button, error)
}

// Viewport is the content area size in character cells.
type Viewport struct {
	Cols int
	Rows int
}

// Options configures a Controller.
type Options struct {
	Viewport     Viewport
	HistoryLimit int           // 0 keeps every entry
	MessageHold  time.Duration // how long a diagnostic stays on screen
}

// NavState is everything the user can navigate. Selection is -1 when the
// document is empty.
type NavState struct {
	Current   gemurl.URL
	History   []gemurl.URL
	Document  *document.Document
	Selection int
	Top       int
}

// Controller drives navigation. It is not safe for concurrent use; all
// events are handled synchronously on the caller's goroutine.
type Controller struct {
	state   State
	nav     NavState
	fetcher Fetcher
	sink    RenderSink
	opts    Options
	sleep   func(time.Duration)
	log     *slog.Logger
}

// New creates an idle controller with an empty document.
func New(f Fetcher, sink RenderSink, opts Options) *Controller {
	return &Controller{
		state:   StateIdle,
		nav:     NavState{Document: &document.Document{}, Selection: -1},
		fetcher: f,
		sink:    sink,
		opts:    opts,
		sleep:   time.Sleep,
		log:     logger.Component("browser"),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Nav returns a copy of the navigation state.
func (c *Controller) Nav() NavState {
	nav := c.nav
	nav.History = append([]gemurl.URL(nil), c.nav.History...)
	return nav
}

// Rows lays out the current view.
func (c *Controller) Rows() []layout.Row {
	return layout.Layout(c.nav.Document, c.opts.Viewport.Cols, c.opts.Viewport.Rows, c.nav.Selection, c.nav.Top)
}

// Step runs the pending fetch, if any. It returns false when there was
// nothing to fetch.
func (c *Controller) Step(ctx context.Context) (bool, error) {
	if c.state != StateFetching {
		return false, nil
	}
	if err := c.showMessage("Fetching...", 0); err != nil {
		return true, err
	}
	res := c.fetcher.Fetch(ctx, c.nav.Current)
	return true, c.Handle(FetchCompleted{Result: res})
}

// Run fetches start and then processes input until Quit, end of input or
// cancellation. Every tick either completes a pending fetch or polls once
// for input.
func (c *Controller) Run(ctx context.Context, start gemurl.URL, src InputSource) error {
	if err := c.Handle(FetchRequested{URL: start}); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		fetched, err := c.Step(ctx)
		if err != nil {
			return err
		}
		if fetched {
			continue
		}

		b, err := src.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		var ev Event
		switch b {
		case input.Up:
			ev = MoveSelection{Delta: -1}
		case input.Down:
			ev = MoveSelection{Delta: 1}
		case input.Back:
			ev = GoBack{}
		case input.Select:
			ev = LinkActivated{}
		case input.Quit:
			return nil
		default:
			continue
		}
		if err := c.Handle(ev); err != nil {
			return err
		}
	}
}

func (c *Controller) setState(s State) {
	if s != c.state {
		c.log.Debug("transition", "from", c.state.String(), "to", s.String(), "url", c.nav.Current.String())
	}
	c.state = s
}

// render lays out the current view and presents it.
func (c *Controller) render(full bool) error {
	c.sink.ClearStatusArea()
	c.sink.DrawStatus(c.nav.Current.String())
	c.sink.ClearContent()
	for y, row := range c.Rows() {
		c.sink.DrawRow(y, row)
	}
	return c.sink.Present(full)
}

// showMessage replaces the screen with a single status message and holds
// it there for hold.
func (c *Controller) showMessage(msg string, hold time.Duration) error {
	c.sink.ClearStatusArea()
	c.sink.ClearContent()
	c.sink.DrawStatus(msg)
	if err := c.sink.Present(true); err != nil {
		return err
	}
	if hold > 0 {
		c.sleep(hold)
	}
	return nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

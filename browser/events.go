package browser

import (
	"errors"
	"slices"

	"gemview/document"
	"gemview/fetcher"
	"gemview/gemurl"
	"gemview/layout"
)

// Event drives a state transition.
type Event interface {
	isEvent()
}

// FetchRequested starts fetching URL. History is not touched.
type FetchRequested struct {
	URL gemurl.URL
}

// FetchCompleted delivers the outcome of the pending fetch.
type FetchCompleted struct {
	Result fetcher.Result
}

// LinkActivated follows link Ordinal, or the selected line when Ordinal
// is 0.
type LinkActivated struct {
	Ordinal int
}

// MoveSelection moves the selection Delta lines, one line at a time.
type MoveSelection struct {
	Delta int
}

// GoBack re-fetches the previous URL.
type GoBack struct{}

func (FetchRequested) isEvent() {}
func (FetchCompleted) isEvent() {}
func (LinkActivated) isEvent()  {}
func (MoveSelection) isEvent()  {}
func (GoBack) isEvent()         {}

// Handle applies ev. Events that do not apply in the current state are
// ignored. The only errors are display errors from the sink.
func (c *Controller) Handle(ev Event) error {
	switch ev := ev.(type) {
	case FetchRequested:
		if c.state == StateFetching {
			return nil
		}
		c.nav.Current = ev.URL
		c.setState(StateFetching)
		return nil

	case FetchCompleted:
		if c.state != StateFetching {
			return nil
		}
		return c.completeFetch(ev.Result)

	case MoveSelection:
		if c.state != StateReady {
			return nil
		}
		return c.moveSelection(ev.Delta)

	case LinkActivated:
		if c.state != StateReady {
			return nil
		}
		return c.activateLink(ev.Ordinal)

	case GoBack:
		if c.state != StateReady || len(c.nav.History) == 0 {
			return nil
		}
		c.nav.Current = c.popHistory()
		c.setState(StateFetching)
		return nil
	}
	return nil
}

func (c *Controller) completeFetch(res fetcher.Result) error {
	switch {
	case res.Kind == fetcher.KindSuccess && res.Body != "":
		c.nav.Document = document.Parse(res.Body)
		c.nav.Selection = 0
		if c.nav.Document.Len() == 0 {
			c.nav.Selection = -1
		}
		c.nav.Top = 0
		c.setState(StateReady)
		return c.render(true)

	case res.Kind == fetcher.KindTooLarge:
		c.setState(StateError)
		return c.recoverFrom("Page too large!")

	// A success header with nothing after it counts as an error page.
	case res.Kind == fetcher.KindNonSuccess, res.Kind == fetcher.KindSuccess:
		c.setState(StateError)
		status := ""
		if res.Status != nil {
			status = res.Status.String()
		}
		return c.recoverFrom("Error " + truncate(status, 30))

	default:
		c.setState(StateError)
		c.log.Warn("fetch failed", "url", c.nav.Current.String(), "err", res.Err)
		return c.recoverFrom("Failed: " + truncate(c.nav.Current.String(), c.opts.Viewport.Cols-10))
	}
}

// recoverFrom shows msg, then goes back one level if there is history to go
// back to, or settles on an empty page otherwise.
func (c *Controller) recoverFrom(msg string) error {
	if err := c.showMessage(msg, c.opts.MessageHold); err != nil {
		return err
	}

	if len(c.nav.History) > 0 {
		c.nav.Current = c.popHistory()
		c.log.Info("going back after failed fetch", "url", c.nav.Current.String())
		c.setState(StateFetching)
		return nil
	}

	c.nav.Document = &document.Document{}
	c.nav.Selection = -1
	c.nav.Top = 0
	c.setState(StateReady)
	return c.render(true)
}

func (c *Controller) moveSelection(delta int) error {
	if c.nav.Document.Len() == 0 || delta == 0 {
		return nil
	}

	moved := false
	for ; delta < 0; delta++ {
		if c.nav.Selection == 0 {
			break
		}
		c.nav.Selection--
		if c.nav.Selection < c.nav.Top {
			c.nav.Top = c.nav.Selection
		}
		moved = true
	}
	for ; delta > 0; delta-- {
		if c.nav.Selection == c.nav.Document.Len()-1 {
			break
		}
		c.nav.Selection++
		if c.nav.Selection >= c.nav.Top+c.opts.Viewport.Rows {
			c.nav.Top++
		}
		moved = true
	}
	if !moved {
		return nil
	}

	c.ensureVisible()
	return c.render(false)
}

// ensureVisible scrolls down until the selected line has at least one row
// in the viewport. Wrapped lines above it can push it out even when the
// line-count check in moveSelection passes.
func (c *Controller) ensureVisible() {
	for c.nav.Top < c.nav.Selection {
		rows := c.Rows()
		if slices.ContainsFunc(rows, func(r layout.Row) bool { return r.Source == c.nav.Selection }) {
			return
		}
		c.nav.Top++
	}
}

func (c *Controller) activateLink(ordinal int) error {
	if ordinal > 0 {
		idx, ok := c.nav.Document.Link(ordinal)
		if !ok {
			return nil
		}
		c.nav.Selection = idx
		if idx < c.nav.Top {
			c.nav.Top = idx
		}
		c.ensureVisible()
	}

	line, ok := c.nav.Document.Line(c.nav.Selection)
	if !ok || !line.IsLink() {
		return nil
	}

	target, err := gemurl.Resolve(c.nav.Current, line.Target)
	switch {
	case errors.Is(err, gemurl.ErrUnsupportedScheme):
		c.log.Info("not following foreign link", "target", target.String())
		if err := c.showMessage("Non-Gemini:"+truncate(target.String(), c.opts.Viewport.Cols-15), c.opts.MessageHold); err != nil {
			return err
		}
		return c.render(true)
	case err != nil:
		c.log.Info("invalid link", "target", line.Target, "err", err)
		if err := c.showMessage("Invalid URL?", c.opts.MessageHold); err != nil {
			return err
		}
		return c.render(true)
	}

	c.pushHistory(c.nav.Current)
	c.nav.Current = target
	c.setState(StateFetching)
	return nil
}

func (c *Controller) pushHistory(u gemurl.URL) {
	c.nav.History = append(c.nav.History, u)
	if c.opts.HistoryLimit > 0 && len(c.nav.History) > c.opts.HistoryLimit {
		c.nav.History = slices.Delete(c.nav.History, 0, len(c.nav.History)-c.opts.HistoryLimit)
	}
}

func (c *Controller) popHistory() gemurl.URL {
	last := len(c.nav.History) - 1
	u := c.nav.History[last]
	c.nav.History = c.nav.History[:last]
	return u
}

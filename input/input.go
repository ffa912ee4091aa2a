// Package input turns raw terminal bytes into the four navigation buttons.
package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Button is a recognised press.
type Button int

const (
	None Button = iota
	Up
	Down
	Back
	Select
	Quit
)

func (b Button) String() string {
	switch b {
	case Up:
		return "up"
	case Down:
		return "down"
	case Back:
		return "back"
	case Select:
		return "select"
	case Quit:
		return "quit"
	}
	return "none"
}

// Keymap lists, per button, the single-byte keys that press it. Arrow keys
// are always recognised in addition: up/down, left is back, right selects.
type Keymap struct {
	Up     string
	Down   string
	Back   string
	Select string
	Quit   string
}

// DefaultKeymap returns vi-style bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Up:     "k",
		Down:   "j",
		Back:   "h\x7f", // h, Backspace
		Select: "l\r",   // l, Enter
		Quit:   "q\x03", // q, Ctrl-C
	}
}

// Decode maps one read from the terminal to a button.
func (k Keymap) Decode(b []byte) Button {
	if len(b) == 0 {
		return None
	}

	// Arrow keys: ESC [ A-D, or ESC O A-D in application cursor mode.
	if b[0] == 27 {
		if len(b) >= 3 && (b[1] == '[' || b[1] == 'O') {
			switch b[2] {
			case 'A':
				return Up
			case 'B':
				return Down
			case 'C':
				return Select
			case 'D':
				return Back
			}
		}
		return None
	}

	c := string(b[:1])
	switch {
	case strings.Contains(k.Up, c):
		return Up
	case strings.Contains(k.Down, c):
		return Down
	case strings.Contains(k.Back, c):
		return Back
	case strings.Contains(k.Select, c):
		return Select
	case strings.Contains(k.Quit, c):
		return Quit
	}
	return None
}

// Source polls a byte stream for button presses. After every recognised
// press it waits out the debounce interval so that a held key or a burst
// of repeats does not skip through the page.
type Source struct {
	r        io.Reader
	keys     Keymap
	debounce time.Duration
	sleep    func(time.Duration)
	buf      []byte
}

// NewSource reads presses from r. In raw mode with VMIN=0/VTIME=1 each
// read returns within a tenth of a second, so Poll doubles as the tick.
func NewSource(r io.Reader, keys Keymap, debounce time.Duration) *Source {
	return &Source{
		r:        r,
		keys:     keys,
		debounce: debounce,
		sleep:    time.Sleep,
		buf:      make([]byte, 3),
	}
}

// Poll performs one read and returns the button it decodes to, or None.
// io.EOF is returned once the stream is exhausted.
func (s *Source) Poll(ctx context.Context) (Button, error) {
	if err := ctx.Err(); err != nil {
		return None, err
	}

	n, err := s.r.Read(s.buf)
	b := s.keys.Decode(s.buf[:n])
	if b != None && s.debounce > 0 {
		s.sleep(s.debounce)
	}
	if err != nil && (b == None || !errors.Is(err, io.EOF)) {
		return b, err
	}
	return b, nil
}

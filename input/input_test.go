package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	k := DefaultKeymap()
	tests := []struct {
		name string
		in   string
		want Button
	}{
		{"up arrow", "\x1b[A", Up},
		{"down arrow", "\x1b[B", Down},
		{"right arrow", "\x1b[C", Select},
		{"left arrow", "\x1b[D", Back},
		{"app mode arrow", "\x1bOB", Down},
		{"bare escape", "\x1b", None},
		{"k", "k", Up},
		{"j", "j", Down},
		{"h", "h", Back},
		{"backspace", "\x7f", Back},
		{"enter", "\r", Select},
		{"q", "q", Quit},
		{"ctrl-c", "\x03", Quit},
		{"unbound", "x", None},
		{"empty", "", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.Decode([]byte(tt.in)); got != tt.want {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestDecodeCustomKeymap(t *testing.T) {
	k := Keymap{Up: "w", Down: "s", Back: "a", Select: "d", Quit: "x"}
	if got := k.Decode([]byte("d")); got != Select {
		t.Errorf("got %v, expected select", got)
	}
	if got := k.Decode([]byte("j")); got != None {
		t.Errorf("got %v, expected default binding to be gone", got)
	}
	if got := k.Decode([]byte("\x1b[A")); got != Up {
		t.Errorf("got %v, expected arrows to keep working", got)
	}
}

// chunkReader returns one queued chunk per Read.
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	c := r.chunks[0]
	r.chunks = r.chunks[1:]
	return copy(p, c), nil
}

func TestSourceDebounce(t *testing.T) {
	r := &chunkReader{chunks: []string{"j", "", "x", "\x1b[A"}}
	s := NewSource(r, DefaultKeymap(), 200*time.Millisecond)
	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	var got []Button
	for {
		b, err := s.Poll(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, b)
	}

	want := []Button{Down, None, None, Up}
	if len(got) != len(want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("poll %d: got %v, expected %v", i, got[i], want[i])
		}
	}
	if len(slept) != 2 {
		t.Errorf("got %d debounce waits, expected one per recognised press (2)", len(slept))
	}
}

func TestSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSource(strings.NewReader("j"), DefaultKeymap(), 0)
	if _, err := s.Poll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, expected context.Canceled", err)
	}
}

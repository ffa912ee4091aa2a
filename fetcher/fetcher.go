// Package fetcher performs gemini requests: one request line out, one
// status line and a size-capped body back.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"

	"gemview/gemurl"
	"gemview/logger"
)

var (
	// ErrConnect covers DNS, dial and TLS handshake failures.
	ErrConnect = errors.New("connect failed")
	// ErrTransport covers failures after the connection is up.
	ErrTransport = errors.New("transport failure")
	// ErrStatus is carried by non-success responses.
	ErrStatus = errors.New("non-success status")
	// ErrTooLarge is carried by responses whose body exceeds the ceiling.
	ErrTooLarge = errors.New("body exceeds size limit")
)

// Options configures a Client.
type Options struct {
	Port         int
	Timeout      time.Duration // connect and per-read timeout
	MaxBodyBytes int
	ChunkSize    int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Port:         1965,
		Timeout:      20 * time.Second,
		MaxBodyBytes: 64 * 1024,
		ChunkSize:    512,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Port > 0 {
		d.Port = o.Port
	}
	if o.Timeout > 0 {
		d.Timeout = o.Timeout
	}
	if o.MaxBodyBytes > 0 {
		d.MaxBodyBytes = o.MaxBodyBytes
	}
	if o.ChunkSize > 0 {
		d.ChunkSize = o.ChunkSize
	}
	return d
}

// Kind classifies a fetch outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindNonSuccess
	KindTooLarge
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNonSuccess:
		return "non-success"
	case KindTooLarge:
		return "too-large"
	case KindFailure:
		return "failure"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status is a parsed response header: "20 text/gemini".
type Status struct {
	Code string
	Meta string
}

// ParseStatus splits a status line into its code and meta text.
func ParseStatus(line string) Status {
	code, meta, _ := strings.Cut(line, " ")
	return Status{Code: code, Meta: strings.TrimSpace(meta)}
}

func (s Status) String() string {
	if s.Meta == "" {
		return s.Code
	}
	return s.Code + " " + s.Meta
}

// IsSuccess reports whether the status is in the 2x range.
func (s Status) IsSuccess() bool {
	return strings.HasPrefix(s.Code, "2")
}

// Result is the outcome of one fetch. Status is nil only for KindFailure.
// Body is set only for KindSuccess.
type Result struct {
	Kind   Kind
	Status *Status
	Body   string
	Err    error
}

// Client fetches gemini URLs over a Transport.
type Client struct {
	transport Transport
	opts      Options
	log       *slog.Logger
}

// New creates a client. Zero-valued options fall back to DefaultOptions.
func New(t Transport, opts Options) *Client {
	return &Client{
		transport: t,
		opts:      opts.withDefaults(),
		log:       logger.Component("fetcher"),
	}
}

// Options returns the effective options.
func (c *Client) Options() Options {
	return c.opts
}

// Fetch requests u and reads the response.
func (c *Client) Fetch(ctx context.Context, u gemurl.URL) Result {
	reqID := uuid.NewString()
	start := time.Now()
	c.log.Info("fetch", "req", reqID, "url", u.String())

	res := fetch(ctx, u, c.transport, c.opts)

	attrs := []any{"req", reqID, "kind", res.Kind.String(), "bytes", len(res.Body), "elapsed", time.Since(start)}
	if res.Status != nil {
		attrs = append(attrs, "status", res.Status.String())
	}
	if res.Err != nil {
		c.log.Warn("fetch failed", append(attrs, "err", res.Err)...)
	} else {
		c.log.Info("fetch done", attrs...)
	}
	return res
}

// Fetch is a one-shot fetch with default options and the given body ceiling.
func Fetch(ctx context.Context, u gemurl.URL, t Transport, maxBodyBytes int) Result {
	return New(t, Options{MaxBodyBytes: maxBodyBytes}).Fetch(ctx, u)
}

func fetch(ctx context.Context, u gemurl.URL, t Transport, opts Options) Result {
	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	stream, err := t.Connect(connectCtx, u.Host, opts.Port)
	if err != nil {
		if !errors.Is(err, ErrConnect) {
			err = fmt.Errorf("%w: %v", ErrConnect, err)
		}
		return Result{Kind: KindFailure, Err: err}
	}
	defer stream.Close()

	// The literal URL text goes on the wire, not a re-serialised form.
	if _, err := stream.Write([]byte(u.String() + "\r\n")); err != nil {
		return Result{Kind: KindFailure, Err: fmt.Errorf("%w: writing request: %v", ErrTransport, err)}
	}

	header, err := stream.ReadLine()
	if err != nil && !(errors.Is(err, io.EOF) && len(header) > 0) {
		return Result{Kind: KindFailure, Err: fmt.Errorf("%w: reading status: %w", ErrTransport, err)}
	}
	status := ParseStatus(decodeHeader(header))

	// Unread body bytes are dropped when the deferred Close runs.
	if !status.IsSuccess() {
		return Result{Kind: KindNonSuccess, Status: &status, Err: fmt.Errorf("%w: %s", ErrStatus, status)}
	}

	var body []byte
	for {
		chunk, err := stream.ReadChunk(opts.ChunkSize)
		if len(chunk) > 0 {
			if len(body)+len(chunk) > opts.MaxBodyBytes {
				return Result{
					Kind:   KindTooLarge,
					Status: &status,
					Err:    fmt.Errorf("%w: more than %d bytes", ErrTooLarge, opts.MaxBodyBytes),
				}
			}
			body = append(body, chunk...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{Kind: KindFailure, Err: fmt.Errorf("%w: reading body: %w", ErrTransport, err)}
		}
	}

	return Result{Kind: KindSuccess, Status: &status, Body: decodeBody(body)}
}

// decodeHeader decodes the status line as UTF-8, dropping invalid sequences.
func decodeHeader(b []byte) string {
	s := strings.ToValidUTF8(string(b), "")
	return strings.TrimRight(s, " \t\r\n")
}

// decodeBody decodes UTF-8, falling back to Latin-1 so that any byte
// sequence decodes.
func decodeBody(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	// Every byte is a Latin-1 code point, so this cannot fail.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}

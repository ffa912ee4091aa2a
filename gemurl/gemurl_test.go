package gemurl

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		host string
		path string
	}{
		{"root", "gemini://example.org/", "example.org", "/"},
		{"nested", "gemini://example.org/a/b.gmi", "example.org", "/a/b.gmi"},
		{"port kept in host", "gemini://example.org:1966/x", "example.org:1966", "/x"},
		{"query kept in path", "gemini://h/search?q", "h", "/search?q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Scheme != "gemini" {
				t.Errorf("scheme: got %q, expected %q", u.Scheme, "gemini")
			}
			if u.Host != tt.host {
				t.Errorf("host: got %q, expected %q", u.Host, tt.host)
			}
			if u.Path != tt.path {
				t.Errorf("path: got %q, expected %q", u.Path, tt.path)
			}
			if u.String() != tt.raw {
				t.Errorf("string: got %q, expected %q", u.String(), tt.raw)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"no path slash", "gemini://example.org", ErrMalformed},
		{"plain word", "hello", ErrMalformed},
		{"empty host", "gemini:///x", ErrMalformed},
		{"http", "https://example.org/", ErrUnsupportedScheme},
		{"gopher", "gopher://example.org/1/", ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, expected %v", err, tt.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Raw != tt.raw {
				t.Errorf("expected ParseError carrying %q, got %#v", tt.raw, err)
			}
		})
	}
}

func TestParseUnsupportedKeepsParts(t *testing.T) {
	u, err := Parse("https://example.org/page")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected unsupported scheme, got %v", err)
	}
	if u.Host != "example.org" || u.Scheme != "https" {
		t.Errorf("got %+v", u)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"directory relative", "gemini://h/a/b", "c", "gemini://h/a/c"},
		{"root relative", "gemini://h/a/b", "/c", "gemini://h/c"},
		{"root relative from root", "gemini://h/", "/c", "gemini://h/c"},
		{"absolute unchanged", "gemini://h/a/b", "gemini://x/y", "gemini://x/y"},
		{"relative from root", "gemini://h/", "c", "gemini://h/c"},
		{"relative from top-level file", "gemini://h/index.gmi", "c", "gemini://h/c"},
		{"trailing slash directory", "gemini://h/a/b/", "c", "gemini://h/a/b/c"},
		{"dot segments passed through", "gemini://h/a/b", "../c", "gemini://h/a/../c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(MustParse(tt.base), tt.ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, expected %q", got.String(), tt.want)
			}
		})
	}
}

func TestResolveForeignScheme(t *testing.T) {
	got, err := Resolve(MustParse("gemini://h/a"), "proto://x/y")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected unsupported scheme, got %v", err)
	}
	if got.String() != "proto://x/y" {
		t.Errorf("got %q, expected reference unchanged", got.String())
	}
}

func TestResolveMalformedAbsolute(t *testing.T) {
	if _, err := Resolve(MustParse("gemini://h/"), "gemini://x"); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, expected ErrMalformed", err)
	}
}

func TestResolveNeverDropsHost(t *testing.T) {
	if _, err := Resolve(URL{}, "c"); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, expected ErrMalformed for hostless base", err)
	}
}

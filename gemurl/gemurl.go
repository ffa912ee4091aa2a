// Package gemurl parses gemini:// URLs and resolves link references
// against the URL of the page they appear on.
package gemurl

import (
	"errors"
	"fmt"
	"strings"
)

// Scheme is the prefix a navigable URL's scheme must start with.
const Scheme = "gemini"

var (
	// ErrMalformed is returned for text that is not scheme://host/path.
	ErrMalformed = errors.New("malformed url")
	// ErrUnsupportedScheme is returned for well-formed URLs of another protocol.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// ParseError records the text that failed to parse and why.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// URL is a parsed gemini URL. Raw holds the exact text it was parsed from,
// which is what goes on the wire.
type URL struct {
	Raw    string
	Scheme string // without the trailing ':'
	Host   string
	Path   string // always starts with "/"
}

// String returns the literal text the URL was parsed from.
func (u URL) String() string {
	if u.Raw != "" {
		return u.Raw
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// Parse splits raw into scheme, host and path.
//
// The text must have the form scheme://host/path; a bare "scheme://host"
// without the slash after the host is rejected. Schemes that do not start
// with "gemini" yield ErrUnsupportedScheme together with the decomposed URL,
// so callers can still report where a foreign link points.
func Parse(raw string) (URL, error) {
	parts := strings.SplitN(raw, "/", 4)
	if len(parts) < 4 {
		return URL{}, &ParseError{Raw: raw, Err: ErrMalformed}
	}

	scheme := strings.TrimSuffix(parts[0], ":")
	host := parts[2]
	if scheme == "" || host == "" {
		return URL{}, &ParseError{Raw: raw, Err: ErrMalformed}
	}

	u := URL{
		Raw:    raw,
		Scheme: scheme,
		Host:   host,
		Path:   "/" + parts[3],
	}

	if !strings.HasPrefix(scheme, Scheme) {
		return u, &ParseError{Raw: raw, Err: ErrUnsupportedScheme}
	}
	return u, nil
}

// MustParse is like Parse but panics on error. For constants and tests.
func MustParse(raw string) URL {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// Resolve resolves ref against base.
//
//	"proto://x/y"  absolute, parsed as is
//	"/c"           root-relative: scheme://host/c
//	"c"            directory-relative: base path up to its last '/', then c
func Resolve(base URL, ref string) (URL, error) {
	if strings.Contains(ref, "://") {
		return Parse(ref)
	}
	if base.Host == "" {
		return URL{}, &ParseError{Raw: ref, Err: ErrMalformed}
	}

	hostPart := base.Scheme + "://" + base.Host
	pathPart := base.Path
	if pathPart == "" {
		pathPart = "/"
	}

	if strings.HasPrefix(ref, "/") {
		return Parse(hostPart + ref)
	}

	last := strings.LastIndex(pathPart, "/")
	if last <= 0 {
		return Parse(hostPart + "/" + ref)
	}
	return Parse(hostPart + pathPart[:last+1] + ref)
}

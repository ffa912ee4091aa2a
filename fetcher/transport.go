package fetcher

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/idna"
)

// maxStatusLine is "NN " plus a 1024-byte meta plus CRLF.
const maxStatusLine = 2 + 1 + 1024 + 2

var errStatusTooLong = errors.New("status line too long")

// Transport opens encrypted byte streams.
type Transport interface {
	Connect(ctx context.Context, host string, port int) (Stream, error)
}

// Stream is one connected request/response exchange.
type Stream interface {
	Write(p []byte) (int, error)
	// ReadLine returns bytes up to and including the next '\n'.
	ReadLine() ([]byte, error)
	// ReadChunk returns at most max bytes, or io.EOF once the peer is done.
	ReadChunk(max int) ([]byte, error)
	Close() error
}

// TLSTransport dials TCP and wraps the connection in TLS. Certificates are
// not verified: gemini capsules are overwhelmingly self-signed.
type TLSTransport struct {
	Timeout time.Duration
}

// NewTLSTransport returns a transport with the given connect/read timeout.
func NewTLSTransport(timeout time.Duration) *TLSTransport {
	return &TLSTransport{Timeout: timeout}
}

// Connect dials host:port. A port embedded in host ("h:1966") wins over port.
func (t *TLSTransport) Connect(ctx context.Context, host string, port int) (Stream, error) {
	name := host
	if h, p, err := net.SplitHostPort(host); err == nil {
		name = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return nil, fmt.Errorf("%w: host %q: %v", ErrConnect, name, err)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultOptions().Timeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(ascii, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	tlsConn := tls.Client(conn, &tls.Config{
		ServerName:         ascii,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	})
	tlsConn.SetDeadline(time.Now().Add(timeout))
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: tls handshake: %v", ErrConnect, err)
	}

	return &tlsStream{
		conn:    tlsConn,
		r:       bufio.NewReaderSize(tlsConn, maxStatusLine),
		timeout: timeout,
	}, nil
}

type tlsStream struct {
	conn    *tls.Conn
	r       *bufio.Reader
	timeout time.Duration
}

func (s *tlsStream) Write(p []byte) (int, error) {
	s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	return s.conn.Write(p)
}

func (s *tlsStream) ReadLine() ([]byte, error) {
	s.conn.SetReadDeadline(time.Now().Add(s.timeout))
	line, err := s.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, errStatusTooLong
	}
	out := make([]byte, len(line))
	copy(out, line)
	return out, normalizeEOF(err)
}

func (s *tlsStream) ReadChunk(max int) ([]byte, error) {
	s.conn.SetReadDeadline(time.Now().Add(s.timeout))
	buf := make([]byte, max)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	return nil, normalizeEOF(err)
}

func (s *tlsStream) Close() error {
	return s.conn.Close()
}

// Many servers close the TCP connection without a TLS close_notify; that
// is the normal end of a response, not a failure.
func normalizeEOF(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}

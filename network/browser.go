package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/anisan-cli/anibridge/constant"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// BrowserTransport presents a Chrome 120 TLS ClientHello. It negotiates h2 first
// and falls back to HTTP/1.1 when the server refuses it.
type BrowserTransport struct {
	dialTimeout time.Duration
	h2          *http2.Transport
	h1          *http.Transport
	plain       http.RoundTripper
}

// NewBrowserTransport builds a transport whose TLS handshakes look like Chrome's.
func NewBrowserTransport(dialTimeout time.Duration) *BrowserTransport {
	t := &BrowserTransport{dialTimeout: dialTimeout, plain: newTransport()}
	t.h2 = &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return t.dial(ctx, network, addr, nil)
		},
	}
	t.h1 = &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return t.dial(ctx, network, addr, []string{"http/1.1"})
		},
	}
	return t
}

// NewBrowserClient wraps NewBrowserTransport in a client with the given overall timeout.
func NewBrowserClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: NewBrowserTransport(timeout)}
}

// RoundTrip implements http.RoundTripper.
func (t *BrowserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	}

	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, err
		}
		retry.Body = body
	}

	resp, h1Err := t.h1.RoundTrip(retry)
	if h1Err != nil {
		return nil, fmt.Errorf("browser transport: h2: %v, http/1.1: %w", err, h1Err)
	}
	return resp, nil
}

func (t *BrowserTransport) dial(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: t.dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// fingerprintTransport sends https requests over uTLS connections carrying the
// Chrome 120 Client Hello. HTTP/2 is attempted first; when the handshake or the
// h2 exchange fails the request is replayed over HTTP/1.1.
type fingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func newFingerprintTransport(timeout time.Duration) *fingerprintTransport {
	dialer := &net.Dialer{Timeout: timeout}

	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, dialer, network, addr, nil)
			},
		},
		h1: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: timeout,
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChrome(ctx, dialer, network, addr, []string{"http/1.1"})
			},
		},
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, err
		}

		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}

	return t.h1.RoundTrip(retry)
}

// dialChrome opens a TLS connection whose handshake matches Chrome 120.
// A non-nil protos overrides the advertised ALPN list.
func dialChrome(ctx context.Context, dialer *net.Dialer, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

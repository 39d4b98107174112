// Package network provides the HTTP plumbing shared by every provider adapter:
// a tuned client, an optional browser TLS fingerprint and a cookie-aware session.
package network

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole request including reading the body.
const DefaultTimeout = 30 * time.Second

// NewClient returns a client with tuned connection pooling.
// When fingerprint is set, TLS handshakes mimic a desktop Chrome browser.
func NewClient(timeout time.Duration, fingerprint bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var transport http.RoundTripper = newTransport(timeout)
	if fingerprint {
		transport = newFingerprintTransport(timeout)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport(timeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 20
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = timeout
	t.ExpectContinueTimeout = time.Second
	return t
}

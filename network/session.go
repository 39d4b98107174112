package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/util"
	"golang.org/x/net/publicsuffix"
)

// errorBodyLimit caps how much of a failed response is kept in HTTPStatusError.
const errorBodyLimit = 512

// Session is an HTTP client with a cookie jar and default headers, shared by
// every request a provider adapter makes during one run.
type Session struct {
	client *http.Client
	header http.Header
}

// Option configures a Session.
type Option func(*Session)

// WithClient replaces the underlying HTTP client. The session's jar is installed on it.
func WithClient(client *http.Client) Option {
	return func(s *Session) {
		s.client = client
	}
}

// WithDefaultHeader adds a header sent with every request.
func WithDefaultHeader(name, value string) Option {
	return func(s *Session) {
		s.header.Set(name, value)
	}
}

// NewSession creates a session with an empty cookie jar.
func NewSession(options ...Option) *Session {
	s := &Session{
		client: NewClient(DefaultTimeout, false),
		header: make(http.Header),
	}
	s.header.Set("User-Agent", constant.UserAgent)
	s.header.Set("Accept", "application/json, text/plain, */*")

	for _, option := range options {
		option(s)
	}

	jar := lo.Must(cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}))
	client := *s.client
	client.Jar = jar
	s.client = &client

	return s
}

// FromConfig creates a session honouring the network.* configuration keys.
func FromConfig() *Session {
	timeout := time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second
	client := NewClient(timeout, viper.GetBool(key.NetworkFingerprint))

	options := []Option{WithClient(client)}
	if ua := viper.GetString(key.NetworkUserAgent); ua != "" {
		options = append(options, WithDefaultHeader("User-Agent", ua))
	}

	return NewSession(options...)
}

// Header exposes the default headers for adapters that authenticate once per session.
func (s *Session) Header() http.Header {
	return s.header
}

// SetCookies stores cookies for the given URL in the session jar.
func (s *Session) SetCookies(rawURL string, cookies ...*http.Cookie) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	s.client.Jar.SetCookies(u, cookies)
	return nil
}

// Cookie returns the value of a cookie the jar would send to rawURL.
func (s *Session) Cookie(rawURL, name string) mo.Option[string] {
	u, err := url.Parse(rawURL)
	if err != nil {
		return mo.None[string]()
	}

	for _, cookie := range s.client.Jar.Cookies(u) {
		if cookie.Name == name {
			return mo.Some(cookie.Value)
		}
	}
	return mo.None[string]()
}

// RequestOption adjusts a single request.
type RequestOption func(*http.Request)

// Query merges values into the request URL query.
func Query(values url.Values) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		for k, vs := range values {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
}

// Header sets a header on a single request, overriding session defaults.
func Header(name, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(name, value)
	}
}

// Do performs a request and returns the full response body.
// Non-2xx responses become *HTTPStatusError.
func (s *Session) Do(ctx context.Context, method, rawURL string, body io.Reader, options ...RequestOption) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header = s.header.Clone()
	for _, option := range options {
		option(req)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{
			Method:     method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       string(data[:min(len(data), errorBodyLimit)]),
		}
	}

	return data, nil
}

// Get fetches rawURL.
func (s *Session) Get(ctx context.Context, rawURL string, options ...RequestOption) ([]byte, error) {
	return s.Do(ctx, http.MethodGet, rawURL, nil, options...)
}

// Post sends body with the given content type and returns the response bytes unchanged.
func (s *Session) Post(ctx context.Context, rawURL, contentType string, body []byte, options ...RequestOption) ([]byte, error) {
	options = append([]RequestOption{Header("Content-Type", contentType)}, options...)
	return s.Do(ctx, http.MethodPost, rawURL, bytes.NewReader(body), options...)
}

// GetJSON fetches rawURL and decodes the JSON body into out.
func (s *Session) GetJSON(ctx context.Context, rawURL string, out any, options ...RequestOption) error {
	data, err := s.Get(ctx, rawURL, options...)
	if err != nil {
		return err
	}

	return decode(rawURL, data, out)
}

// PostJSON encodes payload as JSON, posts it and decodes the JSON answer into out.
// A nil out discards the answer.
func (s *Session) PostJSON(ctx context.Context, rawURL string, payload, out any, options ...RequestOption) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	data, err := s.Post(ctx, rawURL, "application/json", body, options...)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	return decode(rawURL, data, out)
}

func decode(rawURL string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// Package scripture is the HTTP client for the external scripture service:
// mood suggestions, verse content, devotion generation and privacy updates.
package scripture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CSRFHeader carries the anti-forgery token on every request.
const CSRFHeader = "X-CSRFToken"

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// TokenSource supplies the anti-forgery token. Obtaining it is the caller's
// job; the client only attaches it.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields tok.
func StaticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

// Endpoints are the service paths relative to the base URL. Privacy is a
// format string taking the devotion id.
type Endpoints struct {
	Suggest      string
	VerseContent string
	Generate     string
	Privacy      string
	BulkPrivacy  string
	Devotions    string
}

// DefaultEndpoints returns the paths served by the journaling backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Suggest:      "/api/suggest-verses/",
		VerseContent: "/api/verse-content/",
		Generate:     "/api/generate-devotion/",
		Privacy:      "/api/devotions/%d/privacy/",
		BulkPrivacy:  "/api/devotions/bulk-privacy/",
		Devotions:    "/api/devotions/",
	}
}

// Options configure a Client.
type Options struct {
	BaseURL    string
	Token      TokenSource
	HTTPClient *http.Client
	Endpoints  *Endpoints
	Logger     *zerolog.Logger
}

// Client talks to the scripture service. It never retries; retry is a user
// action that re-triggers the same operation.
type Client struct {
	base      *url.URL
	token     TokenSource
	http      *http.Client
	endpoints Endpoints
	log       zerolog.Logger
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("scripture: base url required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("scripture: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("scripture: base url %q must be absolute", opts.BaseURL)
	}
	c := &Client{
		base:      base,
		token:     opts.Token,
		http:      opts.HTTPClient,
		endpoints: DefaultEndpoints(),
		log:       zerolog.Nop(),
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if opts.Endpoints != nil {
		c.endpoints = *opts.Endpoints
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "scripture").Logger()
	}
	return c, nil
}

// response is one settled HTTP exchange.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do performs one request. Transport failures are returned as plain errors for
// the caller to classify.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload any) (response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return response{}, fmt.Errorf("parse path %q: %w", path, err)
	}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return response{}, fmt.Errorf("anti-forgery token: %w", err)
		}
		if tok != "" {
			req.Header.Set(CSRFHeader, tok)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("op", op).Err(err).Msg("request failed")
		return response{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return response{}, fmt.Errorf("read %s response: %w", op, err)
	}
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", u.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("request settled")
	return response{status: resp.StatusCode, body: b}, nil
}

// envelope covers the fields every service payload may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (e envelope) text() string {
	for _, s := range []string{e.Message, e.Error, e.Detail} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

// payloadMessage recovers a human-readable message from an error body.
func payloadMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.text()
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

func isJSON(body []byte) bool {
	return json.Valid(bytes.TrimSpace(body)) && len(bytes.TrimSpace(body)) > 0
}

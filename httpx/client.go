package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// JSONResponse is a decoded response. Body is nil when the server sent JSON null.
type JSONResponse struct {
	Status  int
	Headers map[string]string
	Body    map[string]any
}

type Client struct {
	httpClient *http.Client

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string
	maxBody        int64

	requestID RequestIDConfig
	logger    *slog.Logger

	before []BeforeHook
	after  []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) *Client {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) *Client {
	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	// Clone headers to avoid caller mutation.
	hdr := make(http.Header)
	for k, vv := range cfg.DefaultHeaders {
		for _, v := range vv {
			hdr.Add(k, v)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		httpClient:     &http.Client{Transport: rt},
		timeout:        cfg.Timeout,
		defaultHeaders: hdr,
		userAgent:      cfg.UserAgent,
		maxBody:        maxBody,
		requestID:      cfg.RequestID,
		logger:         logger,
	}
	if c.requestID.New == nil && c.requestID.Header != "" {
		c.requestID.New = DefaultRequestID
	}
	c.after = append(c.after, LogHook(logger, c.requestID.Header))
	return c
}

// WithHooks adds hooks. Call this during initialization (before the client is used concurrently).
func (c *Client) WithHooks(before []BeforeHook, after []AfterHook) *Client {
	c.before = append(c.before, before...)
	c.after = append(c.after, after...)
	return c
}

// Execute performs exactly one round trip and decodes the body as a JSON object.
// It blocks until the response body has been read or req's context is done.
// Non-2xx responses are not errors: the status is reported in JSONResponse.
func (c *Client) Execute(req *http.Request) (*JSONResponse, error) {
	if req == nil {
		return nil, &TransportError{Kind: TransportNetworkFailure, Cause: errors.New("nil request")}
	}

	ctx := req.Context()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req = req.Clone(ctx)
	c.prepare(req)

	rid := ""
	if c.requestID.Header != "" {
		rid = req.Header.Get(c.requestID.Header)
	}
	fail := func(kind TransportErrorKind, status int, cause error) error {
		return &TransportError{
			Kind:       kind,
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: status,
			RequestID:  rid,
			Cause:      cause,
		}
	}

	for _, h := range c.before {
		if h == nil {
			continue
		}
		if err := h(req); err != nil {
			return nil, fail(TransportNetworkFailure, 0, err)
		}
	}

	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(t0)

	for _, h := range c.after {
		if h != nil {
			h(req, resp, err, dur)
		}
	}

	if err != nil {
		return nil, fail(TransportNetworkFailure, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fail(TransportNetworkFailure, resp.StatusCode, err)
	}
	if int64(len(raw)) > c.maxBody {
		return nil, fail(TransportInvalidJSON, resp.StatusCode, fmt.Errorf("response body exceeds %d bytes", c.maxBody))
	}

	body, err := decodeObject(raw)
	if err != nil {
		return nil, fail(TransportInvalidJSON, resp.StatusCode, err)
	}

	return &JSONResponse{
		Status:  resp.StatusCode,
		Headers: flattenHeader(resp.Header),
		Body:    body,
	}, nil
}

func (c *Client) prepare(req *http.Request) {
	ctx := req.Context()
	for k, vv := range c.defaultHeaders {
		if req.Header.Get(k) != "" || suppressed(ctx, k) {
			continue
		}
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" && !suppressed(ctx, "Accept") {
		req.Header.Set("Accept", "application/json")
	}
	if suppressed(ctx, "User-Agent") {
		// A present but empty key keeps net/http from sending its own.
		req.Header["User-Agent"] = nil
	} else if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	rh := c.requestID.Header
	if rh != "" && req.Header.Get(rh) == "" && !suppressed(ctx, rh) && c.requestID.New != nil {
		if id := strings.TrimSpace(c.requestID.New()); id != "" {
			req.Header.Set(rh, id)
		}
	}
}

// decodeObject decodes a single JSON object (or null). Numbers are kept as json.Number.
func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response body")
		}
		return nil, err
	}
	// Ensure there's no extra non-whitespace payload.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected extra JSON value in response body")
	}
	return body, nil
}

// flattenHeader canonicalizes keys and joins repeated values with ", ".
func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		out[http.CanonicalHeaderKey(k)] = strings.Join(vv, ", ")
	}
	return out
}

package dwolla

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ozbe/dwift/httpx"
)

// API is the surface implemented by Client.
type API interface {
	Send(ctx context.Context, req SendRequest) Response[decimal.Decimal]
	User(ctx context.Context, id string) Response[Entity]
}

// Client is safe for concurrent use. Its host, headers and transport are
// fixed at construction.
type Client struct {
	host    string
	headers map[string]*string
	http    *httpx.Client
	logger  *slog.Logger
}

var _ API = (*Client)(nil)

type Option func(*Client) error

func WithHost(host string) Option {
	return func(c *Client) error {
		h := strings.TrimRight(strings.TrimSpace(host), "/")
		u, err := url.Parse(h)
		if err != nil {
			return err
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.New("dwolla: host must be an absolute url")
		}
		c.host = h
		return nil
	}
}

func WithHTTPClient(hc *httpx.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("dwolla: nil http client")
		}
		c.http = hc
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithHeader adds a header to every call. A nil value suppresses the header.
func WithHeader(key string, value *string) Option {
	return func(c *Client) error {
		c.headers[key] = value
		return nil
	}
}

// New returns a client that authenticates every call with token.
func New(token string, opts ...Option) (*Client, error) {
	c := &Client{
		host: DefaultHost,
		headers: map[string]*string{
			"Authorization": httpx.Header("Bearer " + token),
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.http == nil {
		c.http = httpx.New(httpx.WithLogger(c.logger))
	}
	return c, nil
}

// Send transfers money to another account and returns the amount sent.
func (c *Client) Send(ctx context.Context, req SendRequest) Response[decimal.Decimal] {
	if err := req.Validate(); err != nil {
		return failure[decimal.Decimal]("invalid send request: " + err.Error())
	}
	return Post(ctx, c, SendPath, req.ToJSON(), AmountTransform)
}

// User looks up basic account information.
func (c *Client) User(ctx context.Context, id string) Response[Entity] {
	if strings.TrimSpace(id) == "" {
		return failure[Entity]("invalid user request: id is required")
	}
	return Get(ctx, c, "/users/"+url.PathEscape(id), nil, EntityTransform)
}

// Get calls GET {host}{path} and decodes the envelope payload with transform.
func Get[T any](ctx context.Context, c *Client, path string, params map[string]string, transform Transform[T]) Response[T] {
	return execute(ctx, c, httpx.JSONRequest{
		URL:     c.host + path,
		Method:  httpx.MethodGet,
		Headers: c.headers,
		Params:  params,
	}, transform)
}

// Post calls POST {host}{path} with a JSON body and decodes the envelope payload with transform.
func Post[T any](ctx context.Context, c *Client, path string, body map[string]any, transform Transform[T]) Response[T] {
	if body == nil {
		body = map[string]any{}
	}
	return execute(ctx, c, httpx.JSONRequest{
		URL:     c.host + path,
		Method:  httpx.MethodPost,
		Headers: c.headers,
		Body:    body,
	}, transform)
}

func execute[T any](ctx context.Context, c *Client, jr httpx.JSONRequest, transform Transform[T]) Response[T] {
	req, err := httpx.Build(ctx, jr)
	if err != nil {
		c.logger.Warn("dwolla request not built", "url", jr.URL, "err", err)
		return failure[T](err.Error())
	}
	resp, err := c.http.Execute(req)
	if err != nil {
		c.logger.Warn("dwolla request failed", "method", req.Method, "url", jr.URL, "err", err)
		return failure[T](err.Error())
	}
	out := parse(resp.Body, transform)
	if !out.Success {
		c.logger.Debug("dwolla call unsuccessful", "url", jr.URL, "status", resp.Status, "message", out.Message)
	}
	return out
}

// parse reads the {Success, Message, Response} envelope.
func parse[T any](body map[string]any, transform Transform[T]) Response[T] {
	if body == nil {
		return failure[T](MessageUnknown)
	}
	success, ok := body[KeySuccess].(bool)
	if !ok {
		return failure[T](MessageUnknown)
	}
	message, ok := body[KeyMessage].(string)
	if !ok {
		return failure[T](MessageUnknown)
	}
	// The payload must decode even when the service reports a failure.
	if transform == nil {
		return failure[T](MessageUnknown)
	}
	payload, err := transform(body[KeyResponse])
	if err != nil {
		return failure[T](MessageUnknown)
	}
	if !success {
		return failure[T](message)
	}
	return Response[T]{Success: true, Message: message, Payload: &payload}
}

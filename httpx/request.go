package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// JSONRequest describes an HTTP call independently of net/http.
type JSONRequest struct {
	URL    string
	Method Method

	// Headers are set once per key. A nil value removes the header, and
	// Client.Execute will not add a default for it.
	Headers map[string]*string

	// Params are merged into the URL query.
	Params map[string]string

	// Body is encoded as a JSON object when non-nil.
	Body map[string]any
}

// Header returns a pointer suitable for JSONRequest.Headers.
func Header(v string) *string { return &v }

// Build converts r into a transport-ready request bound to ctx.
// Each call starts from a fresh *http.Request; r is never modified.
func Build(ctx context.Context, r JSONRequest) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	u, err := buildURL(r.URL, r.Params)
	if err != nil {
		return nil, &BuildError{Kind: BuildInvalidURL, URL: r.URL, Cause: err}
	}

	method := strings.ToUpper(strings.TrimSpace(string(r.Method)))
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return nil, &BuildError{Kind: BuildInvalidMethod, URL: r.URL, Cause: errors.New("unsupported method " + strconv.Quote(string(r.Method)))}
	}

	var body []byte
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, &BuildError{Kind: BuildSerializationFailed, URL: r.URL, Cause: err}
		}
		body = b
	}

	var cleared map[string]struct{}
	for k, v := range r.Headers {
		if v == nil {
			if cleared == nil {
				cleared = make(map[string]struct{})
			}
			cleared[http.CanonicalHeaderKey(k)] = struct{}{}
		}
	}
	if cleared != nil {
		ctx = context.WithValue(ctx, suppressedHeadersKey{}, cleared)
	}

	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, &BuildError{Kind: BuildInvalidURL, URL: r.URL, Cause: err}
	}

	for k, v := range r.Headers {
		if v == nil {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, *v)
	}

	if body != nil {
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return req, nil
}

func buildURL(raw string, params map[string]string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("url must be absolute")
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

type suppressedHeadersKey struct{}

// suppressed reports whether Build was asked to drop the header key.
func suppressed(ctx context.Context, key string) bool {
	s, _ := ctx.Value(suppressedHeadersKey{}).(map[string]struct{})
	_, ok := s[http.CanonicalHeaderKey(key)]
	return ok
}

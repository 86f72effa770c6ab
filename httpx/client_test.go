package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestBuild_ContentLengthMatchesBody(t *testing.T) {
	bodies := []map[string]any{
		{},
		{"a": 1},
		{"destinationId": "812-741-6790", "pin": "1234", "amount": json.Number("0.01")},
		{"notes": "héllo wörld ✓", "nested": map[string]any{"k": []any{1, "two", nil}}},
	}
	for i, body := range bodies {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			req, err := Build(context.Background(), JSONRequest{
				URL:    "https://example.com/x",
				Method: MethodPost,
				Body:   body,
			})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			want, _ := json.Marshal(body)
			got, err := io.ReadAll(req.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(got) != string(want) {
				t.Fatalf("body = %s, want %s", got, want)
			}
			if req.ContentLength != int64(len(got)) {
				t.Fatalf("ContentLength = %d, want %d", req.ContentLength, len(got))
			}
			if h := req.Header.Get("Content-Length"); h != strconv.Itoa(len(got)) {
				t.Fatalf("Content-Length header = %q, want %d", h, len(got))
			}
			if ct := req.Header.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("Content-Type = %q", ct)
			}
		})
	}
}

func TestBuild_NoBody(t *testing.T) {
	req, err := Build(context.Background(), JSONRequest{URL: "https://example.com/"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("method = %s, want GET", req.Method)
	}
	if req.Header.Get("Content-Type") != "" {
		t.Fatalf("unexpected Content-Type on bodiless request")
	}
	if req.ContentLength != 0 {
		t.Fatalf("ContentLength = %d", req.ContentLength)
	}
}

func TestBuild_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "   ", "://missing-scheme", "relative/path", "http://[::1"} {
		t.Run(u, func(t *testing.T) {
			_, err := Build(context.Background(), JSONRequest{URL: u})
			if !IsBuildError(err, BuildInvalidURL) {
				t.Fatalf("expected invalid url error, got %v", err)
			}
		})
	}
}

func TestBuild_InvalidMethod(t *testing.T) {
	_, err := Build(context.Background(), JSONRequest{URL: "https://example.com", Method: "DELETE"})
	if !IsBuildError(err, BuildInvalidMethod) {
		t.Fatalf("expected invalid method error, got %v", err)
	}
}

func TestBuild_SerializationFailed(t *testing.T) {
	_, err := Build(context.Background(), JSONRequest{
		URL:    "https://example.com",
		Method: MethodPost,
		Body:   map[string]any{"ch": make(chan int)},
	})
	be, ok := AsBuildError(err)
	if !ok || be.Kind != BuildSerializationFailed {
		t.Fatalf("expected serialization error, got %v", err)
	}
	var ute *json.UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected wrapped *json.UnsupportedTypeError, got %T", be.Cause)
	}
}

func TestBuild_Headers(t *testing.T) {
	req, err := Build(context.Background(), JSONRequest{
		URL: "https://example.com",
		Headers: map[string]*string{
			"authorization": Header("Bearer t"),
			"X-Empty":       nil,
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := req.Header.Values("Authorization"); len(got) != 1 || got[0] != "Bearer t" {
		t.Fatalf("Authorization = %v", got)
	}
	if _, ok := req.Header["X-Empty"]; ok {
		t.Fatalf("nil header must be omitted")
	}
}

func TestBuild_QueryParams(t *testing.T) {
	req, err := Build(context.Background(), JSONRequest{
		URL:    "https://example.com/p?x=1",
		Params: map[string]string{"y": "a b", "z": "&"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := req.URL.RawQuery; got != "x=1&y=a+b&z=%26" {
		t.Fatalf("RawQuery = %q", got)
	}
}

func TestBuild_IndependentCalls(t *testing.T) {
	first, err := Build(context.Background(), JSONRequest{
		URL:     "https://example.com/a",
		Method:  MethodPost,
		Headers: map[string]*string{"X-One": Header("1")},
		Body:    map[string]any{"a": 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(context.Background(), JSONRequest{URL: "https://example.com/b"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if second.Header.Get("X-One") != "" || second.Header.Get("Content-Type") != "" {
		t.Fatalf("state leaked between builds: %v", second.Header)
	}
	if first.URL.Path != "/a" || second.URL.Path != "/b" {
		t.Fatalf("unexpected paths %q %q", first.URL.Path, second.URL.Path)
	}
}

func TestExecute_DecodesObject(t *testing.T) {
	var gotUA, gotRID, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotRID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("content-type", "application/json")
		w.Header().Add("x-multi", "a")
		w.Header().Add("x-multi", "b")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"Success":true,"Message":"ok","Response":0.01}`)
	}))
	t.Cleanup(srv.Close)

	c := New(WithUserAgent("dwift-test/1"))
	req, err := Build(context.Background(), JSONRequest{URL: srv.URL})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	resp, err := c.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Fatalf("status = %d", resp.Status)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Fatalf("headers = %v", resp.Headers)
	}
	if resp.Headers["X-Multi"] != "a, b" {
		t.Fatalf("X-Multi = %q", resp.Headers["X-Multi"])
	}
	if n, ok := resp.Body["Response"].(json.Number); !ok || n.String() != "0.01" {
		t.Fatalf("Response = %#v", resp.Body["Response"])
	}
	if gotUA != "dwift-test/1" {
		t.Fatalf("User-Agent = %q", gotUA)
	}
	if gotRID == "" {
		t.Fatalf("expected generated X-Request-ID")
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q", gotAccept)
	}
}

func TestExecute_InvalidJSON(t *testing.T) {
	for name, payload := range map[string]string{
		"text":  "<html>oops</html>",
		"empty": "",
		"array": "[1,2]",
		"extra": `{"a":1}{"b":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, payload)
			}))
			t.Cleanup(srv.Close)

			req, err := Build(context.Background(), JSONRequest{URL: srv.URL})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			_, err = New().Execute(req)
			if !IsTransportError(err, TransportInvalidJSON) {
				t.Fatalf("expected invalid json error, got %v", err)
			}
		})
	}
}

func TestExecute_NetworkFailure(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	c := New(WithTransport(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})))
	req, err := Build(context.Background(), JSONRequest{URL: "https://dwolla.invalid/x"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = c.Execute(req)
	te, ok := AsTransportError(err)
	if !ok || te.Kind != TransportNetworkFailure {
		t.Fatalf("expected network failure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved: %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("error text should describe the cause: %q", err.Error())
	}
}

func TestExecute_SingleAttempt(t *testing.T) {
	calls := 0
	c := New(WithTransport(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("reset")
	})))
	req, _ := Build(context.Background(), JSONRequest{URL: "https://example.com", Method: MethodPost, Body: map[string]any{}})
	_, _ = c.Execute(req)
	if calls != 1 {
		t.Fatalf("expected exactly one round trip, got %d", calls)
	}
}

func TestExecute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	req, _ := Build(context.Background(), JSONRequest{URL: srv.URL})
	_, err := New(WithTimeout(50 * time.Millisecond)).Execute(req)
	if !IsTransportError(err, TransportNetworkFailure) {
		t.Fatalf("expected timeout as network failure, got %v", err)
	}
}

func TestExecute_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"a":"`+strings.Repeat("x", 100)+`"}`)
	}))
	t.Cleanup(srv.Close)

	req, _ := Build(context.Background(), JSONRequest{URL: srv.URL})
	_, err := New(WithMaxBodyBytes(10)).Execute(req)
	if !IsTransportError(err, TransportInvalidJSON) {
		t.Fatalf("expected oversized body rejection, got %v", err)
	}
}

func TestExecute_DefaultHeadersDoNotOverride(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `null`)
	}))
	t.Cleanup(srv.Close)

	c := New(
		WithDefaultHeader("X-Tenant", "default"),
		WithDefaultHeader("X-Other", "o"),
		WithRequestID(RequestIDConfig{Header: "X-Correlation-ID", New: func() string { return "fixed" }}),
	)
	req, _ := Build(context.Background(), JSONRequest{
		URL:     srv.URL,
		Headers: map[string]*string{"X-Tenant": Header("caller")},
	})
	resp, err := c.Execute(req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Body != nil {
		t.Fatalf("expected nil body for JSON null, got %v", resp.Body)
	}
	if got.Get("X-Tenant") != "caller" || got.Get("X-Other") != "o" {
		t.Fatalf("headers = %v", got)
	}
	if got.Get("X-Correlation-ID") != "fixed" {
		t.Fatalf("X-Correlation-ID = %q", got.Get("X-Correlation-ID"))
	}
	if req.Header.Get("X-Other") != "" {
		t.Fatalf("Execute must not mutate the caller's request")
	}
}

func TestExecute_SuppressedHeadersStayOff(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	c := New(
		WithDefaultHeader("X-Tenant", "default"),
		WithDefaultHeader("X-Other", "o"),
		WithUserAgent("dwift-test/1.0"),
		WithRequestID(RequestIDConfig{Header: "X-Request-ID", New: func() string { return "fixed" }}),
	)
	req, err := Build(context.Background(), JSONRequest{
		URL: srv.URL,
		Headers: map[string]*string{
			"accept":       nil,
			"X-Request-Id": nil,
			"X-Tenant":     nil,
			"User-Agent":   nil,
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := c.Execute(req); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, k := range []string{"Accept", "X-Request-Id", "X-Tenant"} {
		if _, ok := got[k]; ok {
			t.Fatalf("%s must not be sent, got %q", k, got.Get(k))
		}
	}
	if ua := got.Get("User-Agent"); ua == "dwift-test/1.0" || strings.HasPrefix(ua, "Go-http-client") {
		t.Fatalf("User-Agent = %q", ua)
	}
	if got.Get("X-Other") != "o" {
		t.Fatalf("unsuppressed defaults still apply: %v", got)
	}
}

func TestExecute_Hooks(t *testing.T) {
	c := New(WithTransport(RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
			Request:    r,
		}, nil
	})))

	var order []string
	c.WithHooks(
		[]BeforeHook{func(req *http.Request) error { order = append(order, "before"); return nil }},
		[]AfterHook{func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
			order = append(order, "after:"+strconv.Itoa(resp.StatusCode))
		}},
	)
	req, _ := Build(context.Background(), JSONRequest{URL: "https://example.com"})
	if _, err := c.Execute(req); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Join(order, ",") != "before,after:200" {
		t.Fatalf("hook order = %v", order)
	}

	c.WithHooks([]BeforeHook{func(*http.Request) error { return errors.New("blocked") }}, nil)
	_, err := c.Execute(req)
	if !IsTransportError(err, TransportNetworkFailure) {
		t.Fatalf("expected hook error as network failure, got %v", err)
	}
}

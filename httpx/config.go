package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config configures a Client. Use DefaultConfig() as a baseline.
type Config struct {
	// Timeout bounds the single round trip. Zero leaves it to the request context
	// and the transport's own dial/handshake limits.
	Timeout time.Duration

	// Transport is the underlying RoundTripper. If nil, a tuned default is used.
	Transport http.RoundTripper

	// DefaultHeaders are added to every request that does not already carry them.
	DefaultHeaders http.Header

	// UserAgent is set when the request does not already have a User-Agent header.
	UserAgent string

	// MaxBodyBytes limits how much of a response body is read and decoded.
	// If zero, DefaultMaxBodyBytes is used.
	MaxBodyBytes int64

	// RequestID configures correlation id propagation.
	RequestID RequestIDConfig

	// Logger receives request lifecycle logs. Nil discards them.
	Logger *slog.Logger
}

const DefaultMaxBodyBytes int64 = 1 << 20 // 1MiB

// DefaultConfig returns the baseline used by New.
func DefaultConfig() Config {
	return Config{
		Transport:      DefaultTransport(),
		DefaultHeaders: make(http.Header),
		MaxBodyBytes:   DefaultMaxBodyBytes,
		RequestID:      DefaultRequestIDConfig(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

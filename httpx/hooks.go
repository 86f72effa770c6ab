package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// BeforeHook runs right before the round trip. A non-nil error aborts the call
// and is reported as a network failure.
type BeforeHook func(req *http.Request) error

// AfterHook observes the outcome of the round trip. resp is nil when err is set.
type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration)

// LogHook returns an AfterHook that logs one line per call.
// Only method, url, status, duration and request id are logged; bodies and
// headers are left out because they carry credentials.
func LogHook(logger *slog.Logger, requestIDHeader string) AfterHook {
	return func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
		if logger == nil {
			return
		}
		attrs := []any{
			"method", req.Method,
			"url", req.URL.Redacted(),
			"dur", dur,
		}
		if requestIDHeader != "" {
			if id := req.Header.Get(requestIDHeader); id != "" {
				attrs = append(attrs, "request_id", id)
			}
		}
		if err != nil {
			logger.Debug("http request failed", append(attrs, "err", err)...)
			return
		}
		logger.Debug("http request", append(attrs, "status", resp.StatusCode)...)
	}
}

package httpx

import (
	"net"
	"net/http"
	"time"
)

// DefaultTransport returns a clone of http.DefaultTransport with bounded
// dial and handshake times. It does not cap the full response time.
func DefaultTransport() *http.Transport {
	base, _ := http.DefaultTransport.(*http.Transport)
	if base == nil {
		return &http.Transport{}
	}
	t := base.Clone()

	t.DialContext = (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = 10 * time.Second
	t.ExpectContinueTimeout = 1 * time.Second
	t.IdleConnTimeout = 90 * time.Second
	if t.MaxIdleConnsPerHost == 0 {
		t.MaxIdleConnsPerHost = 4
	}
	t.ForceAttemptHTTP2 = true
	return t
}

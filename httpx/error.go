package httpx

import (
	"errors"
	"fmt"
	"strings"
)

type BuildErrorKind int

const (
	BuildInvalidURL BuildErrorKind = iota + 1
	BuildInvalidMethod
	BuildSerializationFailed
)

func (k BuildErrorKind) String() string {
	switch k {
	case BuildInvalidURL:
		return "invalid url"
	case BuildInvalidMethod:
		return "invalid method"
	case BuildSerializationFailed:
		return "serialization failed"
	default:
		return "build failed"
	}
}

// BuildError is returned by Build when a JSONRequest cannot become an *http.Request.
type BuildError struct {
	Kind  BuildErrorKind
	URL   string
	Cause error
}

func (e *BuildError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("httpx: build request: ")
	b.WriteString(e.Kind.String())
	if e.URL != "" {
		b.WriteString(" (")
		b.WriteString(e.URL)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BuildError) Unwrap() error { return e.Cause }

type TransportErrorKind int

const (
	TransportNetworkFailure TransportErrorKind = iota + 1
	TransportInvalidJSON
)

func (k TransportErrorKind) String() string {
	switch k {
	case TransportNetworkFailure:
		return "network failure"
	case TransportInvalidJSON:
		return "invalid json"
	default:
		return "transport failed"
	}
}

// TransportError is returned by Client.Execute.
type TransportError struct {
	Kind   TransportErrorKind
	Method string
	URL    string

	// StatusCode is 0 when no response was received.
	StatusCode int

	RequestID string
	Cause     error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if strings.TrimSpace(e.Method) != "" {
		b.WriteString(strings.ToUpper(strings.TrimSpace(e.Method)))
		b.WriteString(" ")
	}
	if strings.TrimSpace(e.URL) != "" {
		b.WriteString(strings.TrimSpace(e.URL))
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		b.WriteString(fmt.Sprintf(" (http %d)", e.StatusCode))
	}
	if e.RequestID != "" {
		b.WriteString(" request_id=")
		b.WriteString(e.RequestID)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// AsBuildError extracts *BuildError.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// AsTransportError extracts *TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

func IsBuildError(err error, kind BuildErrorKind) bool {
	be, ok := AsBuildError(err)
	return ok && be.Kind == kind
}

func IsTransportError(err error, kind TransportErrorKind) bool {
	te, ok := AsTransportError(err)
	return ok && te.Kind == kind
}

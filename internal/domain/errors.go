package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind is the closed set of failure classes a market-data call can end in.
type ErrorKind string

const (
	ErrKindValidation     ErrorKind = "validation"
	ErrKindUpstreamClient ErrorKind = "upstream_client"
	ErrKindUpstreamServer ErrorKind = "upstream_server"
	ErrKindNetwork        ErrorKind = "network"
	ErrKindParse          ErrorKind = "parse"
)

// Error is the tagged error every layer returns. Callers switch on Kind;
// the remaining fields carry enough context to log the failure without
// re-deriving state.
type Error struct {
	Kind     ErrorKind
	Op       string // operation, e.g. "get_klines"
	Field    string // offending parameter, validation errors only
	URL      string // attempted URL, network-bound errors only
	Status   int    // upstream HTTP status, 0 when none was received
	Attempts int    // attempts made before giving up, 0 before the first request
	Message  string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Field != "" {
		fmt.Fprintf(&b, " (%s)", e.Field)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " (after %d attempts)", e.Attempts)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could change the outcome:
// connectivity failures, upstream 5xx, and rate limiting. Validation and
// parse failures never are, nor are other 4xx responses.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrKindNetwork, ErrKindUpstreamServer:
		return true
	case ErrKindUpstreamClient:
		return e.Status == http.StatusTooManyRequests
	default:
		return false
	}
}

func NewValidationError(field, message string) *Error {
	return &Error{Kind: ErrKindValidation, Field: field, Message: message}
}

// KindOf returns the taxonomy kind of err, or "" if err is not a tagged
// market-data error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessageIncludesContext(t *testing.T) {
	err := &Error{
		Kind:     ErrKindUpstreamServer,
		Op:       "get_klines",
		URL:      "https://api.example.com/klines?symbol=BTCUSDT",
		Status:   503,
		Attempts: 3,
		Message:  "service unavailable",
	}

	msg := err.Error()
	for _, want := range []string{"get_klines", "upstream_server", "503", "3 attempts"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error message %q missing %q", msg, want)
		}
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  *Error
		want bool
	}{
		{&Error{Kind: ErrKindNetwork}, true},
		{&Error{Kind: ErrKindUpstreamServer, Status: 503}, true},
		{&Error{Kind: ErrKindUpstreamClient, Status: 429}, true},
		{&Error{Kind: ErrKindUpstreamClient, Status: 404}, false},
		{&Error{Kind: ErrKindUpstreamClient, Status: 400}, false},
		{&Error{Kind: ErrKindValidation}, false},
		{&Error{Kind: ErrKindParse}, false},
	}
	for _, tc := range cases {
		if got := tc.err.Retryable(); got != tc.want {
			t.Fatalf("Retryable() for kind=%s status=%d: got %v, want %v", tc.err.Kind, tc.err.Status, got, tc.want)
		}
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	inner := NewValidationError("symbol", "symbol is required")
	wrapped := fmt.Errorf("tool failed: %w", inner)

	if got := KindOf(wrapped); got != ErrKindValidation {
		t.Fatalf("expected validation kind, got %q", got)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("expected empty kind for untagged error")
	}
	if !IsKind(wrapped, ErrKindValidation) {
		t.Fatal("IsKind should match through wrapping")
	}
}

func TestIsSupportedInterval(t *testing.T) {
	for _, interval := range SupportedIntervals {
		if !IsSupportedInterval(interval) {
			t.Fatalf("%s should be supported", interval)
		}
	}
	for _, interval := range []string{"", "2m", "7h", "1M ", "1y"} {
		if IsSupportedInterval(interval) {
			t.Fatalf("%q should not be supported", interval)
		}
	}
}

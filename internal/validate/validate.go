// Package validate checks and normalizes caller-supplied market-data
// parameters before any network call is attempted. All functions are pure
// and safe for concurrent use.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"marketlens/internal/domain"
)

// Binance spot pairs are 6-12 uppercase alphanumerics (e.g. BTCUSDT).
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)

// Symbol trims and uppercases raw and checks it against the upstream's
// symbol format. The normalized symbol is returned.
func Symbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", domain.NewValidationError("symbol", "symbol must be a non-empty string")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", domain.NewValidationError("symbol", fmt.Sprintf("invalid symbol format: %s", symbol))
	}
	return symbol, nil
}

// Interval checks membership in the fixed interval set.
func Interval(raw string) (string, error) {
	interval := strings.TrimSpace(raw)
	if interval == "" {
		return "", domain.NewValidationError("interval", "interval must be a non-empty string")
	}
	if !domain.IsSupportedInterval(interval) {
		return "", domain.NewValidationError("interval", fmt.Sprintf(
			"invalid interval: %s (valid intervals: %s)", interval, strings.Join(domain.SupportedIntervals, ", ")))
	}
	return interval, nil
}

// Limit checks that raw is a positive integer no greater than maxAllowed.
// Out-of-range values are rejected, never clamped.
func Limit(raw, maxAllowed int) (int, error) {
	if raw <= 0 {
		return 0, domain.NewValidationError("limit", "limit must be a positive integer")
	}
	if raw > maxAllowed {
		return 0, domain.NewValidationError("limit", fmt.Sprintf("limit cannot exceed %d", maxAllowed))
	}
	return raw, nil
}

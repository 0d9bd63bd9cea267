// Package errdefs defines the error kinds shared by the cache, the brew
// executor, the catalog client, and the resilience layer. Every failure that
// crosses a package boundary wraps one of these sentinels so callers can
// classify it with errors.Is without inspecting message text.
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for structured error handling across the data layer.
var (
	// ErrNotFound indicates a package, tool, or catalog entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates a connection or HTTP-level failure talking to the catalog.
	ErrNetwork = errors.New("network failure")

	// ErrRateLimited indicates the catalog responded with HTTP 429; callers may back off longer.
	ErrRateLimited = errors.New("rate limited")

	// ErrExecution indicates the local tool exited non-zero.
	ErrExecution = errors.New("command execution failed")

	// ErrParsing indicates upstream data had an unexpected shape.
	ErrParsing = errors.New("parsing failed")

	// ErrSerialization indicates a cache value could not be encoded or decoded.
	ErrSerialization = errors.New("serialization failed")

	// ErrTimeout indicates an upstream call exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfig indicates configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrNotFound, args)...)
}

// Networkf wraps ErrNetwork with a formatted message.
func Networkf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrNetwork, args)...)
}

// RateLimitedf wraps ErrRateLimited with a formatted message.
func RateLimitedf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrRateLimited, args)...)
}

// Executionf wraps ErrExecution with a formatted message.
func Executionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrExecution, args)...)
}

// Parsingf wraps ErrParsing with a formatted message.
func Parsingf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrParsing, args)...)
}

// Serializationf wraps ErrSerialization with a formatted message.
func Serializationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrSerialization, args)...)
}

// Timeoutf wraps ErrTimeout with a formatted message.
func Timeoutf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrTimeout, args)...)
}

// InvalidConfigf wraps ErrInvalidConfig with a formatted message.
func InvalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrInvalidConfig, args)...)
}

func prepend(err error, args []any) []any {
	return append([]any{err}, args...)
}

// Retryable reports whether err is a transient failure worth retrying.
// Network errors, rate limiting, and timeouts are transient; execution
// failures and missing packages are not (retrying will not make a missing
// package appear).
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout)
}

// Permanent reports whether err is known to never succeed on retry. Errors
// that wrap none of the sentinels are not permanent; the retry loop treats
// them as transient.
func Permanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExecution) ||
		errors.Is(err, ErrParsing) ||
		errors.Is(err, ErrSerialization) ||
		errors.Is(err, ErrInvalidConfig)
}

// Kind returns a short machine-readable label for the error's sentinel kind,
// or "unknown" when err wraps none of them. Used for structured log fields
// and user-facing messages.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNetwork):
		return "network_failure"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrExecution):
		return "execution_failure"
	case errors.Is(err, ErrParsing):
		return "parsing_failure"
	case errors.Is(err, ErrSerialization):
		return "serialization_failure"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_configuration"
	default:
		return "unknown"
	}
}

var sentinels = []error{
	ErrNotFound, ErrNetwork, ErrRateLimited, ErrExecution,
	ErrParsing, ErrSerialization, ErrTimeout, ErrInvalidConfig,
}

// Message returns the human half of err's text with the leading sentinel
// label stripped. Errors wrapping no sentinel pass through unchanged.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range sentinels {
		if rest, found := strings.CutPrefix(msg, s.Error()+": "); found {
			return rest
		}
	}
	return msg
}

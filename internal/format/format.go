// Package format renders numbers and durations for human-facing output.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Abbreviation thresholds for Downloads.
const (
	millionThreshold = 1_000_000
	billionThreshold = 1_000_000_000
)

// Count formats an integer with thousand separators.
// Example: Count(18248) returns "18,248".
func Count(n uint64) string {
	return printer.Sprintf("%d", n)
}

// Downloads renders a trailing-year install count the way package listings
// show it: plain comma-separated below a million, abbreviated above.
// Example: Downloads(1500000) returns "~1.5M".
func Downloads(n uint64) string {
	switch {
	case n >= billionThreshold:
		return fmt.Sprintf("~%.1fB", float64(n)/billionThreshold)
	case n >= millionThreshold:
		return fmt.Sprintf("~%.1fM", float64(n)/millionThreshold)
	default:
		return Count(n)
	}
}

// Duration renders an elapsed time compactly for status lines: milliseconds
// below a second, one decimal of seconds otherwise.
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

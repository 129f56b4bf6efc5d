// Package hint turns free-form temperature input such as "205" or
// "190-230" into a single integer.
package hint

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Source records how a Result's value was obtained.
type Source int

const (
	// Parsed means the value came from the user's input.
	Parsed Source = iota
	// Defaulted means the input was unusable and the fallback was taken.
	Defaulted
)

func (s Source) String() string {
	if s == Defaulted {
		return "defaulted"
	}
	return "parsed"
}

// Result is the outcome of parsing a hint. Value is always usable.
type Result struct {
	Value  int
	Source Source
	// Reason explains a Defaulted result; empty when Parsed.
	Reason string
}

// Int returns the resolved value.
func (r Result) Int() int { return r.Value }

// IsDefaulted reports whether the fallback was used.
func (r Result) IsDefaulted() bool { return r.Source == Defaulted }

// ParseTemperature parses raw as a single integer or as a closed range
// "A-B" / "A–B", in which case the midpoint (A+B)/2 is returned, truncated
// toward zero. Unusable input never fails: the fallback is returned as a
// Defaulted result and the event is logged.
func ParseTemperature(raw string, fallback int) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return defaulted(raw, fallback, "empty input")
	}

	if strings.ContainsAny(s, "-–") {
		parts := strings.FieldsFunc(s, isDash)
		nums := make([]int, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				return defaulted(raw, fallback, fmt.Sprintf("invalid range bound %q", p))
			}
			nums = append(nums, n)
		}
		if len(nums) >= 2 {
			return Result{Value: (nums[0] + nums[1]) / 2, Source: Parsed}
		}
		// A single number with a dash, e.g. "-5", is read as a plain integer.
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return defaulted(raw, fallback, fmt.Sprintf("not an integer: %q", s))
	}
	return Result{Value: n, Source: Parsed}
}

func isDash(r rune) bool {
	return r == '-' || r == '–'
}

func defaulted(raw string, fallback int, reason string) Result {
	slog.Debug("temperature hint fell back to default",
		"input", raw,
		"fallback", fallback,
		"reason", reason,
	)
	return Result{Value: fallback, Source: Defaulted, Reason: reason}
}

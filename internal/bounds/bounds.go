// Package bounds holds the numeric clamping used by every stage that turns
// untrusted input into printer settings.
package bounds

import "cmp"

// Clamp constrains v to the closed interval [lo, hi].
// The caller must ensure lo <= hi; the result is unspecified otherwise.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

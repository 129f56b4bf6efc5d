package material

import "strings"

// The checks below are plain substring matches and will also hit names such
// as "Spatula Grey" for "pa". Callers go through these functions so a
// stricter tokenizer can replace them in one place.

// IsCarbonFilled reports whether name looks like a carbon-fibre blend
// ("cf" or "carbon", case-insensitive).
func IsCarbonFilled(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "cf") || strings.Contains(n, "carbon")
}

// IsPolyamide reports whether name looks like a nylon
// ("pa" or "nylon", case-insensitive).
func IsPolyamide(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "pa") || strings.Contains(n, "nylon")
}

// IsPLAFamily reports whether name contains "PLA". The match is
// case-sensitive: "pla-like" does not qualify.
func IsPLAFamily(name string) bool {
	return strings.Contains(name, "PLA")
}

// Package normalize provides text folding for case-insensitive matching.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases a string using Unicode case folding, so matching works
// for inputs beyond plain ASCII. Accented characters are decomposed first
// to keep "résumé" and "résumé" comparable.
func Fold(s string) string {
	return cases.Fold().String(norm.NFKD.String(s))
}

// ContainsFold reports whether substr occurs within s, ignoring case.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(Fold(s), Fold(substr))
}

// EqualFold reports whether two strings are equal under case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Package ident provides case-insensitive identifier helpers shared by the
// vocabulary tables, the symbol table, and the lexer's classification pass.
// COBOL identifiers and reserved words are case-insensitive; Go maps are not,
// so every lookup table in this module stores a normalized key alongside the
// original-case value it was declared with.
package ident

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Normalize returns the case-folded form of s suitable for use as a map key.
// Folding (rather than strings.ToUpper/ToLower) is used because it is the
// Unicode-correct operation for caseless matching; COBOL source is ASCII in
// practice but national character data (N"...") is not.
func Normalize(s string) string {
	return folder.String(s)
}

// Equal reports whether a and b are equal under COBOL's case-insensitive
// identifier rule. Prefer this over Normalize(a) == Normalize(b) for one-off
// comparisons: it avoids allocating two folded copies.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Compare orders a and b case-insensitively, for use with sort.Slice when
// identifiers must be presented in a stable, case-blind order.
func Compare(a, b string) int {
	return strings.Compare(Normalize(a), Normalize(b))
}

// Contains reports whether list contains s under case-insensitive equality.
func Contains(list []string, s string) bool {
	for _, item := range list {
		if Equal(item, s) {
			return true
		}
	}
	return false
}

// SortCaseInsensitive sorts names in place by their case-folded form,
// breaking ties by original-case ordering so the sort is stable and
// deterministic regardless of input order.
func SortCaseInsensitive(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if c := Compare(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}

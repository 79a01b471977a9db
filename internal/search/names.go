// Package search implements the name filter behind GET /appointments?q=.
//
// Matching is a case-insensitive substring test over "firstName lastName".
// Case folding uses golang.org/x/text/cases so that non-ASCII names fold the
// same way they do in the browser search box, and whitespace runs collapse to
// one space on both sides of the comparison.
package search

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalize trims, collapses whitespace, and case-folds s.
func Normalize(s string) string {
	s = whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}

// MatchName reports whether query occurs in the appointment's full name. An
// empty query matches everything.
func MatchName(a domain.Appointment, query string) bool {
	q := Normalize(query)
	if q == "" {
		return true
	}
	return strings.Contains(Normalize(a.FullName()), q)
}

// FilterByName returns the appointments whose full name contains query,
// preserving input order. The input slice is not modified.
func FilterByName(in []domain.Appointment, query string) []domain.Appointment {
	if Normalize(query) == "" {
		return in
	}
	out := make([]domain.Appointment, 0, len(in))
	for _, a := range in {
		if MatchName(a, query) {
			out = append(out, a)
		}
	}
	return out
}

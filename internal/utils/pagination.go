// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Window returns the [lo, hi) slice bounds of page (1-based) for a collection
// of n items split into pages of size. Out-of-range pages yield an empty
// window at n. A non-positive size means "no paging" and covers everything.
func Window(n, page, size int) (lo, hi int) {
	if size <= 0 {
		return 0, n
	}
	if page < 1 {
		page = 1
	}
	lo = (page - 1) * size
	if lo >= n || lo < 0 {
		return n, n
	}
	hi = lo + size
	if hi > n {
		hi = n
	}
	return lo, hi
}

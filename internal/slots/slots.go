// Package slots produces the bookable time labels for a single day.
//
// A day is described by offsets from midnight: the first slot starts at
// DayStart, slots repeat every Step, and DayEnd itself is the last bookable
// slot. Labels use the 12-hour clock ("9:00 AM", "12:15 PM") and are the exact
// strings stored in Appointment.Time.
package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The booking day, as offsets from midnight.
const (
	// DayStart is the first slot, 9:00 AM.
	DayStart = 9 * time.Hour
	// DayEnd is the last slot, 8:00 PM. It is bookable.
	DayEnd = 20 * time.Hour
	// Step is the slot length.
	Step = 15 * time.Minute
)

// Generate returns the labels for the default day window, in order. The slice
// is rebuilt on every call so callers may modify it freely.
func Generate() []string {
	return GenerateWindow(DayStart, DayEnd, Step)
}

// GenerateWindow returns one label per step from start through end inclusive.
// It returns nil when step is not positive or end precedes start.
func GenerateWindow(start, end, step time.Duration) []string {
	if step <= 0 || end < start {
		return nil
	}
	out := make([]string, 0, int((end-start)/step)+1)
	for t := start; t <= end; t += step {
		out = append(out, Label(t))
	}
	return out
}

// Label renders an offset from midnight as "H:MM AM|PM". Hour 0 renders as 12
// and noon belongs to PM. Offsets are taken modulo one day.
func Label(offset time.Duration) string {
	mins := int(offset/time.Minute) % (24 * 60)
	if mins < 0 {
		mins += 24 * 60
	}
	h, m := mins/60, mins%60

	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, m, suffix)
}

// Available returns the generated labels that are not in booked, preserving
// slot order. Unknown labels in booked are ignored.
func Available(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	all := Generate()
	out := make([]string, 0, len(all))
	for _, s := range all {
		if _, ok := taken[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// Parse converts a label produced by Label back to its offset from midnight.
// It accepts any "H:MM AM|PM" value with 1 <= H <= 12, not only generated slots.
func Parse(label string) (time.Duration, bool) {
	clock, suffix, ok := strings.Cut(strings.TrimSpace(label), " ")
	if !ok {
		return 0, false
	}
	hs, ms, ok := strings.Cut(clock, ":")
	if !ok || len(ms) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	switch strings.ToUpper(suffix) {
	case "AM":
		h %= 12
	case "PM":
		h = h%12 + 12
	default:
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, true
}

// Compare orders two labels chronologically. Labels that do not parse sort
// after those that do and compare as plain strings among themselves.
func Compare(a, b string) int {
	ta, okA := Parse(a)
	tb, okB := Parse(b)
	switch {
	case okA && okB:
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the numeric prefix of a formatted cell such as
// "12.5%" or "3e2 users".
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber converts a formatted cell into a float64. Whitespace and
// thousands separators are ignored and the longest numeric prefix is used.
// Empty, non-numeric and non-finite input yields 0.
func ParseNumber(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(v)
	}
	prefix := leadingNumber.FindString(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseWeekLabel returns the week ordinal of a historical week label.
//
// Accepted formats, after trimming surrounding whitespace:
//
//	W0    ordinal 0, the current week
//	W-n   n weeks before the current week
//	Wn    same as W-n
//
// n is a run of decimal digits. Any other input is rejected with ok=false.
func ParseWeekLabel(label string) (ordinal int, ok bool) {
	s := strings.TrimSpace(label)
	if !strings.HasPrefix(s, "W") {
		return 0, false
	}
	s = strings.TrimPrefix(s[1:], "-")
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Package timeparsing parses the time expressions braid accepts on the
// command line (list --created-since), layered from cheapest to most
// permissive:
//  1. compact durations (-1d, +2w)
//  2. absolute dates (2026-01-02, RFC3339)
//  3. natural language ("yesterday", "3 days ago") via olebedev/when
//
// Absolute forms are tried before natural language because time.Parse
// requires a full-string match while the NLP layer matches substrings.
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// compactRe matches compact duration syntax: [+-]?(\d+)([hdwmy])
var compactRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// ParseCompactDuration resolves compact duration syntax against now.
// Units: h hours, d days, w weeks, m months, y years. A missing sign
// means future ("+"); --created-since callers pass "-1w" style values.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	m := compactRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", m[2])
	}
	if m[1] == "-" {
		n = -n
	}

	switch m[3] {
	case "h":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, n), nil
	case "w":
		return now.AddDate(0, 0, n*7), nil
	case "m":
		return now.AddDate(0, n, 0), nil
	default: // y, the only unit left the pattern admits
		return now.AddDate(n, 0, 0), nil
	}
}

// IsCompactDuration reports whether s matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactRe.MatchString(s)
}

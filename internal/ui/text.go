package ui

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis terminates truncated task text in list output.
const Ellipsis = "…"

// TruncateText clamps s to max runes for single-line display. Newlines become
// spaces so one task always renders as one row. max <= 0 means no limit.
func TruncateText(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return Ellipsis
	}
	runes := []rune(s)
	return string(runes[:max-1]) + Ellipsis
}

package timeparsing

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// nlParser is shared across calls; when parsers are read-only after rule
// registration.
var nlParser = newNLParser()

func newNLParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseNaturalLanguage resolves English expressions like "yesterday",
// "next monday" or "3 days ago" against now.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	r, err := nlParser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("not a recognized time expression: %q", s)
	}
	return r.Time, nil
}

// ParseRelativeTime resolves a command line time expression against now,
// trying the layers in the order the package comment documents.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time expression: %q (try -1w, \"3 days ago\" or 2026-01-02)", s)
}

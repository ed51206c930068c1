package ingest

import (
	"strings"
	"time"
)

// ParsedDate is the outcome of one cell parse. A nil Date with a non-empty
// Raw means the cell held something, but nothing this pipeline will treat as
// a timestamp.
type ParsedDate struct {
	Date *time.Time
	Raw  string
}

// dateLayouts is tried in order. US month/day/year with 12-hour time first
// (the dominant iCIMS export shape), then date-only US, then ISO.
var dateLayouts = []string{
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate turns a raw cell string into a real timestamp or nothing. This is
// the single non-fabrication enforcement point: nothing downstream may
// synthesize a date that did not pass through here. It never returns an
// error; unrecognized input comes back with a nil Date and the original
// string preserved in Raw.
func ParseDate(raw string) ParsedDate {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedDate{}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		// A structural match with an absurd year is a partial match on
		// the wrong layout, not a date anyone wrote down. Fall through
		// to the next pattern instead of failing the parse.
		if !plausibleYear(t) {
			continue
		}
		utc := t.UTC()
		return ParsedDate{Date: &utc, Raw: trimmed}
	}

	// Last resort: one lenient generic attempt before giving up.
	if t, err := time.Parse("2006-1-2", trimmed); err == nil && plausibleYear(t) {
		utc := t.UTC()
		return ParsedDate{Date: &utc, Raw: trimmed}
	}

	return ParsedDate{Raw: trimmed}
}

func plausibleYear(t time.Time) bool {
	return t.Year() >= 1900 && t.Year() <= 2200
}

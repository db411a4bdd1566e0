package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// italianMonths maps lower-case Italian month names (and their common
// three-letter abbreviations) to time.Month.
var italianMonths = map[string]time.Month{
	"gennaio": time.January, "gen": time.January,
	"febbraio": time.February, "feb": time.February,
	"marzo": time.March, "mar": time.March,
	"aprile": time.April, "apr": time.April,
	"maggio": time.May, "mag": time.May,
	"giugno": time.June, "giu": time.June,
	"luglio": time.July, "lug": time.July,
	"agosto": time.August, "ago": time.August,
	"settembre": time.September, "set": time.September,
	"ottobre": time.October, "ott": time.October,
	"novembre": time.November, "nov": time.November,
	"dicembre": time.December, "dic": time.December,
}

// dateLayouts are the numeric formats accepted by ParseDate, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// ParseDate parses a meeting date in any of the spellings seen in source
// headers: ISO ("2023-02-25"), numeric Italian ("25/02/2023"), or textual
// Italian ("25 Febbraio 2023"). Multi-day spans like "25/26 Febbraio 2023"
// resolve to the first day.
func ParseDate(s string) (time.Time, error) {
	s = CollapseSpaces(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date: empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// Textual Italian: "<day>[/<day>...] <month> <year>"
	fields := strings.Fields(s)
	if len(fields) >= 3 {
		dayPart := fields[0]
		if i := strings.IndexAny(dayPart, "/-,&"); i > 0 {
			dayPart = dayPart[:i]
		}
		day, dayErr := strconv.Atoi(dayPart)
		month, monthOK := italianMonths[strings.ToLower(fields[1])]
		year, yearErr := strconv.Atoi(fields[len(fields)-1])
		if dayErr == nil && monthOK && yearErr == nil {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("date: unrecognized format %q", s)
}

// ParseYear parses a year-of-birth field, tolerating two-digit spellings from
// older converters ("87" means 1987 while "05" means 2005, pivoting at the
// current-century cutoff of 30).
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	if y >= 100 {
		return y
	}
	if y > 30 {
		return 1900 + y
	}
	return 2000 + y
}

package normalize

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. ISO variants come first because most sites
// put a machine-readable datetime attribute on their <time> elements; the
// remaining layouts cover the formats seen in visible Polish publication
// dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
}

// polishMonths maps genitive month names, as they appear in running dates
// like "12 stycznia 2026", to month numbers.
var polishMonths = map[string]time.Month{
	"stycznia":      time.January,
	"lutego":        time.February,
	"marca":         time.March,
	"kwietnia":      time.April,
	"maja":          time.May,
	"czerwca":       time.June,
	"lipca":         time.July,
	"sierpnia":      time.August,
	"września":      time.September,
	"października":  time.October,
	"listopada":     time.November,
	"grudnia":       time.December,
}

// ParseDate attempts the known date formats in order and reports whether any
// of them matched. Callers treat a total failure as a soft error: the record
// is kept with a null published date.
func ParseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	if t, ok := parsePolishDate(value); ok {
		return t, true
	}
	return time.Time{}, false
}

// parsePolishDate handles the long form "2 stycznia 2006".
func parsePolishDate(value string) (time.Time, bool) {
	fields := strings.Fields(strings.ToLower(value))
	if len(fields) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := polishMonths[fields[1]]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil || year < 1900 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	mdySlashRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	mdyDashRe  = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{2,4})\b`)
	ymdRe      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	monthDayRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})\b`)
	weekdayRe  = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
}

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

// ParseDate attempts to turn a free-text date fragment into a concrete time.
// It tries, in order: known layouts (accepted only for years after 1900),
// numeric forms (MM/DD/YYYY, MM-DD-YYYY, YYYY-MM-DD), "Month Day" in the
// current year, and bare weekday names resolved to their next future
// occurrence (never today). A miss returns ok=false, not an error.
func ParseDate(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil && t.Year() > 1900 {
			return t, true
		}
	}

	if m := ymdRe.FindStringSubmatch(value); m != nil {
		if t, ok := buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return t, true
		}
	}
	if m := mdySlashRe.FindStringSubmatch(value); m != nil {
		if t, ok := buildDate(expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2])); ok {
			return t, true
		}
	}
	if m := mdyDashRe.FindStringSubmatch(value); m != nil {
		if t, ok := buildDate(expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2])); ok {
			return t, true
		}
	}

	if m := monthDayRe.FindStringSubmatch(value); m != nil {
		month := monthsByName[strings.ToLower(m[1])]
		if t, ok := buildDate(now.Year(), int(month), atoi(m[2])); ok {
			return t, true
		}
	}

	if m := weekdayRe.FindStringSubmatch(value); m != nil {
		target := weekdaysByName[strings.ToLower(m[1])]
		days := int(target-now.Weekday()+7) % 7
		if days == 0 {
			days = 7
		}
		return startOfDay(now).AddDate(0, 0, days), true
	}

	return time.Time{}, false
}

// relative cue patterns, checked in order
var relativeCues = []struct {
	pattern *regexp.Regexp
	days    int
}{
	{regexp.MustCompile(`(?i)\b(?:today|tonight)\b`), 0},
	{regexp.MustCompile(`(?i)\btomorrow\b`), 1},
	{regexp.MustCompile(`(?i)\bnext\s+week\b`), 7},
	{regexp.MustCompile(`(?i)\bthis\s+week(?:end)?\b`), 2},
	{regexp.MustCompile(`(?i)\bnext\s+month\b`), 30},
}

// resolveRelative maps relative cues (today, tomorrow, next week, this week,
// next month) found anywhere in the text to a concrete day.
func resolveRelative(text string, now time.Time) (time.Time, bool) {
	for _, cue := range relativeCues {
		if cue.pattern.MatchString(text) {
			return startOfDay(now).AddDate(0, 0, cue.days), true
		}
	}
	return time.Time{}, false
}

// resolveDateString resolves relative cues first, then falls back to ParseDate
func resolveDateString(value string, now time.Time) (time.Time, bool) {
	if t, ok := resolveRelative(value, now); ok {
		return t, true
	}
	return ParseDate(value, now)
}

func buildDate(year, month, day int) (time.Time, bool) {
	if year <= 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// Reject rollovers like 02/31 becoming March 2.
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func expandYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Package calendar provides calendar-day arithmetic in a fixed location.
package calendar

import "time"

// DayFormat is the ISO-8601 layout used for day keys.
const DayFormat = "2006-01-02"

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// Key returns the calendar day of t in loc formatted as YYYY-MM-DD.
func Key(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

// Range returns every calendar day from start to end inclusive, each at midnight in loc.
// The result is contiguous and strictly increasing; it is empty when end precedes start.
func Range(start, end time.Time, loc *time.Location) []time.Time {
	first := StartOfDay(start, loc)
	last := StartOfDay(end, loc)
	if last.Before(first) {
		return nil
	}
	var days []time.Time
	// AddDate keeps midnight across DST changes, Add(24h) would not.
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Keys returns the day keys of Range(start, end, loc).
func Keys(start, end time.Time, loc *time.Location) []string {
	days := Range(start, end, loc)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, d.Format(DayFormat))
	}
	return keys
}

// LoadLocation resolves name, falling back to UTC when it is empty or unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

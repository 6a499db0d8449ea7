package checklist

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the civil-date form used for spend windows and daily
// check reporting.
const DateLayout = "2006-01-02"

var weekPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// WeekOf returns the ISO 8601 week label for t, e.g. "2026-W05". The
// ISO year may differ from the calendar year near year boundaries.
func WeekOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ValidWeek reports whether week is a well-formed ISO week label.
func ValidWeek(week string) bool {
	_, err := weekMonday(week)
	return err == nil
}

// weekMonday resolves a week label to its Monday as a UTC civil date.
func weekMonday(week string) (time.Time, error) {
	m := weekPattern.FindStringSubmatch(week)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid week format %q, expected YYYY-Www", week)
	}
	year, _ := strconv.Atoi(m[1])
	num, _ := strconv.Atoi(m[2])
	if num < 1 || num > 53 {
		return time.Time{}, fmt.Errorf("week number %d out of range in %q", num, week)
	}

	// January 4th is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	monday := week1Monday.AddDate(0, 0, (num-1)*7)

	// Years with 52 ISO weeks have no W53.
	if WeekOf(monday) != week {
		return time.Time{}, fmt.Errorf("week %q does not exist", week)
	}
	return monday, nil
}

// PreviousWeek returns the ISO week label immediately before week.
func PreviousWeek(week string) (string, error) {
	monday, err := weekMonday(week)
	if err != nil {
		return "", err
	}
	return WeekOf(monday.AddDate(0, 0, -7)), nil
}

// WeeksBetween returns every ISO week label from start to end
// inclusive, in chronological order.
func WeeksBetween(start, end string) ([]string, error) {
	from, err := weekMonday(start)
	if err != nil {
		return nil, err
	}
	to, err := weekMonday(end)
	if err != nil {
		return nil, err
	}

	var weeks []string
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 7) {
		weeks = append(weeks, WeekOf(cur))
	}
	return weeks, nil
}

// WeekDateRange returns the civil-date window covered by week as a
// half-open [from, to) pair: the week's Monday and the following
// Monday.
func WeekDateRange(week string) (from, to string, err error) {
	monday, err := weekMonday(week)
	if err != nil {
		return "", "", err
	}
	return monday.Format(DateLayout), monday.AddDate(0, 0, 7).Format(DateLayout), nil
}

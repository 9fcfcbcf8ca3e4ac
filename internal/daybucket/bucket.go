// Package daybucket maps calendar dates onto UTC day, month and week ranges.
package daybucket

import (
	"strconv"
	"strings"
	"time"

	apperrors "schoolboard/pkg/errors"
)

const Layout = "2006-01-02"

// Bucket is the half-open interval [Start, End) of one UTC calendar day.
type Bucket struct {
	Start time.Time
	End   time.Time
}

// Parse resolves "YYYY-MM-DD" to its UTC day. An empty string selects the UTC day of now.
// Out-of-range month or day values roll over the way time.Date normalises them.
func Parse(s string, now time.Time) (Bucket, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Of(now), nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Bucket{}, apperrors.ErrInvalidDate
	}
	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Bucket{}, apperrors.ErrInvalidDate
		}
		ymd[i] = n
	}
	start := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	return Bucket{Start: start, End: start.AddDate(0, 0, 1)}, nil
}

// Of returns the UTC day containing t.
func Of(t time.Time) Bucket {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return Bucket{Start: start, End: start.AddDate(0, 0, 1)}
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

func (b Bucket) Day() string {
	return b.Start.Format(Layout)
}

// Range is a half-open [Start, End) interval of whole UTC days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Month returns the UTC range of the given month. month is 1-based and may overflow.
func Month(year, month int) Range {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// MonthOf parses optional 1-based month and year strings, defaulting to now's month.
func MonthOf(monthStr, yearStr string, now time.Time) (Range, error) {
	u := now.UTC()
	month, year := int(u.Month()), u.Year()
	if monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil {
			return Range{}, apperrors.ValidationError{Field: "month", Message: "must be a number"}
		}
		month = m
	}
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return Range{}, apperrors.ValidationError{Field: "year", Message: "must be a number"}
		}
		year = y
	}
	return Month(year, month), nil
}

// WeekStart returns Monday 00:00 UTC of the week containing now.
func WeekStart(now time.Time) time.Time {
	day := Of(now).Start
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

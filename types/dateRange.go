package types

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// inputLayouts are accepted by ParseDate, ISO first.
var inputLayouts = []string{DateLayout, "02/01/2006"}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range with both bounds truncated to the day, in UTC.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Day drops the time of day, keeping the calendar date as seen in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a date either as YYYY-MM-DD or DD/MM/YYYY.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or DD/MM/YYYY", s)
}

// IsOrdered reports whether Start is not after End.
func (r DateRange) IsOrdered() bool {
	return !r.Start.After(r.End)
}

// Contains reports whether the day of t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Within reports whether r lies entirely inside outer.
func (r DateRange) Within(outer DateRange) bool {
	return outer.Contains(r.Start) && outer.Contains(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

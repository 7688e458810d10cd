package date

import (
	"fmt"
	"sort"
	"time"
)

// TimeBeforeOrEquals returns whether t1 is before or equal t2
func TimeBeforeOrEquals(t1 time.Time, t2 time.Time) bool {
	return t1.UnixNano() <= t2.UnixNano()
}

// TimeAfterOrEquals returns whether t1 is after or equal t2
func TimeAfterOrEquals(t1 time.Time, t2 time.Time) bool {
	return t1.UnixNano() >= t2.UnixNano()
}

// Timespan is a simple timespan between two times/dates, treated as half-open [Start, End)
type Timespan struct {
	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end"`
}

// Duration simply gets the duration of a Timespan
func (t *Timespan) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// IsStartBeforeEnd checks if start is earlier than end
func (t *Timespan) IsStartBeforeEnd() bool {
	return t.Start.Before(t.End)
}

// String prints a timespan string
func (t *Timespan) String() string {
	return fmt.Sprintf("%s - %s", t.Start, t.End)
}

// IntersectsWith checks if one timespan intersects with another; touching spans do not intersect
func (t *Timespan) IntersectsWith(timespan Timespan) bool {
	return t.Start.Before(timespan.End) && t.End.After(timespan.Start)
}

// Contains checks if timespan t contains another Timespan timespan
func (t *Timespan) Contains(timespan Timespan) bool {
	return TimeAfterOrEquals(timespan.Start, t.Start) &&
		TimeBeforeOrEquals(timespan.End, t.End)
}

// In changes the location on a Timespan
func (t *Timespan) In(location *time.Location) Timespan {
	return Timespan{Start: t.Start.In(location), End: t.End.In(location)}
}

// Normalize strips sub-second precision from both ends so that semantically
// identical times always compare equal regardless of their source
func (t *Timespan) Normalize() Timespan {
	return Timespan{Start: t.Start.Truncate(time.Second), End: t.End.Truncate(time.Second)}
}

// Equal compares two timespans by instant, ignoring location
func (t *Timespan) Equal(timespan Timespan) bool {
	return t.Start.Equal(timespan.Start) && t.End.Equal(timespan.End)
}

func minTime(a, b time.Time) time.Time {
	if a.Unix() < b.Unix() {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.Unix() > b.Unix() {
		return a
	}
	return b
}

// MergeTimespans merges Timespan structs together in case they overlap, they don't have to be presorted
func MergeTimespans(timespans []Timespan) []Timespan {
	if len(timespans) == 0 {
		return nil
	}

	sort.Slice(timespans, func(i, j int) bool {
		return timespans[i].Start.Before(timespans[j].Start)
	})

	index := 0

	for i := 1; i < len(timespans); i++ {
		if timespans[index].End.Unix() >= timespans[i].Start.Unix() {
			timespans[index].End = maxTime(timespans[index].End, timespans[i].End)
			timespans[index].Start = minTime(timespans[index].Start, timespans[i].Start)
		} else {
			index++
			timespans[index] = timespans[i]
		}
	}

	var mergedTimespans []Timespan
	for i := 0; i <= index; i++ {
		mergedTimespans = append(mergedTimespans, timespans[i])
	}

	return mergedTimespans
}

// RoundUpToQuarterHour rounds a time up to the next 15-minute boundary; times
// already on a boundary are returned unchanged
func RoundUpToQuarterHour(t time.Time) time.Time {
	rounded := t.Truncate(time.Minute * 15)
	if rounded.Before(t) {
		rounded = rounded.Add(time.Minute * 15)
	}
	return rounded
}

// EndOfDay returns the last representable millisecond of the day t falls on
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Millisecond*999), t.Location())
}

// AtClock places a clock time of hour:minute on the calendar day of day
func AtClock(day time.Time, hour int, minute int) time.Time {
	year, month, d := day.Date()
	return time.Date(year, month, d, hour, minute, 0, 0, day.Location())
}

// IsWeekend reports whether t falls on a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	weekday := t.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

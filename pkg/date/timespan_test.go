package date

import (
	"reflect"
	"testing"
	"time"
)

func timeDate(year int, month time.Month, day int, hour int, min int, seconds int) time.Time {
	loc, _ := time.LoadLocation("Local")
	return time.Date(year, month, day, hour, min, seconds, 0, loc)
}

func TestTimespan_IntersectsWith(t *testing.T) {
	var intersectionTests = []struct {
		name string
		a    Timespan
		b    Timespan
		out  bool
	}{
		{
			"overlapping spans intersect",
			Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
			Timespan{Start: timeDate(2021, 6, 8, 11, 0, 0), End: timeDate(2021, 6, 8, 13, 0, 0)},
			true,
		},
		{
			// The intervals are half-open, a shared boundary is not an intersection
			"touching spans do not intersect",
			Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)},
			Timespan{Start: timeDate(2021, 6, 8, 11, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
			false,
		},
		{
			"contained span intersects",
			Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 14, 0, 0)},
			Timespan{Start: timeDate(2021, 6, 8, 11, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
			true,
		},
		{
			"disjoint spans do not intersect",
			Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)},
			Timespan{Start: timeDate(2021, 6, 8, 14, 0, 0), End: timeDate(2021, 6, 8, 15, 0, 0)},
			false,
		},
	}

	for _, tt := range intersectionTests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IntersectsWith(tt.b); got != tt.out {
				t.Errorf("IntersectsWith() = %v, want %v", got, tt.out)
			}

			// Intersection is symmetric
			if got := tt.b.IntersectsWith(tt.a); got != tt.out {
				t.Errorf("IntersectsWith() reversed = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestTimespan_Contains(t *testing.T) {
	outer := Timespan{Start: timeDate(2021, 6, 8, 9, 0, 0), End: timeDate(2021, 6, 8, 17, 0, 0)}

	inner := Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)}
	if !outer.Contains(inner) {
		t.Errorf("Contains() = false, want true for %s in %s", inner.String(), outer.String())
	}

	if !outer.Contains(outer) {
		t.Errorf("Contains() = false, want true for a span containing itself")
	}

	overflowing := Timespan{Start: timeDate(2021, 6, 8, 16, 30, 0), End: timeDate(2021, 6, 8, 17, 30, 0)}
	if outer.Contains(overflowing) {
		t.Errorf("Contains() = true, want false for %s in %s", overflowing.String(), outer.String())
	}
}

func TestMergeTimespans(t *testing.T) {
	var mergeTests = []struct {
		name string
		in   []Timespan
		out  []Timespan
	}{
		{
			"overlapping spans merge",
			[]Timespan{
				{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
				{Start: timeDate(2021, 6, 8, 11, 0, 0), End: timeDate(2021, 6, 8, 13, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 13, 0, 0)},
			},
		},
		{
			"disjoint spans stay apart and get sorted",
			[]Timespan{
				{Start: timeDate(2021, 6, 8, 14, 0, 0), End: timeDate(2021, 6, 8, 15, 0, 0)},
				{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)},
				{Start: timeDate(2021, 6, 8, 14, 0, 0), End: timeDate(2021, 6, 8, 15, 0, 0)},
			},
		},
		{
			"touching spans merge",
			[]Timespan{
				{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)},
				{Start: timeDate(2021, 6, 8, 11, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
			},
		},
		{
			"empty input",
			nil,
			nil,
		},
	}

	for _, tt := range mergeTests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeTimespans(tt.in); !reflect.DeepEqual(got, tt.out) {
				t.Errorf("MergeTimespans() = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestRoundUpToQuarterHour(t *testing.T) {
	var roundingTests = []struct {
		in  time.Time
		out time.Time
	}{
		{timeDate(2021, 6, 8, 10, 7, 0), timeDate(2021, 6, 8, 10, 15, 0)},
		{timeDate(2021, 6, 8, 10, 15, 0), timeDate(2021, 6, 8, 10, 15, 0)},
		{timeDate(2021, 6, 8, 10, 59, 0), timeDate(2021, 6, 8, 11, 0, 0)},
		{timeDate(2021, 6, 8, 10, 0, 0), timeDate(2021, 6, 8, 10, 0, 0)},
	}

	for _, tt := range roundingTests {
		if got := RoundUpToQuarterHour(tt.in); !got.Equal(tt.out) {
			t.Errorf("RoundUpToQuarterHour(%v) = %v, want %v", tt.in, got, tt.out)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	in := timeDate(2021, 6, 8, 10, 7, 0)
	out := EndOfDay(in)

	if out.Before(in) {
		t.Errorf("EndOfDay(%v) = %v lies before its input", in, out)
	}

	if out.Day() != in.Day() || out.Hour() != 23 || out.Minute() != 59 {
		t.Errorf("EndOfDay(%v) = %v, want the last minute of the same day", in, out)
	}
}

func TestAtClock(t *testing.T) {
	in := timeDate(2021, 6, 8, 16, 45, 0)
	out := AtClock(in, 9, 30)

	if !out.Equal(timeDate(2021, 6, 8, 9, 30, 0)) {
		t.Errorf("AtClock() = %v, want %v", out, timeDate(2021, 6, 8, 9, 30, 0))
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := timeDate(2021, 6, 12, 10, 0, 0)
	if !IsWeekend(saturday) {
		t.Errorf("IsWeekend(%v) = false, want true", saturday)
	}

	tuesday := timeDate(2021, 6, 8, 10, 0, 0)
	if IsWeekend(tuesday) {
		t.Errorf("IsWeekend(%v) = true, want false", tuesday)
	}
}

package date

import (
	"testing"
)

func TestBusySet_Intersects(t *testing.T) {
	set := NewBusySet(
		Timespan{Start: timeDate(2021, 6, 8, 14, 0, 0), End: timeDate(2021, 6, 8, 15, 0, 0)},
		Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)},
	)

	var busyTests = []struct {
		name      string
		candidate Timespan
		out       bool
	}{
		{
			"free gap between occupied intervals",
			Timespan{Start: timeDate(2021, 6, 8, 11, 0, 0), End: timeDate(2021, 6, 8, 12, 0, 0)},
			false,
		},
		{
			"overlap with first interval",
			Timespan{Start: timeDate(2021, 6, 8, 10, 30, 0), End: timeDate(2021, 6, 8, 11, 30, 0)},
			true,
		},
		{
			"overlap with second interval",
			Timespan{Start: timeDate(2021, 6, 8, 14, 30, 0), End: timeDate(2021, 6, 8, 15, 30, 0)},
			true,
		},
		{
			"candidate after everything",
			Timespan{Start: timeDate(2021, 6, 8, 16, 0, 0), End: timeDate(2021, 6, 8, 17, 0, 0)},
			false,
		},
	}

	for _, tt := range busyTests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Intersects(tt.candidate); got != tt.out {
				t.Errorf("Intersects(%s) = %v, want %v", tt.candidate.String(), got, tt.out)
			}
		})
	}
}

func TestBusySet_AddKeepsOrder(t *testing.T) {
	set := NewBusySet()

	set.Add(Timespan{Start: timeDate(2021, 6, 8, 14, 0, 0), End: timeDate(2021, 6, 8, 15, 0, 0)})
	set.Add(Timespan{Start: timeDate(2021, 6, 8, 10, 0, 0), End: timeDate(2021, 6, 8, 11, 0, 0)})
	set.Add(Timespan{Start: timeDate(2021, 6, 8, 12, 0, 0), End: timeDate(2021, 6, 8, 13, 0, 0)})

	spans := set.Spans()
	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].Start.Before(spans[i-1].Start) {
			t.Errorf("spans out of order at index %d: %v before %v", i, spans[i].Start, spans[i-1].Start)
		}
	}
}

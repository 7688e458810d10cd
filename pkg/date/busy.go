package date

import "sort"

// BusySet is a growing collection of occupied timespans. One instance is
// threaded through an entire allocation run so that blocks placed for earlier
// tasks are occupied intervals for all later tasks.
type BusySet struct {
	spans []Timespan
}

// NewBusySet builds a BusySet seeded with the given timespans
func NewBusySet(spans ...Timespan) *BusySet {
	set := &BusySet{}
	for _, span := range spans {
		set.Add(span)
	}
	return set
}

// Add marks a timespan as occupied
func (b *BusySet) Add(span Timespan) {
	index := sort.Search(len(b.spans), func(i int) bool {
		return b.spans[i].Start.After(span.Start)
	})

	b.spans = append(b.spans, Timespan{})
	copy(b.spans[index+1:], b.spans[index:])
	b.spans[index] = span
}

// Intersects checks whether a candidate timespan overlaps any occupied interval
func (b *BusySet) Intersects(candidate Timespan) bool {
	for i := range b.spans {
		if b.spans[i].Start.After(candidate.End) || b.spans[i].Start.Equal(candidate.End) {
			break
		}

		if b.spans[i].IntersectsWith(candidate) {
			return true
		}
	}

	return false
}

// Spans returns the occupied intervals in start order
func (b *BusySet) Spans() []Timespan {
	return b.spans
}

// Len returns the number of occupied intervals
func (b *BusySet) Len() int {
	return len(b.spans)
}

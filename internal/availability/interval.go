package availability

import "sort"

// Interval is a half-open range of minutes since midnight: [Start, End).
type Interval struct {
	Start int
	End   int
}

// MergeIntervals returns the minimal sorted set of disjoint intervals covering
// the same minutes as in. Touching intervals ([9:00,12:00) and [12:00,14:00)) merge.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

func (iv Interval) overlaps(start, end int) bool {
	return start < iv.End && end > iv.Start
}

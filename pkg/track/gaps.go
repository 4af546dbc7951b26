package track

import (
	"cmp"
	"slices"
)

// ComputeGaps returns the unobserved spans of [start, end] given observed
// fragments that do not overlap each other. The gaps carry no styling.
//
// With no observed fragments there is nothing to complement and ComputeGaps
// returns nil. Adjacent observed fragments produce no gap between them.
func ComputeGaps(observed []Fragment, start, end int) []Fragment {
	if len(observed) == 0 {
		return nil
	}

	sorted := slices.Clone(observed)
	slices.SortStableFunc(sorted, func(a, b Fragment) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var gaps []Fragment
	if first := sorted[0]; start < first.Start {
		gaps = append(gaps, Fragment{Start: start, End: first.Start - 1})
	}
	for i := 1; i < len(sorted); i++ {
		from, to := sorted[i-1].End+1, sorted[i].Start-1
		if from <= to {
			gaps = append(gaps, Fragment{Start: from, End: to})
		}
	}
	if last := sorted[len(sorted)-1]; last.End < end {
		gaps = append(gaps, Fragment{Start: last.End + 1, End: end})
	}
	return gaps
}

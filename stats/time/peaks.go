package time

// LocalMaxima returns the indices of the local maxima of x.
//
// A local maximum is a sample (or a run of equal samples) strictly greater
// than both neighbours; for a flat run the middle index (rounded down) is
// reported. The first and last samples are never maxima.
func LocalMaxima(x []float64) []int {
	var peaks []int

	last := len(x) - 1
	for i := 1; i < last; i++ {
		if !(x[i-1] < x[i]) {
			continue
		}

		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}

		if x[ahead] < x[i] {
			peaks = append(peaks, (i+ahead-1)/2)
			i = ahead
		}
	}

	return peaks
}

// PeaksAbove returns the local maxima of x whose value is >= height.
func PeaksAbove(x []float64, height float64) []int {
	all := LocalMaxima(x)

	out := all[:0]
	for _, p := range all {
		if x[p] >= height {
			out = append(out, p)
		}
	}

	return out
}

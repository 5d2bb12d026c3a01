package core

// Frame fills dst with the len(dst) samples of src starting at start,
// treating positions outside src as zero. It is the zero-padded framing
// used for centered analysis windows.
func Frame(dst, src []float64, start int) {
	for i := range dst {
		j := start + i
		if j < 0 || j >= len(src) {
			dst[i] = 0
			continue
		}
		dst[i] = src[j]
	}
}

// Mean returns the arithmetic mean of buf, 0 for an empty slice.
func Mean(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}

	var sum float64
	for _, v := range buf {
		sum += v
	}

	return sum / float64(len(buf))
}

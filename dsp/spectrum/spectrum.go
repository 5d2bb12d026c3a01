package spectrum

import "github.com/cwbudde/algo-vecmath"

// split holds the real and imaginary parts of a complex spectrum in the
// split layout the vecmath kernels expect. A split is reused by its owner
// and is not safe for concurrent use.
type split struct {
	re, im []float64
}

func (s *split) load(in []complex128) (re, im []float64) {
	n := len(in)
	if cap(s.re) < n {
		s.re = make([]float64, n)
		s.im = make([]float64, n)
	}

	re, im = s.re[:n], s.im[:n]
	for i, c := range in {
		re[i], im[i] = real(c), imag(c)
	}

	return re, im
}

func (s *split) magnitude(dst []float64, in []complex128) {
	re, im := s.load(in)
	vecmath.Magnitude(dst[:len(in)], re, im)
}

func (s *split) power(dst []float64, in []complex128) {
	re, im := s.load(in)
	vecmath.Power(dst[:len(in)], re, im)
}

// Power returns |X[k]|^2 for each bin, or nil for an empty spectrum.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	new(split).power(out, in)

	return out
}

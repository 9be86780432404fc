package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// logFloor replaces non-positive magnitudes in the log view so the chart
// never sees -Inf.
const logFloor = -10.0

// Magnitude computes the magnitude spectrum of data: the arithmetic mean is
// removed first so the DC bin does not dwarf everything else, then the
// normalized magnitudes |X_k|/N are returned for bins [0, N/2).
func Magnitude(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := floats.Sum(data) / float64(n)
	buf := make([]complex128, n)
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = mean
		}
		buf[i] = complex(v-mean, 0)
	}

	transformed := fft.FFT(buf)

	half := n / 2
	invN := 1 / float64(n)
	out := make([]float64, half)
	for i := 0; i < half; i++ {
		out[i] = cmplx.Abs(transformed[i]) * invN
	}
	return out
}

// DisplayData returns the spectrum for drawing, log10-scaled when requested
// with non-positive values mapped to a floor sentinel.
func DisplayData(result []float64, logScale bool) []float64 {
	if !logScale {
		return result
	}
	out := make([]float64, len(result))
	for i, v := range result {
		if v > 0 {
			out[i] = math.Log10(v)
		} else {
			out[i] = logFloor
		}
	}
	return out
}

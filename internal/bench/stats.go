package bench

import "math"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

// Stdev returns the population standard deviation of xs, or 0 for an empty
// slice.
func Stdev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	m := Mean(xs)

	var v float64
	for _, x := range xs {
		d := x - m
		v += d * d
	}

	return math.Sqrt(v / float64(len(xs)))
}

package stats

import (
	"math"
	"slices"
)

// Mean computes the average of a slice. It returns 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// Variance computes the population variance of a slice.
func Variance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	mean := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return ss / n
}

// Std computes the population standard deviation of a slice.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// MinMax returns the smallest and largest values, or zeros for an empty
// slice.
func MinMax(x []float64) (min, max float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max = x[0], x[0]
	for _, v := range x[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}

// Median is the 50th percentile.
func Median(x []float64) float64 { return Percentile(x, 50) }

// Percentile returns the p-th percentile (0 <= p <= 100) using linear
// interpolation between the closest order statistics, at rank p/100*(n-1).
// It returns NaN for an empty slice.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || p >= 100 {
		min, max := MinMax(x)
		if p <= 0 {
			return min
		}
		return max
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	whole, frac := math.Modf(p / 100 * float64(n-1))
	lo := int(whole)
	if lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

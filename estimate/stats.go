// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package estimate

import (
	"math"
	"sort"
)

// sortedCopy returns votes sorted ascending without touching the caller's slice
func sortedCopy(votes []int) []int {
	a := append([]int(nil), votes...)
	sort.Ints(a)
	return a
}

// Median returns the middle vote, or the mean of the two central votes for
// an even count. It returns NaN for an empty input.
func Median(votes []int) float64 {
	if len(votes) == 0 {
		return math.NaN()
	}

	a := sortedCopy(votes)
	m := len(a) / 2
	if len(a)%2 == 1 {
		return float64(a[m])
	}
	return (float64(a[m-1]) + float64(a[m])) / 2
}

// Mean returns the arithmetic mean, or NaN for an empty input.
func Mean(votes []int) float64 {
	if len(votes) == 0 {
		return math.NaN()
	}

	sum := 0
	for _, v := range votes {
		sum += v
	}
	return float64(sum) / float64(len(votes))
}

// PopulationStandardDeviation divides by n, not n-1. Empty input yields 0,
// unlike Median which yields NaN.
func PopulationStandardDeviation(votes []int) float64 {
	if len(votes) == 0 {
		return 0
	}

	return math.Sqrt(sumSquaredDeviations(votes) / float64(len(votes)))
}

// SpreadRatio is max(a,b) / max(1, min(a,b)).
func SpreadRatio(a, b int) float64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	return float64(hi) / math.Max(1, float64(lo))
}

// sumSquaredDeviations is the sum of (x - mean)^2 over votes
func sumSquaredDeviations(votes []int) float64 {
	if len(votes) == 0 {
		return 0
	}

	mean := Mean(votes)
	total := 0.0
	for _, v := range votes {
		d := float64(v) - mean
		total += d * d
	}
	return total
}

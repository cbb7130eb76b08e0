// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package estimate

import "math"

// Convergence describes how tightly a round's votes agree.
type Convergence struct {
	Count     int      `json:"count"`
	Median    *float64 `json:"median,omitempty"`
	Mean      *float64 `json:"mean,omitempty"`
	StdDev    float64  `json:"std_dev"`
	Celebrate bool     `json:"celebrate"`
	BandLow   int      `json:"band_low,omitempty"`
	BandHigh  int      `json:"band_high,omitempty"`
	Outliers  []int    `json:"outliers"`
}

// CelebrateBelow is the standard deviation under which a round counts as converged.
const CelebrateBelow = 1.0

// Summarize computes the convergence summary for votes on scale s. The
// consensus band spans one scale step either side of the median snapped with
// bandCentre.
// Votes off the scale are counted in the statistics and reported as outliers.
func Summarize(s Scale, votes []int) Convergence {
	c := Convergence{
		Count:    len(votes),
		StdDev:   PopulationStandardDeviation(votes),
		Outliers: []int{},
	}
	if len(votes) == 0 || s.Len() == 0 {
		return c
	}

	med, mean := Median(votes), Mean(votes)
	c.Median, c.Mean = &med, &mean
	c.Celebrate = c.StdDev < CelebrateBelow

	values := s.Values()
	mid := s.bandCentre(med)
	c.BandLow = values[max(0, mid-1)]
	c.BandHigh = values[min(len(values)-1, mid+1)]

	for _, v := range sortedCopy(votes) {
		if v < c.BandLow || v > c.BandHigh || !s.Contains(v) {
			c.Outliers = append(c.Outliers, v)
		}
	}
	return c
}

// bandCentre returns the index of the member closest to n. Unlike Nearest an
// exact tie resolves to the higher member.
func (s Scale) bandCentre(n float64) int {
	best, bestDiff := 0, math.Inf(1)
	for i, member := range s.values {
		if d := math.Abs(n - float64(member)); d <= bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

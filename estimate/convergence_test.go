// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package estimate

import (
	"slices"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		votes     []int
		bandLow   int
		bandHigh  int
		outliers  []int
		celebrate bool
	}{
		{"unanimous", []int{5, 5, 5}, 3, 8, []int{}, true},
		{"two clusters", []int{5, 5, 8, 8}, 5, 13, []int{}, false},
		{"median between members centres higher", []int{3, 5}, 3, 8, []int{}, false},
		{"tie at the top", []int{8, 13}, 8, 21, []int{}, false},
		{"low outlier after tie", []int{2, 3, 5, 8}, 3, 8, []int{2}, false},
		{"outliers both sides", []int{21, 5, 1, 5}, 3, 8, []int{1, 21}, false},
		{"band clamps at bottom", []int{1, 1}, 1, 2, []int{}, true},
		{"band clamps at top", []int{21}, 13, 21, []int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(Fibonacci, tt.votes)

			if got.Count != len(tt.votes) {
				t.Errorf("Count = %d, want %d", got.Count, len(tt.votes))
			}
			if got.BandLow != tt.bandLow || got.BandHigh != tt.bandHigh {
				t.Errorf("band = [%d, %d], want [%d, %d]", got.BandLow, got.BandHigh, tt.bandLow, tt.bandHigh)
			}
			if !slices.Equal(got.Outliers, tt.outliers) {
				t.Errorf("Outliers = %v, want %v", got.Outliers, tt.outliers)
			}
			if got.Celebrate != tt.celebrate {
				t.Errorf("Celebrate = %v, want %v (std dev %v)", got.Celebrate, tt.celebrate, got.StdDev)
			}
			if got.Median == nil || got.Mean == nil {
				t.Error("Expected median and mean for non-empty votes")
			}
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(Fibonacci, nil)

	if got.Count != 0 || got.StdDev != 0 || got.Celebrate {
		t.Errorf("unexpected summary for no votes: %+v", got)
	}
	if got.Median != nil || got.Mean != nil {
		t.Error("Expected median and mean to be omitted for no votes")
	}
	if got.Outliers == nil {
		t.Error("Expected non-nil outliers so JSON renders []")
	}
}

func TestSummarizeOffScaleVote(t *testing.T) {
	got := Summarize(Fibonacci, []int{5, 4, 5})

	if !slices.Equal(got.Outliers, []int{4}) {
		t.Errorf("Outliers = %v, want [4]", got.Outliers)
	}
}

func TestBandCentreLeavesNearestAlone(t *testing.T) {
	// 4 is equidistant from 3 and 5
	if got := Fibonacci.Nearest(4); got != 3 {
		t.Errorf("Nearest(4) = %d, want 3", got)
	}
	if got := Fibonacci.Values()[Fibonacci.bandCentre(4)]; got != 5 {
		t.Errorf("bandCentre(4) = %d, want 5", got)
	}
}

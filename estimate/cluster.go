// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package estimate

import "math"

// Clusters is a two-way partition of sorted votes. Left followed by Right is
// the sorted input.
type Clusters struct {
	Left      []int `json:"left"`
	Right     []int `json:"right"`
	IsBimodal bool  `json:"is_bimodal"`
}

// LeftMax returns the largest vote of the left cluster.
func (c Clusters) LeftMax() (int, bool) {
	if len(c.Left) == 0 {
		return 0, false
	}
	return c.Left[len(c.Left)-1], true
}

// RightMin returns the smallest vote of the right cluster.
func (c Clusters) RightMin() (int, bool) {
	if len(c.Right) == 0 {
		return 0, false
	}
	return c.Right[0], true
}

// ClusterVotes splits the sorted votes at the index that minimizes the total
// within-cluster sum of squared deviations. Every split 1..n-1 is scored; a
// later split replaces the best only when its score is strictly lower, so the
// lowest index wins ties.
//
// Fewer than two votes have no split: both clusters are empty and the result
// is not bimodal.
func ClusterVotes(votes []int) Clusters {
	a := sortedCopy(votes)
	if len(a) < 2 {
		return Clusters{Left: []int{}, Right: []int{}}
	}

	bestSplit, bestScore := 1, math.Inf(1)
	for i := 1; i < len(a); i++ {
		score := sumSquaredDeviations(a[:i]) + sumSquaredDeviations(a[i:])
		if score < bestScore {
			bestSplit, bestScore = i, score
		}
	}

	c := Clusters{
		Left:  append([]int(nil), a[:bestSplit]...),
		Right: append([]int(nil), a[bestSplit:]...),
	}
	leftMax, _ := c.LeftMax()
	rightMin, _ := c.RightMin()
	c.IsBimodal = leftMax != rightMin
	return c
}

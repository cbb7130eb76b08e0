// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package estimate turns one round of planning-poker votes into a recommendation.

# Scale

Votes are members of a Scale, an immutable strictly increasing sequence:

	estimate.Fibonacci // 1, 2, 3, 5, 8, 13, 21

Distances between votes are measured in scale steps, not points:

	d, _ := estimate.Fibonacci.StepDistance(1, 21) // 6

Nearest snaps any number onto the scale. Equidistant values resolve to the
lower member, so Nearest(4) is 3.

# Decision Policy

Decide applies a fixed, ordered policy:

	decision, err := estimate.Decide([]int{5, 5, 8, 8})
	// decision.Kind == estimate.KindFinal, decision.Points == 5

The outcome is one of:

  - final: a recommended point value with a reason
  - revote: no votes, or a spread wide enough to need discussion first
  - split-or-spike: min and max three or more steps apart

Bimodal rounds are detected with ClusterVotes, an exhaustive
minimum-variance split of the sorted votes. A wide gap between the two
clusters picks the higher cluster; a narrow gap falls back to the median.

# Empty Input

Median returns NaN for no votes while PopulationStandardDeviation returns 0.
Decide handles the empty round itself, so callers using the primitives
directly must check the length first.

# Invalid Votes

Decide validates membership before doing any distance math. A vote outside
the scale returns an *InvalidVoteError that matches ErrInvalidVote:

	if errors.Is(err, estimate.ErrInvalidVote) { ... }

# Convergence

Summarize reports median, mean, population standard deviation, the consensus
band one step either side of the median, and the votes outside it. Celebrate
is set when the standard deviation is below CelebrateBelow.

All functions are pure and safe for concurrent use.
*/
package estimate

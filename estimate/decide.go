// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package estimate

import "fmt"

// Kind discriminates the three decision outcomes
type Kind string

const (
	KindFinal        Kind = "final"
	KindRevote       Kind = "revote"
	KindSplitOrSpike Kind = "split-or-spike"
)

// Label returns the call to action shown next to a decision's reason.
func (k Kind) Label() string {
	switch k {
	case KindFinal:
		return "Celebrate and move on!"
	case KindRevote:
		return "Revote"
	case KindSplitOrSpike:
		return "Split story if scope is unclear, or spike if scope is clear but implementation is uncertain or risky."
	}
	return ""
}

// Policy thresholds. These values are the observable contract of Decide.
const (
	SplitOrSpikeSteps = 3 // min..max step distance that forces split-or-spike
	BimodalGapSteps   = 2 // gap between clusters that escalates to the higher value
	LowSpreadRatio    = 2.0
	ModerateSpread    = 3.0
)

// Decision is the outcome of one Decide call. Points is only set for KindFinal.
type Decision struct {
	Kind   Kind   `json:"kind"`
	Points int    `json:"points,omitempty"`
	Reason string `json:"reason"`
}

func final(points int, reason string) Decision {
	return Decision{Kind: KindFinal, Points: points, Reason: reason}
}

func revote(reason string) Decision {
	return Decision{Kind: KindRevote, Reason: reason}
}

// Engine applies the decision policy against a particular scale.
// The zero value uses Fibonacci.
type Engine struct {
	Scale Scale
}

func (e Engine) scale() Scale {
	if e.Scale.Len() == 0 {
		return Fibonacci
	}
	return e.Scale
}

// Decide classifies one round of votes using the Fibonacci scale.
func Decide(votes []int) (Decision, error) {
	return Engine{}.Decide(votes)
}

// Decide classifies votes. Rules are evaluated in order and the first match wins:
//
//  1. no votes: revote
//  2. min and max at least SplitOrSpikeSteps apart: split-or-spike
//  3. bimodal with a gap of at least BimodalGapSteps: final, the higher cluster's minimum
//  4. bimodal with a smaller gap: final, snapped median
//  5. spread ratio within LowSpreadRatio: final, snapped median
//  6. spread ratio within ModerateSpread: final, one step above the snapped median
//  7. otherwise: revote after discussion
//
// Votes must be members of the engine's scale; an off-scale vote returns an
// *InvalidVoteError and a zero Decision.
func (e Engine) Decide(votes []int) (Decision, error) {
	s := e.scale()
	if len(votes) == 0 {
		return revote("No votes cast"), nil
	}
	if err := s.ValidateVotes(votes); err != nil {
		return Decision{}, err
	}

	a := sortedCopy(votes)
	lo, hi := a[0], a[len(a)-1]
	med := s.Nearest(Median(a))

	span, err := s.StepDistance(lo, hi)
	if err != nil {
		return Decision{}, err
	}
	if span >= SplitOrSpikeSteps {
		return Decision{
			Kind:   KindSplitOrSpike,
			Reason: fmt.Sprintf("Spread too large (%d↔%d). Likely mixed scope or unknowns.", lo, hi),
		}, nil
	}

	c := ClusterVotes(a)
	leftMax, hasLeft := c.LeftMax()
	rightMin, hasRight := c.RightMin()
	if c.IsBimodal && hasLeft && hasRight {
		gap, err := s.StepDistance(leftMax, rightMin)
		if err != nil {
			return Decision{}, err
		}
		if gap >= BimodalGapSteps {
			return final(rightMin, fmt.Sprintf("Bimodal votes (%d vs %d); chose higher due to uncertainty: %d.", leftMax, rightMin, rightMin)), nil
		}
		return final(med, "There are two clusters close together; use median."), nil
	}

	return s.decideBySpread(lo, hi, med)
}

// decideBySpread covers rules 5 to 7 for votes that are not bimodal
func (s Scale) decideBySpread(lo, hi, med int) (Decision, error) {
	spread := SpreadRatio(hi, lo)
	switch {
	case spread <= LowSpreadRatio:
		return final(med, "Low spread; use median."), nil
	case spread <= ModerateSpread:
		up, err := s.NextAbove(med)
		if err != nil {
			return Decision{}, err
		}
		return final(up, fmt.Sprintf("Moderate spread; add \"risk factor\" to: %d.", up)), nil
	}
	return revote(fmt.Sprintf("Wide spread (%d↔%d); have a quick discussion, then revote.", lo, hi)), nil
}

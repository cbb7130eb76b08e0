// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package estimate

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidVote is wrapped by every *InvalidVoteError.
	ErrInvalidVote = errors.New("vote is not on the estimation scale")
	// ErrEmptyScale is returned by NewScale without values.
	ErrEmptyScale = errors.New("scale must have at least one value")
	// ErrUnorderedScale is returned by NewScale for values that are not strictly increasing.
	ErrUnorderedScale = errors.New("scale values must be strictly increasing")
)

// InvalidVoteError reports a vote that is not a member of the scale.
type InvalidVoteError struct {
	Value int
}

func (e *InvalidVoteError) Error() string {
	return fmt.Sprintf("invalid vote %d: %v", e.Value, ErrInvalidVote)
}

func (e *InvalidVoteError) Unwrap() error {
	return ErrInvalidVote
}

// Scale is an immutable, strictly increasing set of allowed estimates.
type Scale struct {
	values []int
}

// Fibonacci is the default planning-poker scale.
var Fibonacci = MustScale(1, 2, 3, 5, 8, 13, 21)

// NewScale validates values and returns a Scale holding its own copy of them.
func NewScale(values ...int) (Scale, error) {
	if len(values) == 0 {
		return Scale{}, ErrEmptyScale
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return Scale{}, fmt.Errorf("%w: %d follows %d", ErrUnorderedScale, values[i], values[i-1])
		}
	}
	return Scale{values: append([]int(nil), values...)}, nil
}

// MustScale is NewScale for package-level declarations. It panics on invalid input.
func MustScale(values ...int) Scale {
	s, err := NewScale(values...)
	if err != nil {
		panic(err)
	}
	return s
}

// Values returns a copy of the scale members in ascending order.
func (s Scale) Values() []int {
	return append([]int(nil), s.values...)
}

// Len is the number of members.
func (s Scale) Len() int {
	return len(s.values)
}

// Index returns the position of v in the scale.
func (s Scale) Index(v int) (int, bool) {
	for i, member := range s.values {
		if member == v {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether v is a member of the scale.
func (s Scale) Contains(v int) bool {
	_, ok := s.Index(v)
	return ok
}

// ValidateVote returns an *InvalidVoteError when v is not a scale member.
func (s Scale) ValidateVote(v int) error {
	if !s.Contains(v) {
		return &InvalidVoteError{Value: v}
	}
	return nil
}

// ValidateVotes reports the first off-scale vote, if any.
func (s Scale) ValidateVotes(votes []int) error {
	for _, v := range votes {
		if err := s.ValidateVote(v); err != nil {
			return err
		}
	}
	return nil
}

// Nearest returns the member closest to n.
// Members are scanned in ascending order and only a strictly smaller distance
// replaces the current best, so an exact tie resolves to the lower member.
func (s Scale) Nearest(n float64) int {
	if len(s.values) == 0 {
		return 0
	}
	best := s.values[0]
	bestDiff := math.Abs(n - float64(best))
	for _, member := range s.values[1:] {
		d := math.Abs(n - float64(member))
		if d < bestDiff {
			best, bestDiff = member, d
		}
	}
	return best
}

// StepDistance is the absolute difference of the positions of a and b.
func (s Scale) StepDistance(a, b int) (int, error) {
	ia, ok := s.Index(a)
	if !ok {
		return 0, &InvalidVoteError{Value: a}
	}
	ib, ok := s.Index(b)
	if !ok {
		return 0, &InvalidVoteError{Value: b}
	}
	if ia > ib {
		return ia - ib, nil
	}
	return ib - ia, nil
}

// NextAbove returns the member after v, saturating at the largest member.
func (s Scale) NextAbove(v int) (int, error) {
	i, ok := s.Index(v)
	if !ok {
		return 0, &InvalidVoteError{Value: v}
	}
	if i+1 >= len(s.values) {
		return s.values[len(s.values)-1], nil
	}
	return s.values[i+1], nil
}

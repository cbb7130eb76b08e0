// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/danielhkuo/poker-shield/deck"
	"github.com/danielhkuo/poker-shield/estimate"
	"github.com/danielhkuo/poker-shield/models"
)

// Messages reported in place of a decision
const (
	msgNonNumericDeck = "Recommendations need a numeric estimation scale"
	msgNotFibonacci   = "Recommendations are only available for the fibonacci scale"
)

// ComputeRoundResults tallies one round and runs the estimate engine over its numeric votes
func ComputeRoundResults(ctx context.Context, db *sql.DB, roomID string, round int, scaleID string, story *string) (models.RoundResults, error) {
	cards, err := GetVotesForRound(ctx, db, roomID, round)
	if err != nil {
		return models.RoundResults{}, fmt.Errorf("failed to get votes: %w", err)
	}

	d, ok := deck.ByID(scaleID)
	if !ok {
		d, _ = deck.ByID(deck.Fibonacci)
	}

	results := models.RoundResults{
		RoomID:    roomID,
		Round:     round,
		Story:     story,
		VoteCount: len(cards),
		Counts:    countVotes(d, cards),
	}

	if !d.IsNumeric() {
		results.DecisionError = msgNonNumericDeck
		return results, nil
	}

	votes := deck.NumericVotes(cards)
	if scale, err := estimate.NewScale(d.NumericValues()...); err == nil {
		convergence := estimate.Summarize(scale, votes)
		results.Convergence = &convergence
	}

	if d.ID != deck.Fibonacci {
		results.DecisionError = msgNotFibonacci
		return results, nil
	}

	decision, err := estimate.Decide(votes)
	if err != nil {
		// Off-scale cards such as 34 are a data problem, not a server error
		results.DecisionError = err.Error()
		return results, nil
	}
	results.Decision = &decision
	results.DecisionLabel = decision.Kind.Label()

	return results, nil
}

// countVotes groups cards in deck order; cards no longer in the deck sort last
func countVotes(d deck.Deck, cards []string) []models.VoteCount {
	counts := make(map[string]int)
	for _, c := range cards {
		counts[c]++
	}

	position := make(map[string]int, len(d.Cards))
	for i, c := range d.Cards {
		position[c] = i
	}

	out := make([]models.VoteCount, 0, len(counts))
	for card, n := range counts {
		out = append(out, models.VoteCount{Vote: card, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		pi, iKnown := position[out[i].Vote]
		pj, jKnown := position[out[j].Vote]
		if iKnown != jKnown {
			return iKnown
		}
		if iKnown {
			return pi < pj
		}
		return out[i].Vote < out[j].Vote
	})

	return out
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package deck

import (
	"slices"
	"strconv"
)

// Deck ids
const (
	Fibonacci   = "fibonacci"
	TShirt      = "tshirt"
	PowersOfTwo = "powers-of-two"
	Linear      = "linear"
	Custom      = "custom"
)

// Deck is a set of cards participants can play in a room
type Deck struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cards       []string `json:"cards"`
}

var all = []Deck{
	{
		ID:          Fibonacci,
		Name:        "Fibonacci",
		Description: "1, 2, 3, 5, 8, 13, 21, 34, 55, 89",
		Cards:       []string{"1", "2", "3", "5", "8", "13", "21", "34", "55", "89", "☕", "?"},
	},
	{
		ID:          TShirt,
		Name:        "T-Shirt Sizes",
		Description: "XS, S, M, L, XL",
		Cards:       []string{"XS", "S", "M", "L", "XL", "?"},
	},
	{
		ID:          PowersOfTwo,
		Name:        "Powers of Two",
		Description: "1, 2, 4, 8, 16, 32",
		Cards:       []string{"1", "2", "4", "8", "16", "32", "?"},
	},
	{
		ID:          Linear,
		Name:        "Linear",
		Description: "1, 2, 3, 4, 5",
		Cards:       []string{"1", "2", "3", "4", "5", "?"},
	},
	{
		ID:          Custom,
		Name:        "Custom",
		Description: "Custom scale",
		Cards:       []string{"1", "2", "3", "4", "5", "8", "13", "☕", "?"},
	},
}

// All returns every deck in display order
func All() []Deck {
	out := make([]Deck, len(all))
	for i, d := range all {
		out[i] = d
		out[i].Cards = slices.Clone(d.Cards)
	}
	return out
}

// ByID looks up a deck by id
func ByID(id string) (Deck, bool) {
	for _, d := range all {
		if d.ID == id {
			d.Cards = slices.Clone(d.Cards)
			return d, true
		}
	}
	return Deck{}, false
}

// CardsFor returns the cards of the deck, falling back to fibonacci for unknown ids
func CardsFor(id string) []string {
	if d, ok := ByID(id); ok {
		return d.Cards
	}
	return slices.Clone(all[0].Cards)
}

// HasCard reports whether card belongs to the deck
func (d Deck) HasCard(card string) bool {
	return slices.Contains(d.Cards, card)
}

// IsNumeric reports whether the deck has any numeric cards at all
func (d Deck) IsNumeric() bool {
	for _, c := range d.Cards {
		if _, ok := numericCard(c); ok {
			return true
		}
	}
	return false
}

// NumericValues returns the deck's numeric cards in deck order
func (d Deck) NumericValues() []int {
	return NumericVotes(d.Cards)
}

// NumericVotes converts played cards to integer votes.
// Abstentions ("?", "☕") and other non-numeric cards are skipped.
func NumericVotes(cards []string) []int {
	votes := make([]int, 0, len(cards))
	for _, c := range cards {
		if v, ok := numericCard(c); ok {
			votes = append(votes, v)
		}
	}
	return votes
}

func numericCard(card string) (int, bool) {
	v, err := strconv.Atoi(card)
	if err != nil {
		return 0, false
	}
	return v, true
}

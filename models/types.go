package models

import (
	"time"

	"github.com/danielhkuo/poker-shield/deck"
	"github.com/danielhkuo/poker-shield/estimate"
)

// Name length limits shared by rooms and participants
const (
	MinNameLength = 2
	MaxNameLength = 50
)

// Request types

type CreateRoomRequest struct {
	Name            string `json:"name"`
	EstimationScale string `json:"estimation_scale"`
	Story           string `json:"story"`
}

type SetStoryRequest struct {
	Story string `json:"story"`
}

type SetScaleRequest struct {
	EstimationScale string `json:"estimation_scale"`
}

type JoinRoomRequest struct {
	DisplayName string `json:"display_name"`
}

// Empty Vote retracts the participant's vote for the current round
type CastVoteRequest struct {
	Vote string `json:"vote"`
}

type DecideRequest struct {
	Votes []int `json:"votes"`
}

// Response types

type CreateRoomResponse struct {
	RoomID       string `json:"room_id"`
	Name         string `json:"name"`
	ModeratorKey string `json:"moderator_key"`
	ShareURL     string `json:"share_url"`
}

type JoinRoomResponse struct {
	ParticipantID    string `json:"participant_id"`
	ParticipantToken string `json:"participant_token"`
}

type CastVoteResponse struct {
	Round   int    `json:"round"`
	Message string `json:"message"`
}

type RoundResponse struct {
	Round         int  `json:"round"`
	VotesRevealed bool `json:"votes_revealed"`
}

type DecisionResponse struct {
	Decision    estimate.Decision    `json:"decision"`
	Label       string               `json:"label"`
	Convergence estimate.Convergence `json:"convergence"`
}

type ScalesResponse struct {
	Scales []deck.Deck `json:"scales"`
}

// Domain types

type Room struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	EstimationScale string    `json:"estimation_scale"`
	CurrentStory    *string   `json:"current_story,omitempty"`
	Round           int       `json:"round"`
	VotesRevealed   bool      `json:"votes_revealed"`
	CreatedAt       time.Time `json:"created_at"`
}

type Participant struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"-"` // Never expose in JSON
	HasVoted    bool      `json:"has_voted"`
	Vote        *string   `json:"vote,omitempty"` // Only set once votes are revealed
	JoinedAt    time.Time `json:"joined_at"`
}

type RoomState struct {
	Room         Room          `json:"room"`
	Cards        []string      `json:"cards"`
	Participants []Participant `json:"participants"`
}

// Result types

type VoteCount struct {
	Vote  string `json:"vote"`
	Count int    `json:"count"`
}

type RoundResults struct {
	RoomID        string                `json:"room_id"`
	Round         int                   `json:"round"`
	Story         *string               `json:"story,omitempty"`
	VoteCount     int                   `json:"vote_count"`
	Counts        []VoteCount           `json:"counts"`
	Decision      *estimate.Decision    `json:"decision,omitempty"`
	DecisionLabel string                `json:"decision_label,omitempty"`
	DecisionError string                `json:"decision_error,omitempty"`
	Convergence   *estimate.Convergence `json:"convergence,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

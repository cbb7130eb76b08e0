// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateRoomRequest: name, estimation_scale, story
  - SetStoryRequest: story
  - SetScaleRequest: estimation_scale
  - JoinRoomRequest: display_name
  - CastVoteRequest: vote (empty retracts)
  - DecideRequest: votes

# Response Types

  - CreateRoomResponse: room_id, name, moderator_key, share_url
  - JoinRoomResponse: participant_id, participant_token
  - CastVoteResponse: round, message
  - RoundResponse: round, votes_revealed
  - DecisionResponse: decision, label, convergence
  - ScalesResponse: scales
  - ErrorResponse: error, message

# Domain Types

  - Room: room metadata, current round, reveal state
  - Participant: a person in a room; vote only visible after reveal
  - RoomState: room, deck cards, participants
  - RoundResults: vote counts, recommendation and convergence for a round

Decision and Convergence come from the estimate package.
*/
package models

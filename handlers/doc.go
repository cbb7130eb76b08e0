// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the PokerShield API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - RoomHandler: Room lifecycle (create, story, scale, reveal, reset)
  - ParticipantHandler: Joining, leaving and casting votes
  - ResultsHandler: Round results and the stateless decision endpoint

Handlers are created via constructor functions that accept *sql.DB and Config:

	roomHandler := handlers.NewRoomHandler(db, cfg)

# Rounds

A room plays one round at a time. Votes stay hidden until the moderator
reveals them; a reset records the finished round and starts the next one.

	POST /rooms                 → CreateRoom (returns moderator_key)
	POST /rooms/{name}/reveal   → RevealVotes
	POST /rooms/{name}/reset    → ResetVotes

Moderator operations require the X-Moderator-Key header.

# Voting Flow

	POST /rooms/{name}/participants → JoinRoom (returns participant_token)
	POST /rooms/{name}/votes        → CastVote (create, change or retract)

Participant operations require the X-Participant-Token header.

# Recommendations

Once a round is revealed its numeric cards are fed to the estimate engine:

	results, err := ComputeRoundResults(ctx, db, roomID, round, scale, story)

Rooms on a non-numeric deck, or with cards beyond the engine's scale, get
their vote counts with a decision_error instead of a decision.
*/
package handlers

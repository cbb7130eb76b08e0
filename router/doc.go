// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the PokerShield API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and stateless helpers:

	GET  /health  - Liveness
	GET  /scales  - Available estimation decks
	POST /decide  - Recommendation for raw votes

Room management (moderator, requires X-Moderator-Key except create/get):

	POST /rooms               - Create room
	GET  /rooms/{name}        - Room state and participants
	POST /rooms/{name}/story  - Set current story
	POST /rooms/{name}/scale  - Change deck
	POST /rooms/{name}/reveal - Reveal votes
	POST /rooms/{name}/reset  - Start next round

Participants (requires X-Participant-Token except join):

	POST   /rooms/{name}/participants    - Join
	DELETE /rooms/{name}/participants/me - Leave
	POST   /rooms/{name}/votes           - Cast, change or retract a vote

Results:

	GET /rooms/{name}/results                - Current round (revealed only)
	GET /rooms/{name}/rounds/{round}/results - Any finished round

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router

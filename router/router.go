// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/poker-shield/cliparse"
	"github.com/danielhkuo/poker-shield/handlers"
	"github.com/danielhkuo/poker-shield/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Stateless
	mux.HandleFunc("GET /scales", middleware.WithLogging(roomHandler.ListScales))
	mux.HandleFunc("POST /decide", middleware.WithLogging(resultsHandler.Decide))

	// Room management (moderator operations)
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms/{name}", middleware.WithLogging(roomHandler.GetRoom))
	mux.HandleFunc("POST /rooms/{name}/story", middleware.WithLogging(roomHandler.SetStory))
	mux.HandleFunc("POST /rooms/{name}/scale", middleware.WithLogging(roomHandler.SetScale))
	mux.HandleFunc("POST /rooms/{name}/reveal", middleware.WithLogging(roomHandler.RevealVotes))
	mux.HandleFunc("POST /rooms/{name}/reset", middleware.WithLogging(roomHandler.ResetVotes))

	// Participants
	mux.HandleFunc("POST /rooms/{name}/participants", middleware.WithLogging(participantHandler.JoinRoom))
	mux.HandleFunc("DELETE /rooms/{name}/participants/me", middleware.WithLogging(participantHandler.LeaveRoom))
	mux.HandleFunc("POST /rooms/{name}/votes", middleware.WithLogging(participantHandler.CastVote))

	// Results (sealed until reveal)
	mux.HandleFunc("GET /rooms/{name}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /rooms/{name}/rounds/{round}/results", middleware.WithLogging(resultsHandler.GetRoundResults))

	// Root endpoint, exact match only
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("poker-shield API v1"))
	})

	return mux
}

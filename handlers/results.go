// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/poker-shield/cliparse"
	"github.com/danielhkuo/poker-shield/estimate"
	"github.com/danielhkuo/poker-shield/middleware"
	"github.com/danielhkuo/poker-shield/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /rooms/{name}/results
// Results of the running round are sealed until the moderator reveals them
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	room, ok := lookupRoom(w, r, h.db)
	if !ok {
		return
	}

	if !room.VotesRevealed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Votes have not been revealed yet")
		return
	}

	h.writeResults(w, r, room.ID, room.Round, room.EstimationScale, room.CurrentStory)
}

// GetRoundResults handles GET /rooms/{name}/rounds/{round}/results
func (h *ResultsHandler) GetRoundResults(w http.ResponseWriter, r *http.Request) {
	room, ok := lookupRoom(w, r, h.db)
	if !ok {
		return
	}

	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round must be a number")
		return
	}
	if round < 1 || round > room.Round {
		middleware.ErrorResponse(w, http.StatusNotFound, "Round not found")
		return
	}

	if round == room.Round {
		if !room.VotesRevealed {
			middleware.ErrorResponse(w, http.StatusForbidden, "Votes have not been revealed yet")
			return
		}
		h.writeResults(w, r, room.ID, round, room.EstimationScale, room.CurrentStory)
		return
	}

	story, scale, err := getRoundRecord(r.Context(), h.db, room.ID, round)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Round not found")
		return
	}
	if err != nil {
		slog.Error("failed to query round record", "error", err, "room_id", room.ID, "round", round)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.writeResults(w, r, room.ID, round, scale, story)
}

func (h *ResultsHandler) writeResults(w http.ResponseWriter, r *http.Request, roomID string, round int, scale string, story *string) {
	results, err := ComputeRoundResults(r.Context(), h.db, roomID, round, scale, story)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "room_id", roomID, "round", round)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// Decide handles POST /decide
// Runs the engine on raw votes without touching any room
func (h *ResultsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req models.DecideRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	decision, err := estimate.Decide(req.Votes)
	if err != nil {
		var invalid *estimate.InvalidVoteError
		if errors.As(err, &invalid) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to decide", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to decide")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DecisionResponse{
		Decision:    decision,
		Label:       decision.Kind.Label(),
		Convergence: estimate.Summarize(estimate.Fibonacci, req.Votes),
	})
}

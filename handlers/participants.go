// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/poker-shield/auth"
	"github.com/danielhkuo/poker-shield/cliparse"
	"github.com/danielhkuo/poker-shield/deck"
	"github.com/danielhkuo/poker-shield/middleware"
	"github.com/danielhkuo/poker-shield/models"
)

type ParticipantHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg}
}

// JoinRoom handles POST /rooms/{name}/participants
func (h *ParticipantHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := lookupRoom(w, r, h.db)
	if !ok {
		return
	}

	var req models.JoinRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if n := utf8.RuneCountInString(displayName); n < models.MinNameLength || n > models.MaxNameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 2-50 characters")
		return
	}

	token, err := auth.GenerateParticipantToken()
	if err != nil {
		slog.Error("failed to generate participant token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
		return
	}

	participantID := uuid.NewString()

	// The partial unique index keeps display names unique among present participants
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO participant (id, room_id, display_name, token, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, participantID, room.ID, displayName, token, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Display name already taken")
			return
		}
		slog.Error("failed to insert participant", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
		return
	}

	slog.Info("participant joined", "room_id", room.ID, "participant_id", participantID)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinRoomResponse{
		ParticipantID:    participantID,
		ParticipantToken: token,
	})
}

// LeaveRoom handles DELETE /rooms/{name}/participants/me
// A vote in the running round is withdrawn, votes in finished rounds are kept
func (h *ParticipantHandler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	room, participant, ok := h.loadParticipant(w, r)
	if !ok {
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(r.Context(), `
		UPDATE participant SET left_at = $1 WHERE id = $2 AND left_at IS NULL
	`, time.Now(), participant.ID)
	if err != nil {
		slog.Error("failed to mark participant as left", "error", err, "participant_id", participant.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to leave room")
		return
	}

	_, err = tx.ExecContext(r.Context(), `
		DELETE FROM vote
		WHERE room_id = $1 AND participant_id = $2
		  AND round = (SELECT round FROM room WHERE id = $1)
		  AND NOT EXISTS (SELECT 1 FROM room WHERE id = $1 AND votes_revealed)
	`, room.ID, participant.ID)
	if err != nil {
		slog.Error("failed to withdraw vote", "error", err, "participant_id", participant.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to leave room")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to leave room")
		return
	}

	slog.Info("participant left", "room_id", room.ID, "participant_id", participant.ID)

	w.WriteHeader(http.StatusNoContent)
}

// CastVote handles POST /rooms/{name}/votes
// Voting again replaces the previous card; an empty vote retracts it
func (h *ParticipantHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	room, participant, ok := h.loadParticipant(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if room.VotesRevealed {
		middleware.ErrorResponse(w, http.StatusConflict, "Votes are revealed; wait for the next round")
		return
	}

	if req.Vote == "" {
		h.retractVote(w, r, room, participant)
		return
	}

	d, ok := deck.ByID(room.EstimationScale)
	if !ok || !d.HasCard(req.Vote) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Card is not part of the room's deck: "+req.Vote)
		return
	}

	// Only lands if the round is still the one we loaded and still hidden
	res, err := h.db.ExecContext(r.Context(), `
		INSERT INTO vote (room_id, round, participant_id, card, cast_at)
		SELECT CAST($1 AS TEXT), CAST($2 AS INTEGER), CAST($3 AS TEXT), CAST($4 AS TEXT), CURRENT_TIMESTAMP
		WHERE EXISTS (
			SELECT 1 FROM room WHERE id = $1 AND round = $2 AND votes_revealed = FALSE
		)
		ON CONFLICT (room_id, round, participant_id)
		DO UPDATE SET card = excluded.card, cast_at = excluded.cast_at
	`, room.ID, room.Round, participant.ID, req.Vote)
	if err != nil {
		slog.Error("failed to upsert vote", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	if n, err := res.RowsAffected(); err != nil || n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Round changed; vote not recorded")
		return
	}

	slog.Info("vote cast", "room_id", room.ID, "round", room.Round, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Round:   room.Round,
		Message: "Vote recorded",
	})
}

func (h *ParticipantHandler) retractVote(w http.ResponseWriter, r *http.Request, room models.Room, participant models.Participant) {
	_, err := h.db.ExecContext(r.Context(), `
		DELETE FROM vote WHERE room_id = $1 AND round = $2 AND participant_id = $3
	`, room.ID, room.Round, participant.ID)
	if err != nil {
		slog.Error("failed to retract vote", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to retract vote")
		return
	}

	slog.Info("vote retracted", "room_id", room.ID, "round", room.Round, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Round:   room.Round,
		Message: "Vote retracted",
	})
}

// loadParticipant resolves the room and the caller identified by X-Participant-Token
func (h *ParticipantHandler) loadParticipant(w http.ResponseWriter, r *http.Request) (models.Room, models.Participant, bool) {
	room, ok := lookupRoom(w, r, h.db)
	if !ok {
		return room, models.Participant{}, false
	}

	token := r.Header.Get("X-Participant-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-Token header is required")
		return room, models.Participant{}, false
	}
	if err := auth.ValidateTokenFormat(token); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token")
		return room, models.Participant{}, false
	}

	participant, err := getParticipantByToken(r.Context(), h.db, room.ID, token)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token")
		return room, participant, false
	}
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return room, participant, false
	}

	return room, participant, true
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/danielhkuo/poker-shield/auth"
	"github.com/danielhkuo/poker-shield/cliparse"
	"github.com/danielhkuo/poker-shield/deck"
	"github.com/danielhkuo/poker-shield/middleware"
	"github.com/danielhkuo/poker-shield/models"
)

// Room names are used in URLs
var roomNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$`)

// Attempts at picking an unused generated room name
const roomNameAttempts = 5

type RoomHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRoomHandler(db *sql.DB, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{db: db, cfg: cfg}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name != "" && !roomNamePattern.MatchString(name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 3-50 lowercase letters, digits or hyphens")
		return
	}

	scale := req.EstimationScale
	if scale == "" {
		scale = deck.Fibonacci
	}
	if _, ok := deck.ByID(scale); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown estimation_scale: "+scale)
		return
	}

	var story *string
	if s := strings.TrimSpace(req.Story); s != "" {
		story = &s
	}

	roomID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate room ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	generated := name == ""
	for attempt := 0; ; attempt++ {
		if generated {
			name, err = auth.GenerateRoomName()
			if err != nil {
				slog.Error("failed to generate room name", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
				return
			}
		}

		_, err = h.db.ExecContext(r.Context(), `
			INSERT INTO room (id, name, estimation_scale, current_story, round, votes_revealed, created_at)
			VALUES ($1, $2, $3, $4, 1, FALSE, $5)
		`, roomID, name, scale, story, time.Now())
		if err == nil {
			break
		}

		if isUniqueViolation(err) {
			if !generated {
				middleware.ErrorResponse(w, http.StatusConflict, "Room name already taken")
				return
			}
			if attempt+1 < roomNameAttempts {
				continue
			}
		}
		slog.Error("failed to insert room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	slog.Info("room created", "room_id", roomID, "name", name, "scale", scale)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		RoomID:       roomID,
		Name:         name,
		ModeratorKey: auth.GenerateModeratorKey(roomID, h.cfg.ModeratorKeySalt),
		ShareURL:     strings.TrimRight(h.cfg.PublicBaseURL, "/") + "/room/" + name,
	})
}

// GetRoom handles GET /rooms/{name}
// Votes stay hidden until the moderator reveals them
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := h.loadRoom(w, r)
	if !ok {
		return
	}

	participants, err := getParticipants(r.Context(), h.db, room.ID, room.Round, room.VotesRevealed)
	if err != nil {
		slog.Error("failed to query participants", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomState{
		Room:         room,
		Cards:        deck.CardsFor(room.EstimationScale),
		Participants: participants,
	})
}

// ListScales handles GET /scales
func (h *RoomHandler) ListScales(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ScalesResponse{Scales: deck.All()})
}

// SetStory handles POST /rooms/{name}/story
func (h *RoomHandler) SetStory(w http.ResponseWriter, r *http.Request) {
	room, ok := h.loadModeratedRoom(w, r)
	if !ok {
		return
	}

	var req models.SetStoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var story *string
	if s := strings.TrimSpace(req.Story); s != "" {
		story = &s
	}

	_, err := h.db.ExecContext(r.Context(), `
		UPDATE room SET current_story = $1 WHERE id = $2
	`, story, room.ID)
	if err != nil {
		slog.Error("failed to update story", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update story")
		return
	}

	room.CurrentStory = story
	slog.Info("story updated", "room_id", room.ID)

	middleware.JSONResponse(w, http.StatusOK, room)
}

// SetScale handles POST /rooms/{name}/scale
// Votes of the current round are discarded since their cards may not exist in the new deck
func (h *RoomHandler) SetScale(w http.ResponseWriter, r *http.Request) {
	room, ok := h.loadModeratedRoom(w, r)
	if !ok {
		return
	}

	var req models.SetScaleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, ok := deck.ByID(req.EstimationScale); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown estimation_scale: "+req.EstimationScale)
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
		UPDATE room SET estimation_scale = $1, votes_revealed = FALSE WHERE id = $2
	`, req.EstimationScale, room.ID)
	if err != nil {
		slog.Error("failed to update scale", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update scale")
		return
	}

	_, err = tx.ExecContext(r.Context(), `
		DELETE FROM vote WHERE room_id = $1 AND round = $2
	`, room.ID, room.Round)
	if err != nil {
		slog.Error("failed to clear votes", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update scale")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update scale")
		return
	}

	room.EstimationScale = req.EstimationScale
	room.VotesRevealed = false
	slog.Info("scale changed", "room_id", room.ID, "scale", req.EstimationScale)

	middleware.JSONResponse(w, http.StatusOK, room)
}

// RevealVotes handles POST /rooms/{name}/reveal
func (h *RoomHandler) RevealVotes(w http.ResponseWriter, r *http.Request) {
	room, ok := h.loadModeratedRoom(w, r)
	if !ok {
		return
	}

	// Conditional update so two moderators cannot both reveal
	res, err := h.db.ExecContext(r.Context(), `
		UPDATE room SET votes_revealed = TRUE
		WHERE id = $1 AND round = $2 AND votes_revealed = FALSE
	`, room.ID, room.Round)
	if err != nil {
		slog.Error("failed to reveal votes", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reveal votes")
		return
	}

	if n, err := res.RowsAffected(); err != nil || n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Votes are already revealed")
		return
	}

	slog.Info("votes revealed", "room_id", room.ID, "round", room.Round)

	middleware.JSONResponse(w, http.StatusOK, models.RoundResponse{
		Round:         room.Round,
		VotesRevealed: true,
	})
}

// ResetVotes handles POST /rooms/{name}/reset
// The finished round is recorded and a new, hidden round starts
func (h *RoomHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	room, ok := h.loadModeratedRoom(w, r)
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

	res, err := tx.ExecContext(r.Context(), `
		UPDATE room SET round = round + 1, votes_revealed = FALSE
		WHERE id = $1 AND round = $2
	`, room.ID, room.Round)
	if err != nil {
		slog.Error("failed to advance round", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset votes")
		return
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Round was already reset")
		return
	}

	_, err = tx.ExecContext(r.Context(), `
		INSERT INTO round_record (room_id, round, story, estimation_scale, closed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, room.ID, room.Round, room.CurrentStory, room.EstimationScale, time.Now())
	if err != nil {
		slog.Error("failed to record round", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset votes")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset votes")
		return
	}

	slog.Info("votes reset", "room_id", room.ID, "round", room.Round+1)

	middleware.JSONResponse(w, http.StatusOK, models.RoundResponse{
		Round:         room.Round + 1,
		VotesRevealed: false,
	})
}

// loadRoom resolves the {name} path value, writing the error response on failure
func (h *RoomHandler) loadRoom(w http.ResponseWriter, r *http.Request) (models.Room, bool) {
	return lookupRoom(w, r, h.db)
}

// loadModeratedRoom is loadRoom plus a check of the X-Moderator-Key header
func (h *RoomHandler) loadModeratedRoom(w http.ResponseWriter, r *http.Request) (models.Room, bool) {
	room, ok := lookupRoom(w, r, h.db)
	if !ok {
		return room, false
	}

	key := r.Header.Get("X-Moderator-Key")
	if err := auth.ValidateModeratorKey(room.ID, key, h.cfg.ModeratorKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid moderator key")
		return room, false
	}
	return room, true
}

func lookupRoom(w http.ResponseWriter, r *http.Request, db *sql.DB) (models.Room, bool) {
	name := r.PathValue("name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room name is required")
		return models.Room{}, false
	}

	room, err := getRoomByName(r.Context(), db, name)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return room, false
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return room, false
	}
	return room, true
}

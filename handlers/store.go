// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/poker-shield/models"
)

// getRoomByName loads a room by its public name
func getRoomByName(ctx context.Context, db *sql.DB, name string) (models.Room, error) {
	var room models.Room
	err := db.QueryRowContext(ctx, `
		SELECT id, name, estimation_scale, current_story, round, votes_revealed, created_at
		FROM room
		WHERE name = $1
	`, name).Scan(
		&room.ID, &room.Name, &room.EstimationScale, &room.CurrentStory,
		&room.Round, &room.VotesRevealed, &room.CreatedAt,
	)
	return room, err
}

// getParticipantByToken finds a present participant of the room by their secret token
func getParticipantByToken(ctx context.Context, db *sql.DB, roomID, token string) (models.Participant, error) {
	var p models.Participant
	err := db.QueryRowContext(ctx, `
		SELECT id, room_id, display_name, joined_at
		FROM participant
		WHERE room_id = $1 AND token = $2 AND left_at IS NULL
	`, roomID, token).Scan(&p.ID, &p.RoomID, &p.DisplayName, &p.JoinedAt)
	return p, err
}

// getParticipants lists present participants with their vote for the given round.
// Votes are only filled in when reveal is true.
func getParticipants(ctx context.Context, db *sql.DB, roomID string, round int, reveal bool) ([]models.Participant, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.room_id, p.display_name, p.joined_at, v.card
		FROM participant p
		LEFT JOIN vote v
		  ON v.participant_id = p.id AND v.room_id = p.room_id AND v.round = $2
		WHERE p.room_id = $1 AND p.left_at IS NULL
		ORDER BY p.joined_at, p.id
	`, roomID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		var card sql.NullString
		if err := rows.Scan(&p.ID, &p.RoomID, &p.DisplayName, &p.JoinedAt, &card); err != nil {
			return nil, err
		}
		p.HasVoted = card.Valid
		if reveal && card.Valid {
			vote := card.String
			p.Vote = &vote
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// GetVotesForRound returns every card played in one round of a room.
// Departed participants keep the votes they cast in finished rounds.
func GetVotesForRound(ctx context.Context, db *sql.DB, roomID string, round int) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT card FROM vote
		WHERE room_id = $1 AND round = $2
		ORDER BY cast_at, participant_id
	`, roomID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	cards := []string{}
	for rows.Next() {
		var card string
		if err := rows.Scan(&card); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// getRoundRecord returns the story and deck a finished round was played with
func getRoundRecord(ctx context.Context, db *sql.DB, roomID string, round int) (story *string, scale string, err error) {
	err = db.QueryRowContext(ctx, `
		SELECT story, estimation_scale FROM round_record
		WHERE room_id = $1 AND round = $2
	`, roomID, round).Scan(&story, &scale)
	return story, scale, err
}

// isUniqueViolation recognizes unique constraint failures from both drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

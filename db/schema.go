// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite, so it sticks to the common subset.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    estimation_scale TEXT NOT NULL DEFAULT 'fibonacci',
    current_story TEXT,
    round INTEGER NOT NULL DEFAULT 1 CHECK (round >= 1),
    votes_revealed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    left_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_participant_room_id ON participant(room_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_participant_room_name ON participant(room_id, display_name) WHERE left_at IS NULL;

-- Votes, one per participant per round
CREATE TABLE IF NOT EXISTS vote (
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    round INTEGER NOT NULL,
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    card TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (room_id, round, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_room_round ON vote(room_id, round);

-- Finished rounds, recorded on reset
CREATE TABLE IF NOT EXISTS round_record (
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    round INTEGER NOT NULL,
    story TEXT,
    estimation_scale TEXT NOT NULL,
    closed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (room_id, round)
);
`

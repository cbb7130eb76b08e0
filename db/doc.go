// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

  - room: room metadata, current round, reveal state
  - participant: people in a room; left_at marks departures
  - vote: one card per participant per round
  - round_record: story and deck of every finished round

# Relationships

	room 1──* participant
	room 1──* vote
	participant 1──* vote
	room 1──* round_record

All foreign keys use ON DELETE CASCADE.

# Indexes

  - room.name (unique)
  - participant.token (unique)
  - participant.(room_id, display_name) unique among present participants
  - vote.(room_id, round)
*/
package db

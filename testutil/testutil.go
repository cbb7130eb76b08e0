// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/poker-shield/auth"
	"github.com/danielhkuo/poker-shield/cliparse"
	"github.com/danielhkuo/poker-shield/db"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "poker-shield.db")
	conn, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// SQLite allows one writer; serialize through a single connection
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      "file::memory:",
		DatabaseType:     cliparse.DatabaseSQLite,
		ModeratorKeySalt: "test-moderator-salt",
		PublicBaseURL:    "http://localhost:5173",
	}
}

// CreateTestRoom creates a room on the given deck and returns its ID and moderator key
func CreateTestRoom(t *testing.T, db *sql.DB, cfg cliparse.Config, name, scale string) (roomID, moderatorKey string) {
	t.Helper()

	roomID, _ = auth.GenerateID(16)
	moderatorKey = auth.GenerateModeratorKey(roomID, cfg.ModeratorKeySalt)

	_, err := db.Exec(`
		INSERT INTO room (id, name, estimation_scale, current_story, round, votes_revealed, created_at)
		VALUES ($1, $2, $3, 'Test story', 1, FALSE, $4)
	`, roomID, name, scale, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return roomID, moderatorKey
}

// AddTestParticipant joins a participant to a room and returns their ID and token
func AddTestParticipant(t *testing.T, db *sql.DB, roomID, displayName string) (participantID, token string) {
	t.Helper()

	participantID, _ = auth.GenerateID(16)
	token, _ = auth.GenerateParticipantToken()
	_, err := db.Exec(`
		INSERT INTO participant (id, room_id, display_name, token, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, participantID, roomID, displayName, token, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participantID, token
}

// CastTestVote stores a card for a participant in the given round
func CastTestVote(t *testing.T, db *sql.DB, roomID string, round int, participantID, card string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO vote (room_id, round, participant_id, card, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, roomID, round, participantID, card, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// RevealTestRoom marks the current round of a room as revealed
func RevealTestRoom(t *testing.T, db *sql.DB, roomID string) {
	t.Helper()

	if _, err := db.Exec(`UPDATE room SET votes_revealed = TRUE WHERE id = $1`, roomID); err != nil {
		t.Fatalf("Failed to reveal test room: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/poker-shield/deck"
	"github.com/danielhkuo/poker-shield/models"
	"github.com/danielhkuo/poker-shield/testutil"
)

func TestJoinRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewParticipantHandler(db, cfg)

	roomID, _ := testutil.CreateTestRoom(t, db, cfg, "join-me", deck.Fibonacci)
	testutil.AddTestParticipant(t, db, roomID, "Taken")

	tests := []struct {
		name           string
		roomName       string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.JoinRoomResponse)
	}{
		{
			name:           "valid join",
			roomName:       "join-me",
			requestBody:    models.JoinRoomRequest{DisplayName: "  Alice "},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.JoinRoomResponse) {
				if resp.ParticipantID == "" || resp.ParticipantToken == "" {
					t.Fatal("Expected participant_id and participant_token")
				}

				var name, token string
				err := db.QueryRow(`
					SELECT display_name, token FROM participant WHERE id = $1
				`, resp.ParticipantID).Scan(&name, &token)
				if err != nil {
					t.Fatalf("Failed to query participant: %v", err)
				}
				if name != "Alice" {
					t.Errorf("Expected trimmed name 'Alice', got '%s'", name)
				}
				if token != resp.ParticipantToken {
					t.Error("Participant token mismatch")
				}
			},
		},
		{
			name:           "duplicate display name",
			roomName:       "join-me",
			requestBody:    models.JoinRoomRequest{DisplayName: "Taken"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "display name too short",
			roomName:       "join-me",
			requestBody:    models.JoinRoomRequest{DisplayName: "A"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing display name",
			roomName:       "join-me",
			requestBody:    models.JoinRoomRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown room",
			roomName:       "nowhere",
			requestBody:    models.JoinRoomRequest{DisplayName: "Bob"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/rooms/"+tt.roomName+"/participants", tt.requestBody, nil)
			req.SetPathValue("name", tt.roomName)
			w := httptest.NewRecorder()

			handler.JoinRoom(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var resp models.JoinRoomResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewParticipantHandler(db, cfg)

	roomID, _ := testutil.CreateTestRoom(t, db, cfg, "voting", deck.Fibonacci)
	alice, aliceToken := testutil.AddTestParticipant(t, db, roomID, "Alice")

	vote := func(token, card string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/rooms/voting/votes", models.CastVoteRequest{Vote: card}, map[string]string{
			"X-Participant-Token": token,
		})
		req.SetPathValue("name", "voting")
		w := httptest.NewRecorder()
		handler.CastVote(w, req)
		return w
	}

	storedCard := func() (string, bool) {
		var card string
		err := db.QueryRow(`
			SELECT card FROM vote WHERE room_id = $1 AND round = 1 AND participant_id = $2
		`, roomID, alice).Scan(&card)
		return card, err == nil
	}

	t.Run("cast", func(t *testing.T) {
		w := vote(aliceToken, "5")
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Round != 1 {
			t.Errorf("Expected round 1, got %d", resp.Round)
		}
		if card, ok := storedCard(); !ok || card != "5" {
			t.Errorf("Expected stored card 5, got %q", card)
		}
	})

	t.Run("change", func(t *testing.T) {
		testutil.AssertStatus(t, vote(aliceToken, "?"), http.StatusCreated)
		if card, _ := storedCard(); card != "?" {
			t.Errorf("Expected stored card ?, got %q", card)
		}

		var n int
		db.QueryRow(`SELECT COUNT(*) FROM vote WHERE room_id = $1`, roomID).Scan(&n)
		if n != 1 {
			t.Errorf("Expected a single vote row, got %d", n)
		}
	})

	t.Run("card not in deck", func(t *testing.T) {
		testutil.AssertStatus(t, vote(aliceToken, "XL"), http.StatusBadRequest)
	})

	t.Run("retract", func(t *testing.T) {
		testutil.AssertStatus(t, vote(aliceToken, ""), http.StatusOK)
		if _, ok := storedCard(); ok {
			t.Error("Expected vote to be retracted")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		testutil.AssertStatus(t, vote("", "5"), http.StatusUnauthorized)
	})

	t.Run("malformed token", func(t *testing.T) {
		testutil.AssertStatus(t, vote("short", "5"), http.StatusUnauthorized)
	})

	t.Run("unknown token", func(t *testing.T) {
		testutil.AssertStatus(t, vote("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "5"), http.StatusUnauthorized)
	})

	t.Run("after reveal", func(t *testing.T) {
		testutil.RevealTestRoom(t, db, roomID)
		testutil.AssertStatus(t, vote(aliceToken, "8"), http.StatusConflict)
	})
}

func TestLeaveRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewParticipantHandler(db, cfg)

	roomID, _ := testutil.CreateTestRoom(t, db, cfg, "leaving", deck.Fibonacci)
	alice, token := testutil.AddTestParticipant(t, db, roomID, "Alice")
	testutil.CastTestVote(t, db, roomID, 1, alice, "8")

	req := testutil.MakeRequest("DELETE", "/rooms/leaving/participants/me", nil, map[string]string{
		"X-Participant-Token": token,
	})
	req.SetPathValue("name", "leaving")
	w := httptest.NewRecorder()
	handler.LeaveRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	var votes int
	db.QueryRow(`SELECT COUNT(*) FROM vote WHERE room_id = $1`, roomID).Scan(&votes)
	if votes != 0 {
		t.Errorf("Expected the running round's vote to be withdrawn, got %d", votes)
	}

	// The name is free again and the old token no longer works
	testutil.AddTestParticipant(t, db, roomID, "Alice")

	req = testutil.MakeRequest("DELETE", "/rooms/leaving/participants/me", nil, map[string]string{
		"X-Participant-Token": token,
	})
	req.SetPathValue("name", "leaving")
	w = httptest.NewRecorder()
	handler.LeaveRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

// TestConcurrentVotes verifies that simultaneous votes from many participants
// and repeated votes from the same participant leave exactly one row each
func TestConcurrentVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewParticipantHandler(db, cfg)

	roomID, _ := testutil.CreateTestRoom(t, db, cfg, "busy", deck.Fibonacci)

	numParticipants := 10
	tokens := make([]string, numParticipants)
	for i := range numParticipants {
		_, tokens[i] = testutil.AddTestParticipant(t, db, roomID, fmt.Sprintf("Voter%02d", i))
	}

	cards := []string{"3", "5", "8"}
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := range numParticipants {
		for _, card := range cards {
			wg.Add(1)
			go func(token, card string) {
				defer wg.Done()

				req := testutil.MakeRequest("POST", "/rooms/busy/votes", models.CastVoteRequest{Vote: card}, map[string]string{
					"X-Participant-Token": token,
				})
				req.SetPathValue("name", "busy")
				w := httptest.NewRecorder()
				handler.CastVote(w, req)

				if w.Code == http.StatusCreated {
					successCount.Add(1)
				} else {
					t.Errorf("Vote failed: %d - %s", w.Code, w.Body.String())
				}
			}(tokens[i], card)
		}
	}

	wg.Wait()

	if got := int(successCount.Load()); got != numParticipants*len(cards) {
		t.Errorf("Expected %d successful votes, got %d", numParticipants*len(cards), got)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE room_id = $1 AND round = 1`, roomID).Scan(&rows); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if rows != numParticipants {
		t.Errorf("Expected %d vote rows, got %d", numParticipants, rows)
	}
}

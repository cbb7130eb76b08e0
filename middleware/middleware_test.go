// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/poker-shield/models"
)

// captureLogs routes the default slog logger into a buffer for the rest of the test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithLoggingRecordsStatus(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus string
	}{
		{
			name: "explicit conflict",
			handler: func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, http.StatusConflict, "Votes are already revealed")
			},
			wantStatus: "status=409",
		},
		{
			name: "created",
			handler: func(w http.ResponseWriter, r *http.Request) {
				JSONResponse(w, http.StatusCreated, models.CastVoteResponse{Round: 1, Message: "Vote recorded"})
			},
			wantStatus: "status=201",
		},
		{
			name: "body without WriteHeader",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("OK"))
			},
			wantStatus: "status=200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			req := httptest.NewRequest("POST", "/rooms/sprint-7/votes", nil)
			w := httptest.NewRecorder()
			WithLogging(tt.handler)(w, req)

			out := logs.String()
			if !strings.Contains(out, "request completed") || !strings.Contains(out, tt.wantStatus) {
				t.Errorf("Expected completion log with %s, got:\n%s", tt.wantStatus, out)
			}
			if !strings.Contains(out, "path=/rooms/sprint-7/votes") {
				t.Errorf("Expected path in log, got:\n%s", out)
			}
		})
	}
}

func TestWithLoggingRemoteFromForwardedFor(t *testing.T) {
	logs := captureLogs(t)

	req := httptest.NewRequest("GET", "/rooms/sprint-7", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	WithLogging(func(w http.ResponseWriter, r *http.Request) {})(w, req)

	if out := logs.String(); !strings.Contains(out, "remote=203.0.113.7") {
		t.Errorf("Expected remote=203.0.113.7 in log, got:\n%s", out)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusForbidden, "Votes have not been revealed yet")

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if resp.Error != "Forbidden" || resp.Message != "Votes have not been revealed yet" {
		t.Errorf("Unexpected error body: %+v", resp)
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("vote", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rooms/r/votes", strings.NewReader(`{"vote":"13"}`))
		var parsed models.CastVoteRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if parsed.Vote != "13" {
			t.Errorf("Expected vote 13, got %q", parsed.Vote)
		}
	})

	// Room creation accepts an empty body and relies on io.EOF to detect it
	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rooms", nil)
		var parsed models.CreateRoomRequest
		if err := ParseJSONBody(req, &parsed); !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF, got %v", err)
		}
	})

	t.Run("votes must be integers", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/decide", strings.NewReader(`{"votes":["5"]}`))
		var parsed models.DecideRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for string votes")
		}
	})
}

func TestCORS(t *testing.T) {
	nextCalled := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("preflight for a vote", func(t *testing.T) {
		nextCalled = false
		req := httptest.NewRequest("OPTIONS", "/rooms/r/votes", nil)
		req.Header.Set("Origin", "https://poker.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK || nextCalled {
			t.Errorf("Expected preflight to stop at CORS with 200, got %d (next called: %v)", w.Code, nextCalled)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://poker.example.com" {
			t.Errorf("Expected origin to be echoed, got %q", got)
		}
		headers := w.Header().Get("Access-Control-Allow-Headers")
		for _, h := range []string{"X-Moderator-Key", "X-Participant-Token"} {
			if !strings.Contains(headers, h) {
				t.Errorf("Expected %s in allowed headers %q", h, headers)
			}
		}
		if methods := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "DELETE") {
			t.Errorf("Expected DELETE in allowed methods for leaving a room, got %q", methods)
		}
	})

	t.Run("request without origin", func(t *testing.T) {
		nextCalled = false
		req := httptest.NewRequest("DELETE", "/rooms/r/participants/me", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if !nextCalled || w.Code != http.StatusNoContent {
			t.Errorf("Expected request to reach the handler, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected wildcard origin, got %q", got)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2"}, "198.51.100.4"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "198.51.100.4", "X-Real-IP": "10.1.1.1"}, "198.51.100.4"},
		{"real ip", map[string]string{"X-Real-IP": "10.1.1.1"}, "10.1.1.1"},
		{"remote addr without port", nil, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/rooms/r", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrInvalidModeratorKey = errors.New("invalid moderator key")
	ErrInvalidToken        = errors.New("invalid token format")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateModeratorKey creates an HMAC-based moderator key for a room
// This is deterministic and verifiable
func GenerateModeratorKey(roomID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(roomID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateModeratorKey checks if the provided moderator key is valid for the room
func ValidateModeratorKey(roomID, moderatorKey, salt string) error {
	if moderatorKey == "" {
		return ErrInvalidModeratorKey
	}
	expected := GenerateModeratorKey(roomID, salt)
	if !hmac.Equal([]byte(moderatorKey), []byte(expected)) {
		return ErrInvalidModeratorKey
	}
	return nil
}

// GenerateParticipantToken creates a random secure token for a participant
// This is used to identify participants when voting or leaving
func GenerateParticipantToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate participant token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateTokenFormat rejects tokens that GenerateParticipantToken could not have produced
func ValidateTokenFormat(token string) error {
	if len(token) != 32 {
		return ErrInvalidToken
	}
	if _, err := base64.RawURLEncoding.DecodeString(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// GenerateRoomName creates a readable, URL-safe room name like "brave-otter-421"
func GenerateRoomName() (string, error) {
	adjective, err := pick(adjectives)
	if err != nil {
		return "", err
	}
	animal, err := pick(animals)
	if err != nil {
		return "", err
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("failed to generate room name: %w", err)
	}
	return fmt.Sprintf("%s-%s-%d", adjective, animal, n.Int64()), nil
}

func pick(words []string) (string, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", fmt.Errorf("failed to generate room name: %w", err)
	}
	return words[i.Int64()], nil
}

var adjectives = []string{
	"agile", "bold", "brave", "bright", "calm", "clever", "cosmic", "daring",
	"eager", "fancy", "gentle", "happy", "jolly", "keen", "lucky", "mighty",
	"nimble", "proud", "quick", "quiet", "rapid", "shiny", "swift", "witty",
}

var animals = []string{
	"badger", "beaver", "falcon", "ferret", "gecko", "heron", "koala", "lemur",
	"lynx", "marmot", "narwhal", "otter", "owl", "panda", "puffin", "quokka",
	"raven", "salmon", "seal", "tapir", "tiger", "walrus", "wombat", "yak",
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides room secrets and identifier generation.

# Moderator Keys

Moderator keys use HMAC-SHA256 to create deterministic, verifiable keys:

	key := auth.GenerateModeratorKey(roomID, salt)
	err := auth.ValidateModeratorKey(roomID, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same room ID and salt always produce the same key, so it never has to be
stored. Only the moderator key can reveal, reset, or change a room.

# Participant Tokens

Participant tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateParticipantToken()

Tokens are stored with the participant and sent back in the
X-Participant-Token header to cast votes or leave.

# Room Names

Rooms get a readable name when the creator does not pick one:

	name, err := auth.GenerateRoomName() // e.g. "brave-otter-421"

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth

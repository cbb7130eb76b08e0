// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the HTTP plumbing shared by every PokerShield route.

WithLogging emits a "request started" and a "request completed" record per
call. The completion record carries the status the handler actually wrote,
captured by a wrapping ResponseWriter, and the elapsed milliseconds. The
remote address comes from GetClientIP, so a proxy's X-Forwarded-For is
honoured.

CORS wraps the whole mux in main. Browsers send the room secrets as the
X-Moderator-Key and X-Participant-Token headers, and leaving a room is a
DELETE, so both are allowed on preflight.

Handlers answer with JSONResponse or ErrorResponse; errors always have the
shape {"error": <status text>, "message": <detail>}. ParseJSONBody returns
io.EOF for an empty body, which room creation treats as "all defaults".
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the PokerShield API server.

PokerShield is a planning-poker service. Participants vote on a story with
an estimation deck, the moderator reveals the votes, and the estimate engine
recommends a final number, a revote, or a split of the story.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=poker.db MODERATOR_KEY_SALT=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -moderator-salt secret

Settings may also live in a .env file (see -env); real environment
variables take precedence over it.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - MODERATOR_KEY_SALT (-moderator-salt): Secret for moderator key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PUBLIC_BASE_URL (-base-url): Web client URL used in share links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - estimate: Decision engine, statistics and clustering
  - deck: Estimation card decks
  - handlers: HTTP request handlers (rooms, participants, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: ID, key and token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

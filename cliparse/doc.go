// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string or SQLite file (required)
  - DatabaseType: sqlite (default) or postgres
  - ModeratorKeySalt: Secret for moderator key HMAC (required)
  - PublicBaseURL: Web client URL used to build share links (optional)
  - EnvFile: dotenv file to load (default: .env)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-base-url       Public base URL
	-moderator-salt Moderator key salt
	-env            Dotenv file

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	PUBLIC_BASE_URL    → -base-url
	MODERATOR_KEY_SALT → -moderator-salt

The dotenv file is loaded with github.com/joho/godotenv before the fallback
runs. It only fills variables that are not already set, so the precedence is
CLI flag, then environment, then dotenv file, then default. A missing dotenv
file is ignored.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - MODERATOR_KEY_SALT is missing
  - DATABASE_TYPE is not sqlite or postgres
  - PORT is not a number
*/
package cliparse

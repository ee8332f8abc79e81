package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the tables the service needs. Safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Votes and likes keep voter_key when their user is deleted; user_id is
// nulled. Polls go with their owner.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    username      TEXT UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_login    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS polls (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    expires_at  TIMESTAMPTZ,
    owner_key   TEXT NOT NULL,
    owner_id    BIGINT REFERENCES users(id) ON DELETE CASCADE,
    created_by  TEXT NOT NULL DEFAULT 'anonymous',
    like_count  BIGINT NOT NULL DEFAULT 0 CHECK (like_count >= 0),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_polls_expires_at ON polls(expires_at) WHERE is_active;

CREATE TABLE IF NOT EXISTS options (
    id         BIGSERIAL PRIMARY KEY,
    poll_id    BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    text       TEXT NOT NULL,
    position   INT NOT NULL DEFAULT 0,
    vote_count BIGINT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    UNIQUE (id, poll_id),
    UNIQUE (poll_id, text)
);

CREATE INDEX IF NOT EXISTS idx_options_poll_id ON options(poll_id, position);

CREATE TABLE IF NOT EXISTS votes (
    id        BIGSERIAL PRIMARY KEY,
    poll_id   BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_id BIGINT NOT NULL,
    voter_key TEXT NOT NULL,
    user_id   BIGINT REFERENCES users(id) ON DELETE SET NULL,
    voted_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (poll_id, voter_key),
    FOREIGN KEY (option_id, poll_id) REFERENCES options(id, poll_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id);

CREATE TABLE IF NOT EXISTS likes (
    id        BIGSERIAL PRIMARY KEY,
    poll_id   BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    voter_key TEXT NOT NULL,
    user_id   BIGINT REFERENCES users(id) ON DELETE SET NULL,
    liked_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (poll_id, voter_key)
);
`

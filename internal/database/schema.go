package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema declares every table the application uses.
//
// Two constraints carry the core invariants:
//
//   - registrations and feedback each have a UNIQUE (event_id, user_id)
//     index, so concurrent duplicate inserts are rejected by the database
//     rather than by a racy check-then-insert in application code;
//   - every foreign key into events is ON DELETE CASCADE, so deleting an
//     event removes its registrations, feedback and suggestions in one
//     atomic statement with no orphans.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL CHECK (role IN ('organizer', 'participant')),
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS events (
	id               UUID PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	organizer_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id      UUID NOT NULL REFERENCES categories(id),
	location         TEXT NOT NULL DEFAULT '',
	max_participants INT NOT NULL,
	start_time       TIMESTAMPTZ NOT NULL,
	duration_minutes INT NOT NULL DEFAULT 60,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS registrations (
	id            UUID PRIMARY KEY,
	event_id      UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	attended      BOOLEAN NOT NULL DEFAULT FALSE,
	registered_at TIMESTAMPTZ NOT NULL,
	UNIQUE (event_id, user_id)
);

CREATE TABLE IF NOT EXISTS feedback (
	id         UUID PRIMARY KEY,
	event_id   UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	rating     INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (event_id, user_id)
);

CREATE TABLE IF NOT EXISTS suggestions (
	id         UUID PRIMARY KEY,
	event_id   UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id          UUID PRIMARY KEY,
	sender_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content     TEXT NOT NULL,
	sent_at     TIMESTAMPTZ NOT NULL,
	is_read     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_events_category ON events (category_id);
CREATE INDEX IF NOT EXISTS idx_events_organizer ON events (organizer_id);
CREATE INDEX IF NOT EXISTS idx_registrations_user ON registrations (user_id);
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages (receiver_id, is_read);
`

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

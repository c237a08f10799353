package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	email TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS projects (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	archived BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'not_started',
	priority TEXT NOT NULL DEFAULT 'medium',
	assignee_id BIGINT REFERENCES users(id),
	creator_id BIGINT NOT NULL REFERENCES users(id),
	project_id BIGINT REFERENCES projects(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	due_date TIMESTAMPTZ,
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS meeting_transcripts (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	transcript TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	processed BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS transcript_actions (
	id BIGSERIAL PRIMARY KEY,
	transcript_id BIGINT NOT NULL REFERENCES meeting_transcripts(id),
	task_id BIGINT REFERENCES tasks(id),
	action_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_transcript_actions_transcript ON transcript_actions (transcript_id);
`

// EnsureSchema creates missing tables on startup. Idempotent; this is not a
// migration system.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

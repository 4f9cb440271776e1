package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema runs the whole script in one call, which PostgreSQL executes
// as a single implicit transaction.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id           UUID PRIMARY KEY,
    project      TEXT NOT NULL,
    strategy     TEXT NOT NULL,
    triggered_by TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    mean_level   DOUBLE PRECISION NOT NULL DEFAULT 0,
    max_level    DOUBLE PRECISION NOT NULL DEFAULT 0,
    rooms        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
    id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    run_id   UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    room     TEXT NOT NULL,
    category TEXT NOT NULL,
    floor    INTEGER NOT NULL,
    level    DOUBLE PRECISION NOT NULL,
    state    TEXT NOT NULL,
    CONSTRAINT uq_entry_room UNIQUE (run_id, room)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_project ON runs (project);
CREATE INDEX IF NOT EXISTS idx_entries_run ON entries (run_id, position);
CREATE INDEX IF NOT EXISTS idx_entries_room ON entries (room);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("executing DDL: %w", err)
	}
	return nil
}

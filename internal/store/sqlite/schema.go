package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	project      TEXT NOT NULL,
	strategy     TEXT NOT NULL,
	triggered_by TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	mean_level   REAL NOT NULL DEFAULT 0,
	max_level    REAL NOT NULL DEFAULT 0,
	rooms        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	room     TEXT NOT NULL,
	category TEXT NOT NULL,
	floor    INTEGER NOT NULL,
	level    REAL NOT NULL,
	state    TEXT NOT NULL,
	CONSTRAINT uq_entry_room UNIQUE (run_id, room)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs (created_at);
CREATE INDEX IF NOT EXISTS idx_runs_project ON runs (project);
CREATE INDEX IF NOT EXISTS idx_entries_run ON entries (run_id, position);
CREATE INDEX IF NOT EXISTS idx_entries_room ON entries (room);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// splitStatements breaks a script on lines ending in ";" and drops "--"
// comment lines and blank statements.
func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(stripped, ";") {
			flush()
		}
	}
	flush()
	return statements
}

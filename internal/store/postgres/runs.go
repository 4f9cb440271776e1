package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"noisegraph/internal/store"
)

func (c *Client) SaveRun(ctx context.Context, in store.RunInput) (string, error) {
	run := in.Prepare()

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO runs (id, project, strategy, triggered_by, created_at, mean_level, max_level, rooms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID,
		run.Project,
		run.Strategy,
		run.Trigger,
		run.CreatedAt,
		run.Mean,
		run.Max,
		len(run.Entries),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	batch := &pgx.Batch{}
	for i, e := range run.Entries {
		batch.Queue(`
INSERT INTO entries (run_id, position, room, category, floor, level, state)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			run.ID, i, e.Room, e.Category, e.Floor, e.Level, e.State)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return "", fmt.Errorf("inserting entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

func (c *Client) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.pool.Query(ctx, `
SELECT id::text, project, strategy, triggered_by, created_at, mean_level, max_level, rooms
FROM runs
ORDER BY created_at DESC, id
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (c *Client) GetRun(ctx context.Context, id string) (*store.Run, error) {
	row := c.pool.QueryRow(ctx, `
SELECT id::text, project, strategy, triggered_by, created_at, mean_level, max_level, rooms
FROM runs
WHERE id::text = $1`, id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("getting run %s: %w", id, store.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	rows, err := c.pool.Query(ctx, `
SELECT room, category, floor, level, state
FROM entries
WHERE run_id::text = $1
ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("getting run entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e store.Entry
		if err := rows.Scan(&e.Room, &e.Category, &e.Floor, &e.Level, &e.State); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		run.Entries = append(run.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return &run, nil
}

func (c *Client) RoomHistory(ctx context.Context, room string, limit int) ([]store.RoomPoint, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.pool.Query(ctx, `
SELECT r.id::text, r.created_at, r.triggered_by, e.level, e.state
FROM entries e
JOIN runs r ON r.id = e.run_id
WHERE e.room = $1
ORDER BY r.created_at DESC, r.id
LIMIT $2`, room, limit)
	if err != nil {
		return nil, fmt.Errorf("getting room history: %w", err)
	}
	defer rows.Close()

	var points []store.RoomPoint
	for rows.Next() {
		var p store.RoomPoint
		if err := rows.Scan(&p.RunID, &p.CreatedAt, &p.Trigger, &p.Level, &p.State); err != nil {
			return nil, fmt.Errorf("scanning room history: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room history: %w", err)
	}
	return points, nil
}

func scanRun(row pgx.Row) (store.Run, error) {
	var run store.Run
	if err := row.Scan(&run.ID, &run.Project, &run.Strategy, &run.Trigger, &run.CreatedAt, &run.Mean, &run.Max, &run.Rooms); err != nil {
		return store.Run{}, err
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return run, nil
}

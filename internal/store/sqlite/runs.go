package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"noisegraph/internal/store"
)

func (c *Client) SaveRun(ctx context.Context, in store.RunInput) (string, error) {
	run := in.Prepare()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, project, strategy, triggered_by, created_at, mean_level, max_level, rooms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Project,
		run.Strategy,
		run.Trigger,
		run.CreatedAt.Format(timeLayout),
		run.Mean,
		run.Max,
		len(run.Entries),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO entries (run_id, position, room, category, floor, level, state)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Entries {
		if _, err := stmt.ExecContext(ctx, run.ID, i, e.Room, e.Category, e.Floor, e.Level, e.State); err != nil {
			return "", fmt.Errorf("inserting entry %q: %w", e.Room, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

func (c *Client) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.QueryContext(ctx, `
SELECT id, project, strategy, triggered_by, created_at, mean_level, max_level, rooms
FROM runs
ORDER BY created_at DESC, id
LIMIT ?`, limit)
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
	row := c.db.QueryRowContext(ctx, `
SELECT id, project, strategy, triggered_by, created_at, mean_level, max_level, rooms
FROM runs
WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting run %s: %w", id, store.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	rows, err := c.db.QueryContext(ctx, `
SELECT room, category, floor, level, state
FROM entries
WHERE run_id = ?
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
	rows, err := c.db.QueryContext(ctx, `
SELECT r.id, r.created_at, r.triggered_by, e.level, e.state
FROM entries e
JOIN runs r ON r.id = e.run_id
WHERE e.room = ?
ORDER BY r.created_at DESC, r.id
LIMIT ?`, room, limit)
	if err != nil {
		return nil, fmt.Errorf("getting room history: %w", err)
	}
	defer rows.Close()

	var points []store.RoomPoint
	for rows.Next() {
		var p store.RoomPoint
		var createdAt string
		if err := rows.Scan(&p.RunID, &createdAt, &p.Trigger, &p.Level, &p.State); err != nil {
			return nil, fmt.Errorf("scanning room history: %w", err)
		}
		if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room history: %w", err)
	}
	return points, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (store.Run, error) {
	var run store.Run
	var createdAt string
	if err := s.Scan(&run.ID, &run.Project, &run.Strategy, &run.Trigger, &createdAt, &run.Mean, &run.Max, &run.Rooms); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parsing created_at: %w", err)
	}
	run.CreatedAt = t
	return run, nil
}

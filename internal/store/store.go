// Package store records report runs: the classification of every room at the
// moment a report, fix or reduction was produced. Layouts are never stored.
package store

import (
	"context"
	"errors"
)

var ErrRunNotFound = errors.New("run not found")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveRun(ctx context.Context, run RunInput) (string, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	RoomHistory(ctx context.Context, room string, limit int) ([]RoomPoint, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

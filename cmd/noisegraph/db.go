package main

import (
	"context"
	"fmt"
	"strings"

	"noisegraph/internal/config"
	"noisegraph/internal/store"
	"noisegraph/internal/store/postgres"
	"noisegraph/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := strings.TrimSpace(cfg.Database.DSN)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("database.dsn is not configured")
	case strings.HasPrefix(dsn, "sqlite://"):
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported database dsn: %s", dsn)
	}
}

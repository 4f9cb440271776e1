package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"noisegraph/internal/config"
	"noisegraph/internal/graph"
	"noisegraph/internal/logging"
	"noisegraph/internal/session"
)

// project bundles everything a command needs after loading the config.
type project struct {
	cfg     *config.ProjectConfig
	layout  *config.Layout
	logger  *zap.Logger
	session *session.Session
	// loaded is the room count before the startup reduce pass.
	loaded  int
	reduced graph.ReduceResult
}

func loadProject() (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "noisegraph")
	if err != nil {
		return nil, err
	}

	layout, err := config.LoadLayout(layoutPath(cfg))
	if err != nil {
		return nil, err
	}

	sess, err := session.FromConfig(cfg, layout, logger)
	if err != nil {
		return nil, err
	}
	p := &project{cfg: cfg, layout: layout, logger: logger, session: sess}
	p.loaded = len(sess.Rooms())

	// reduce.enabled applies to every command, not only report.
	if cfg.Reduce.Enabled {
		p.reduced = sess.Reduce()
	}
	return p, nil
}

// layoutPath resolves the layout relative to the config file.
func layoutPath(cfg *config.ProjectConfig) string {
	if filepath.IsAbs(cfg.Layout) {
		return cfg.Layout
	}
	return filepath.Join(filepath.Dir(configPath), cfg.Layout)
}

func (p *project) close() {
	_ = p.logger.Sync()
}

// record stores the current state of the session as a run.
func (p *project) record(ctx context.Context, trigger string) (string, error) {
	db, err := openDB(ctx, p.cfg)
	if err != nil {
		return "", err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return "", err
	}
	id, err := db.SaveRun(ctx, p.session.Snapshot(trigger))
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	p.logger.Info("run recorded", zap.String("run_id", id), zap.String("trigger", trigger))
	return id, nil
}

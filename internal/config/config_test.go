package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Model.Strategy != "transmission-loss" {
			t.Fatalf("expected transmission-loss strategy, got %q", cfg.Model.Strategy)
		}
		if cfg.Reduce.MaxDistance != 1.5 || cfg.Reduce.NoiseTolerance != 5 {
			t.Fatalf("unexpected reduce config: %+v", cfg.Reduce)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: ./layout.yaml\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Model.Strategy != "log-decay" || cfg.Model.FloorPenalty != 1.5 || cfg.Model.WallAbsorption != 0.8 {
			t.Fatalf("unexpected model defaults: %+v", cfg.Model)
		}
		if cfg.Remediation.Mode != "adequate" || cfg.Remediation.Wall != 30 || cfg.Remediation.NeighborMinimum != 20 {
			t.Fatalf("unexpected remediation defaults: %+v", cfg.Remediation)
		}
		if cfg.Logging.Level != "info" {
			t.Fatalf("expected info logging, got %q", cfg.Logging.Level)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nlayout: ./layout.yaml\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 2\nlayout: ./layout.yaml\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing layout", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\nmodel:\n  strategy: raytrace\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("wall absorption out of range", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\nmodel:\n  wall_absorption: 1.2\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("explicit zero tolerance kept", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\nreduce:\n  noise_tolerance: 0\nremediation:\n  neighbor_reduction: 0\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Reduce.NoiseTolerance != 0 || cfg.Reduce.MaxDistance != 2.0 {
			t.Fatalf("unexpected reduce config: %+v", cfg.Reduce)
		}
		if cfg.Remediation.NeighborReduction != 0 || cfg.Remediation.NeighborMinimum != 20 {
			t.Fatalf("unexpected remediation config: %+v", cfg.Remediation)
		}
	})

	t.Run("zero floor penalty rejected", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\nmodel:\n  floor_penalty: 0\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero max distance rejected", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\nreduce:\n  max_distance: 0\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown remediation mode", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\nremediation:\n  mode: demolish\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("bad dsn scheme", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nlayout: l.yaml\ndatabase:\n  dsn: mysql://localhost\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

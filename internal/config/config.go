package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "noisegraph.yaml"

type ProjectConfig struct {
	Project     string            `yaml:"project"`
	Version     int               `yaml:"version"`
	Layout      string            `yaml:"layout"`
	Model       ModelConfig       `yaml:"model"`
	Reduce      ReduceConfig      `yaml:"reduce"`
	Remediation RemediationConfig `yaml:"remediation"`
	Database    DatabaseConfig    `yaml:"database"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ModelConfig struct {
	Strategy       string  `yaml:"strategy"`
	FloorPenalty   float64 `yaml:"floor_penalty"`
	WallAbsorption float64 `yaml:"wall_absorption"`
	Epsilon        float64 `yaml:"epsilon"`
}

type ReduceConfig struct {
	Enabled        bool    `yaml:"enabled"`
	NoiseTolerance float64 `yaml:"noise_tolerance"`
	MaxDistance    float64 `yaml:"max_distance"`
}

type RemediationConfig struct {
	Mode              string  `yaml:"mode"`
	Wall              float64 `yaml:"wall"`
	Window            float64 `yaml:"window"`
	Door              float64 `yaml:"door"`
	NoiseFloor        float64 `yaml:"noise_floor"`
	NeighborReduction float64 `yaml:"neighbor_reduction"`
	NeighborMinimum   float64 `yaml:"neighbor_minimum"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	// Numeric settings start at their defaults so an explicit 0 in the file
	// is kept and validated rather than replaced.
	cfg := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Model: ModelConfig{
			FloorPenalty:   1.5,
			WallAbsorption: 0.8,
			Epsilon:        1e-9,
		},
		Reduce: ReduceConfig{
			NoiseTolerance: 5,
			MaxDistance:    2.0,
		},
		Remediation: RemediationConfig{
			Wall:              30,
			Window:            20,
			Door:              25,
			NoiseFloor:        30,
			NeighborReduction: 5,
			NeighborMinimum:   20,
		},
	}
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Model.Strategy == "" {
		cfg.Model.Strategy = "log-decay"
	}
	cfg.Model.Strategy = strings.ToLower(cfg.Model.Strategy)

	if cfg.Remediation.Mode == "" {
		cfg.Remediation.Mode = "adequate"
	}
	cfg.Remediation.Mode = strings.ToLower(cfg.Remediation.Mode)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Layout) == "" {
		return fmt.Errorf("layout path is required")
	}

	switch cfg.Model.Strategy {
	case "log-decay", "transmission-loss":
	default:
		return fmt.Errorf("unknown model strategy: %s", cfg.Model.Strategy)
	}
	if cfg.Model.FloorPenalty <= 0 {
		return fmt.Errorf("model floor_penalty must be positive")
	}
	if cfg.Model.WallAbsorption < 0 || cfg.Model.WallAbsorption > 1 {
		return fmt.Errorf("model wall_absorption must be within [0, 1]")
	}
	if cfg.Model.Epsilon <= 0 {
		return fmt.Errorf("model epsilon must be positive")
	}

	if cfg.Reduce.NoiseTolerance < 0 {
		return fmt.Errorf("reduce noise_tolerance must not be negative")
	}
	if cfg.Reduce.MaxDistance <= 0 {
		return fmt.Errorf("reduce max_distance must be positive")
	}

	switch cfg.Remediation.Mode {
	case "adequate", "structural":
	default:
		return fmt.Errorf("unknown remediation mode: %s", cfg.Remediation.Mode)
	}
	if cfg.Remediation.NeighborReduction < 0 || cfg.Remediation.NeighborMinimum < 0 || cfg.Remediation.NoiseFloor < 0 {
		return fmt.Errorf("remediation levels must not be negative")
	}

	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		if !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return fmt.Errorf("database dsn must start with sqlite:// or postgres://")
		}
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"noisegraph/internal/config"
)

const configTemplate = `project: %s
version: 1
layout: ./layout.yaml

model:
  strategy: log-decay
  floor_penalty: 1.5
  wall_absorption: 0.8
  epsilon: 1.0e-9

reduce:
  enabled: false
  noise_tolerance: 5
  max_distance: 2.0

remediation:
  mode: adequate
  wall: 30
  window: 20
  door: 25
  noise_floor: 30
  neighbor_reduction: 5
  neighbor_minimum: 20

database:
  dsn: %s

logging:
  level: info
  format: console
`

func initCmd() *cobra.Command {
	var projectName string
	var template string
	var dsn string
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new noisegraph project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			if err := runInit(dir, projectName, template, dsn); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s and layout.yaml from the %s template.\n", config.DefaultConfigPath, template)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&template, "template", "campus", "Layout template name (campus or generated)")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://./noisegraph.db", "Report history database DSN")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to create the project in")
	return cmd
}

func runInit(dir, projectName, template, dsn string) error {
	configFile := filepath.Join(dir, config.DefaultConfigPath)
	layoutFile := filepath.Join(dir, "layout.yaml")
	for _, path := range []string{configFile, layoutFile} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	layout, err := config.Template(template)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	contents := fmt.Sprintf(configTemplate, projectName, dsn)
	if err := os.WriteFile(configFile, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	if err := os.WriteFile(layoutFile, layout, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", layoutFile, err)
	}
	return nil
}

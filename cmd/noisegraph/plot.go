package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/graph"
	"noisegraph/internal/render"
)

func plotCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render one floor-plan PNG per floor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "plots", "Output directory")
	return cmd
}

func runPlot(cmd *cobra.Command, outDir string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	var building render.Building
	p.session.Inspect(func(g *graph.Graph, model acoustics.Model) {
		building = render.NewBuilding(g, model)
	})
	paths, err := render.WriteFloorPlans(outDir, building)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

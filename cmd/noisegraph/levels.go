package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func levelsCmd() *cobra.Command {
	var asJSON bool
	var room string
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the aggregate noise level of every room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if room != "" {
				return runContributions(cmd, room)
			}
			return runLevels(cmd, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print levels as JSON")
	cmd.Flags().StringVar(&room, "room", "", "Show per-neighbor contributions for one room")
	return cmd
}

func runLevels(cmd *cobra.Command, asJSON bool) error {
	out := cmd.OutOrStdout()
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	levels := p.session.Levels()
	if asJSON {
		payload := make(map[string]float64, len(levels))
		for _, l := range levels {
			payload[l.Name] = l.Level
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding levels: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, l := range levels {
		fmt.Fprintf(w, "%s\t%.2f dB\n", l.Name, l.Level)
	}
	return w.Flush()
}

func runContributions(cmd *cobra.Command, room string) error {
	out := cmd.OutOrStdout()
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	c, err := p.session.ClassifyRoom(room)
	if err != nil {
		return err
	}
	contributions, err := p.session.Contributions(room)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %.2f dB (%s)\n", c.Name, c.Level, c.State)
	if len(contributions) == 0 {
		fmt.Fprintln(out, "No neighbors.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, contribution := range contributions {
		if contribution.Skipped {
			fmt.Fprintf(w, "  %s\tskipped\n", contribution.Neighbor)
			continue
		}
		fmt.Fprintf(w, "  %s\t%.2f\n", contribution.Neighbor, contribution.Value)
	}
	return w.Flush()
}

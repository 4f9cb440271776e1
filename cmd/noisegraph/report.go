package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/graph"
	"noisegraph/internal/store"
)

func reportCmd() *cobra.Command {
	var recordRun bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Classify every room and print the building report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, recordRun)
		},
	}
	cmd.Flags().BoolVar(&recordRun, "record", false, "Store the report in the history database")
	return cmd
}

func runReport(cmd *cobra.Command, recordRun bool) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	if p.cfg.Reduce.Enabled {
		fmt.Fprintf(out, "Merged %d room(s) before reporting.\n\n", len(p.reduced.Merges))
	}

	sensors := make(map[string][]acoustics.Sensor)
	for _, room := range p.session.Rooms() {
		sensors[room.Name] = room.Sensors
	}
	if err := printReport(out, p.session.Classify(), sensors); err != nil {
		return err
	}

	summary := p.session.Summary()
	fmt.Fprintf(out, "\nStrategy: %s\n", p.session.Strategy())
	printSummary(out, summary)

	if recordRun {
		id, err := p.record(ctx, store.TriggerReport)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded run %s\n", id)
	}
	return nil
}

func printReport(out io.Writer, classes []graph.Classification, sensors map[string][]acoustics.Sensor) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROOM\tCATEGORY\tFLOOR\tLEVEL (dB)\tLIMITS\tSTATE\tSENSORS\tRECOMMENDATION")
	for _, c := range classes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.0f/%.0f/%.0f\t%s %s\t%s\t%s\n",
			c.Name,
			c.Category,
			c.Floor,
			c.Level,
			c.Limits.Adequate, c.Limits.Near, c.Limits.Exceeded,
			c.State.Symbol(), c.State,
			formatSensors(sensors[c.Name]),
			c.Recommendation,
		)
	}
	return w.Flush()
}

func formatSensors(sensors []acoustics.Sensor) string {
	if len(sensors) == 0 {
		return "-"
	}
	parts := make([]string, len(sensors))
	for i, s := range sensors {
		parts[i] = fmt.Sprintf("%.1f", s.Measure())
	}
	return strings.Join(parts, ",")
}

func printSummary(out io.Writer, summary graph.Summary) {
	fmt.Fprintf(out, "Rooms: %d  Mean: %.2f dB  Max: %.2f dB\n", summary.Rooms, summary.Mean, summary.Max)
}

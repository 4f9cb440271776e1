package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"noisegraph/internal/store"
)

func reduceCmd() *cobra.Command {
	var recordRun bool
	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Merge similar nearby rooms and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(cmd, recordRun)
		},
	}
	cmd.Flags().BoolVar(&recordRun, "record", false, "Store the reduced report in the history database")
	return cmd
}

func runReduce(cmd *cobra.Command, recordRun bool) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	// merges from the startup pass are reported together with this one
	result := p.session.Reduce()
	merges := append(p.reduced.Merges, result.Merges...)
	skipped := p.reduced.Skipped + result.Skipped
	if len(merges) == 0 {
		fmt.Fprintln(out, "No rooms merged.")
	}
	for _, m := range merges {
		fmt.Fprintf(out, "%s <- %s (%.2f dB)\n", m.Kept, m.Removed, m.Noise)
	}
	fmt.Fprintf(out, "Rooms: %d -> %d", p.loaded, len(p.session.Rooms()))
	if skipped > 0 {
		fmt.Fprintf(out, " (%d stale pair(s) skipped)", skipped)
	}
	fmt.Fprintln(out)
	printSummary(out, p.session.Summary())

	if recordRun {
		id, err := p.record(ctx, store.TriggerReduce)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded run %s\n", id)
	}
	return nil
}

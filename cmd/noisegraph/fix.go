package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"noisegraph/internal/store"
)

func fixCmd() *cobra.Command {
	var mode string
	var list bool
	var recordRun bool
	cmd := &cobra.Command{
		Use:   "fix [room]",
		Short: "Remediate a room that exceeds its noise limit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return runFixList(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("room name is required (or use --list)")
			}
			return runFix(cmd, args[0], strings.ToLower(mode), recordRun)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "Remediation mode: adequate or structural (default from config)")
	cmd.Flags().BoolVar(&list, "list", false, "List rooms eligible for remediation")
	cmd.Flags().BoolVar(&recordRun, "record", false, "Store the post-fix report in the history database")
	return cmd
}

func runFixList(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	fixable := p.session.Fixable()
	if len(fixable) == 0 {
		fmt.Fprintln(out, "No rooms exceed their limit.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range fixable {
		fmt.Fprintf(w, "%s\t%s\t%.2f dB\t> %.0f dB\n", c.Name, c.Category, c.Level, c.Limits.Exceeded)
	}
	return w.Flush()
}

func runFix(cmd *cobra.Command, room, mode string, recordRun bool) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	result, err := p.session.Fix(room, mode)
	if err != nil {
		return err
	}
	after, err := p.session.ClassifyRoom(room)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Applied %s remediation to %s: noise %.2f -> %.2f dB\n", result.Mode, room, result.Room.Before, result.Room.After)
	for _, n := range result.Neighbors {
		fmt.Fprintf(out, "  %s: %.2f -> %.2f dB\n", n.Name, n.Before, n.After)
	}
	fmt.Fprintf(out, "%s is now %.2f dB (%s)\n", room, after.Level, after.State)

	if recordRun {
		id, err := p.record(ctx, store.TriggerFix)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded run %s\n", id)
	}
	return nil
}

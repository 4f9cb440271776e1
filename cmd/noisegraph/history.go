package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"noisegraph/internal/store"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded report runs",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyRoomCmd())
	cmd.AddCommand(historySQLCmd())
	return cmd
}

// withStore opens the configured history database for one command.
func withStore(fn func(ctx context.Context, db store.Store) error) error {
	ctx := context.Background()
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	db, err := openDB(ctx, p.cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(ctx, db)
}

func historyListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				runs, err := db.ListRuns(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCREATED\tTRIGGER\tSTRATEGY\tROOMS\tMEAN\tMAX")
				for _, run := range runs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
						run.ID, run.CreatedAt.Format(time.RFC3339), run.Trigger, run.Strategy, run.Rooms, run.Mean, run.Max)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")
	return cmd
}

func historyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show every room of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				run, err := db.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s (%s, %s) at %s\n", run.ID, run.Trigger, run.Strategy, run.CreatedAt.Format(time.RFC3339))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, e := range run.Entries {
					fmt.Fprintf(w, "%s\t%s\t%d\t%.2f dB\t%s\n", e.Room, e.Category, e.Floor, e.Level, e.State)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Rooms: %d  Mean: %.2f dB  Max: %.2f dB\n", run.Rooms, run.Mean, run.Max)
				return nil
			})
		},
	}
	return cmd
}

func historyRoomCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "room <name>",
		Short: "Show how one room's level changed across runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withStore(func(ctx context.Context, db store.Store) error {
				points, err := db.RoomHistory(ctx, name, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(points) == 0 {
					fmt.Fprintf(out, "No history for %s.\n", name)
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, pt := range points {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.2f dB\t%s\n", pt.CreatedAt.Format(time.RFC3339), pt.RunID, pt.Trigger, pt.Level, pt.State)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	return cmd
}

func historySQLCmd() *cobra.Command {
	var paramPairs []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Execute a raw SQL query against the history database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			params, err := parseParamPairs(paramPairs)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, db store.Store) error {
				rows, err := db.RunSQL(ctx, query, params)
				if err != nil {
					return err
				}
				payload, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Positional parameter as n=value, starting at 1 (repeatable)")
	return cmd
}

func parseParamPairs(pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

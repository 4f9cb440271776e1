package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/graph"
	"noisegraph/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the building graph",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.close()

	var report *validate.Report
	p.session.Inspect(func(g *graph.Graph, _ acoustics.Model) {
		report, err = validate.Run(g)
	})
	if err != nil {
		return err
	}
	return printValidation(out, report)
}

func printValidation(out io.Writer, report *validate.Report) error {
	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Room
		if issue.Neighbor != "" {
			location = fmt.Sprintf("%s -> %s", issue.Room, issue.Neighbor)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}

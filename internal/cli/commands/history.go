package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent report runs",
		Long:  `List recent report runs from the local run ledger, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 20, "Maximum number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)
	out := cmd.OutOrStdout()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(opts.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No report runs recorded yet")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Started", "Person", "Source", "Rows", "Status", "Email", "Error"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.StartedAt.Local().Format(time.DateTime),
			run.Person,
			run.SourceType,
			run.RowsUsed,
			run.Status,
			run.EmailStatus,
			truncate(run.Error, 48),
		})
	}
	t.Render()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leadlens-io/leadlens/internal/pipeline"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Name string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a performance report for one person",
		Long: `Fetch the latest submissions, compute KPIs and conversion rates for the
named person, and render the five report charts.

Name matching is case-insensitive; a unique partial match also works.`,
		Example: `  # Report for Jane over the configured window
  leadlens run --name "Jane Doe"

  # Report over the last 7 days from a CSV export
  leadlens run --name jane --days 7 --source csv`,
		Aliases: []string{"report"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Person to report on (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)
	out := cmd.OutOrStdout()

	p, closeStore, err := buildPipeline(cfg, logger, false)
	if err != nil {
		return err
	}
	defer closeStore()

	ds, err := p.Load(ctx)
	if err != nil {
		return err
	}
	for _, w := range ds.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}

	rep, err := p.Report(ctx, ds, opts.Name)
	if err != nil {
		return err
	}

	printReport(out, rep)
	return nil
}

// printReport writes the per-person summary tables and chart paths.
func printReport(out io.Writer, rep *pipeline.PersonReport) {
	fmt.Fprintf(out, "Report for %s (%s)\n", rep.Name, rep.DateRange)
	fmt.Fprintf(out, "Entries: %d  Days active: %d\n\n", rep.Summary.Entries, rep.Summary.DaysActive)

	t := newTable(out)
	t.AppendHeader(table.Row{"Metric", "Total", "Team Avg", "Diff"})
	for _, mc := range rep.Comparison {
		t.AppendRow(table.Row{mc.Metric, mc.Individual, mc.TeamAverage.StringFixed(1), mc.PercentDiff.StringFixed(1) + "%"})
	}
	t.Render()
	fmt.Fprintln(out)

	r := newTable(out)
	r.AppendHeader(table.Row{"Conversion", "Rate"})
	r.AppendRows([]table.Row{
		{"Talk Rate", rep.Rates.TalkRate.StringFixed(1) + "%"},
		{"Qualification Rate", rep.Rates.QualificationRate.StringFixed(1) + "%"},
		{"Appointment Rate", rep.Rates.AppointmentRate.StringFixed(1) + "%"},
		{"Overall Conversion", rep.Rates.OverallConversion.StringFixed(1) + "%"},
	})
	r.Render()

	fmt.Fprintln(out, "\nCharts saved to:")
	names := make([]string, 0, len(rep.ChartPaths))
	for name := range rep.ChartPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  - %s\n", rep.ChartPaths[name])
	}
}

// newTable builds a writer-backed table, styled for TTY output and plain
// otherwise.
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	if isTTY(out) {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	return t
}

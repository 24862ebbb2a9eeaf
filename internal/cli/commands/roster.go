package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leadlens-io/leadlens/internal/report"
	"github.com/leadlens-io/leadlens/internal/roster"
)

// NewRosterCommand creates the roster command.
func NewRosterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List team members and the names seen in the data",
		Long: `Show the roster file members next to the names actually present in the
fetched data, so mismatches are easy to spot before sending reports.`,
		RunE: runRoster,
	}
}

func runRoster(cmd *cobra.Command, _ []string) error {
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
	dataNames := report.Names(ds.Rows)
	inData := map[string]bool{}
	for _, n := range dataNames {
		inData[n] = true
	}

	var members []roster.Member
	if r, err := roster.Load(cfg.RosterPath); err == nil {
		members = r.Members
	} else {
		logger.Debug("no roster file", "path", cfg.RosterPath, "error", err)
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Name", "Email", "In Data"})
	seen := map[string]bool{}
	for _, m := range members {
		normalized := report.NormalizeName(m.Name)
		seen[normalized] = true
		t.AppendRow(table.Row{m.Name, m.Email, yesNo(inData[normalized])})
	}
	for _, name := range dataNames {
		if !seen[name] {
			t.AppendRow(table.Row{name, "", "yes (not in roster)"})
		}
	}
	t.Render()

	fmt.Fprintf(out, "%d names in data, %d roster members\n", len(dataNames), len(members))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

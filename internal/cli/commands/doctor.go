package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leadlens-io/leadlens/internal/cli/config"
	"github.com/leadlens-io/leadlens/internal/mail"
	"github.com/leadlens-io/leadlens/internal/roster"
	"github.com/leadlens-io/leadlens/internal/source"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, data source, and SMTP connectivity",
		Long: `Run setup checks and report what would stop a report run:

- configuration completeness (source, column mapping, email)
- source reachability (credentials file, sheet/csv fetch)
- team roster file
- SMTP connection when email is enabled`,
		Example: `  leadlens doctor`,
		RunE:    runDoctor,
	}
}

type check struct {
	name string
	run  func() error
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)
	out := cmd.OutOrStdout()

	checks := []check{
		{"configuration", cfg.Validate},
		{"data source", func() error {
			src, err := source.New(source.Config{
				Type:        cfg.Source.Type,
				SheetID:     cfg.Source.SheetID,
				Worksheet:   cfg.Source.Worksheet,
				Credentials: cfg.Source.Credentials,
				Path:        cfg.Source.Path,
			}, logger)
			if err != nil {
				return err
			}
			tbl, err := src.Fetch(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "    fetched %d rows, %d columns\n", len(tbl.Rows), len(tbl.Headers))
			return nil
		}},
		{"team roster", func() error {
			r, err := roster.Load(cfg.RosterPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "    %d members\n", len(r.Members))
			return nil
		}},
	}

	if cfg.Email.Enabled {
		checks = append(checks, check{"smtp connection", func() error {
			sender, err := mail.NewSender(mail.Config{
				Host:     cfg.Email.Host,
				Port:     cfg.Email.Port,
				Username: cfg.Email.Username,
				Password: cfg.Email.Password,
				From:     cfg.Email.From,
				Subject:  cfg.Email.Subject,
			}, logger)
			if err != nil {
				return err
			}
			return sender.CheckConnection(ctx)
		}})
	} else {
		fmt.Fprintln(out, "  - email disabled, skipping smtp check")
	}

	failed := runChecks(out, checks)

	if used := config.FileUsed(); used != "" {
		fmt.Fprintf(out, "\nConfig file: %s\n", used)
	} else {
		fmt.Fprintln(out, "\nNo config file found (using defaults, env, and flags)")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Fprintln(out, "All checks passed")
	return nil
}

func runChecks(out io.Writer, checks []check) int {
	failed := 0
	for _, c := range checks {
		if err := c.run(); err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: %v\n", c.name, err)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s\n", c.name)
	}
	return failed
}

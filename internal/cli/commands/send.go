package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadlens-io/leadlens/internal/roster"
)

// SendOptions holds options for the send command.
type SendOptions struct {
	Name   string
	Email  string
	DryRun bool
}

// NewSendCommand creates the send command.
func NewSendCommand() *cobra.Command {
	opts := &SendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Generate and email performance reports",
		Long: `Generate reports and email them with chart attachments.

Without --name, every member of the team roster gets their own report.
A member whose data or delivery fails is skipped; the rest still go out.`,
		Example: `  # Email every roster member their report
  leadlens send

  # Email one person directly
  leadlens send --name "Jane Doe" --email jane@example.com

  # Generate everything but send nothing
  leadlens send --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Send to a single person instead of the whole roster")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Recipient address when using --name")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Generate charts but do not send email")

	return cmd
}

func runSend(cmd *cobra.Command, opts *SendOptions) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)
	out := cmd.OutOrStdout()

	p, closeStore, err := buildPipeline(cfg, logger, !opts.DryRun)
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

	members, err := resolveRecipients(cfg.RosterPath, opts)
	if err != nil {
		return err
	}

	res := p.ReportAll(ctx, ds, members, opts.DryRun)

	fmt.Fprintf(out, "Generated %d reports", res.Generated)
	if opts.DryRun {
		fmt.Fprintf(out, " (dry run, nothing sent)\n")
	} else {
		fmt.Fprintf(out, ", sent %d\n", res.Sent)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(out, "  failed: %s\n", f)
	}

	// Exit non-zero only when nothing at all succeeded.
	if len(members) > 0 && res.Generated == 0 {
		return fmt.Errorf("all %d reports failed", len(members))
	}
	return nil
}

// resolveRecipients returns the members to process: one explicit person or
// the whole roster file.
func resolveRecipients(rosterPath string, opts *SendOptions) ([]roster.Member, error) {
	if opts.Name != "" {
		if opts.Email == "" && !opts.DryRun {
			return nil, fmt.Errorf("--email is required with --name")
		}
		return []roster.Member{{Name: opts.Name, Email: opts.Email}}, nil
	}

	r, err := roster.Load(rosterPath)
	if err != nil {
		return nil, err
	}
	if len(r.Members) == 0 {
		return nil, fmt.Errorf("team roster %s has no members", rosterPath)
	}
	return r.Members, nil
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force bool
}

const configTemplate = `# leadlens configuration
source:
  type: sheets              # sheets | csv
  sheet_id: ""              # from the sheet URL
  worksheet: "Form Responses 1"
  credentials: credentials.json
  # path: submissions.csv   # used by the csv source

data:
  days: 30                  # reporting window; 0 = all data
  columns:
    timestamp: "Timestamp"
    name: "Your Name"
    doors_knocked: "Doors Knocked"
    homeowners_talked: "Homeowners Talked"
    qualified_leads: "Qualified Leads"
    appointments_set: "Appointments Set"

charts:
  output_dir: output/charts
  width: 1280
  height: 800
  colors:
    primary: "#2E86AB"
    secondary: "#A23B72"
    success: "#06A77D"
    warning: "#F18F01"
    danger: "#C73E1D"

email:
  enabled: false
  host: smtp.gmail.com
  port: 587
  username: ${LEADLENS_SMTP_USER}
  password: ${LEADLENS_SMTP_PASS}
  from: ""
  subject: "Your Sales Performance Report"

roster: team.yaml
state_path: .leadlens/state.db
`

const rosterTemplate = `# Team members who receive emailed reports.
# Names must match the form submissions.
team_members:
  - name: Jane Doe
    email: jane@example.com
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold leadlens.yaml and team.yaml",
		Long: `Create a starter configuration file and team roster in the current
directory. Existing files are left alone unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	out := cmd.OutOrStdout()

	files := []struct {
		path    string
		content string
	}{
		{"leadlens.yaml", configTemplate},
		{"team.yaml", rosterTemplate},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !opts.Force {
			fmt.Fprintf(out, "  skipped %s (exists, use --force to overwrite)\n", f.path)
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		fmt.Fprintf(out, "  created %s\n", f.path)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Fill in source.sheet_id and share the sheet with your service account")
	fmt.Fprintln(out, "  2. Update data.columns to match the sheet headers")
	fmt.Fprintln(out, "  3. Add your team to team.yaml")
	fmt.Fprintln(out, "  4. Run: leadlens doctor")
	return nil
}

// Package roster loads the team roster used for batch report delivery.
package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Member is one team member eligible for an emailed report.
type Member struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Roster is the parsed team file.
type Roster struct {
	Members []Member `yaml:"team_members"`
}

// Load reads and validates a roster YAML file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("team roster file not found: %s\nHint: Run 'leadlens init' to scaffold one", path)
		}
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}

	for i, m := range r.Members {
		if m.Name == "" {
			return nil, fmt.Errorf("roster member %d has no name", i+1)
		}
		if m.Email == "" {
			return nil, fmt.Errorf("roster member %q has no email", m.Name)
		}
	}
	return &r, nil
}

// Package config provides configuration management for the leadlens CLI.
package config

import (
	"fmt"

	"github.com/leadlens-io/leadlens/internal/report"
)

// Default configuration values.
const (
	DefaultConfigFile = "leadlens.yaml"
	DefaultDays       = 30
	DefaultOutputDir  = "output/charts"
	DefaultRosterFile = "team.yaml"
	DefaultStateFile  = ".leadlens/state.db"
	DefaultSourceType = "sheets"
)

// Config holds all CLI configuration options.
type Config struct {
	Source     SourceConfig `koanf:"source"`
	Data       DataConfig   `koanf:"data"`
	Charts     ChartsConfig `koanf:"charts"`
	Email      EmailConfig  `koanf:"email"`
	RosterPath string       `koanf:"roster"`
	StatePath  string       `koanf:"state_path"`
	Verbose    bool         `koanf:"verbose"`
}

// SourceConfig selects and configures the submission source.
type SourceConfig struct {
	Type        string `koanf:"type"`
	SheetID     string `koanf:"sheet_id"`
	Worksheet   string `koanf:"worksheet"`
	Credentials string `koanf:"credentials"`
	Path        string `koanf:"path"`
}

// DataConfig controls the reporting window and column mapping.
type DataConfig struct {
	Days    int           `koanf:"days"`
	Columns ColumnsConfig `koanf:"columns"`
}

// ColumnsConfig maps logical fields to sheet header names.
type ColumnsConfig struct {
	Timestamp        string `koanf:"timestamp"`
	Name             string `koanf:"name"`
	DoorsKnocked     string `koanf:"doors_knocked"`
	HomeownersTalked string `koanf:"homeowners_talked"`
	QualifiedLeads   string `koanf:"qualified_leads"`
	AppointmentsSet  string `koanf:"appointments_set"`
}

// Mapping converts the configured columns into a report mapping.
func (c ColumnsConfig) Mapping() report.Mapping {
	return report.Mapping{
		Timestamp:        c.Timestamp,
		Name:             c.Name,
		DoorsKnocked:     c.DoorsKnocked,
		HomeownersTalked: c.HomeownersTalked,
		QualifiedLeads:   c.QualifiedLeads,
		AppointmentsSet:  c.AppointmentsSet,
	}
}

// ChartsConfig controls chart rendering.
type ChartsConfig struct {
	OutputDir string            `koanf:"output_dir"`
	Width     int               `koanf:"width"`
	Height    int               `koanf:"height"`
	Colors    map[string]string `koanf:"colors"`
}

// EmailConfig controls report delivery.
type EmailConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	Subject  string `koanf:"subject"`
}

// Validate checks settings needed by every command that touches data.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case "sheets":
		if c.Source.SheetID == "" {
			return fmt.Errorf("source.sheet_id is required for the sheets source\nHint: Copy the ID from the sheet URL into leadlens.yaml")
		}
		if c.Source.Credentials == "" {
			return fmt.Errorf("source.credentials is required for the sheets source")
		}
	case "csv":
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the csv source")
		}
	case "":
		return fmt.Errorf("source.type is required")
	}

	if err := c.Data.Columns.Mapping().Validate(); err != nil {
		return err
	}

	if c.Email.Enabled {
		if c.Email.Host == "" {
			return fmt.Errorf("email.host is required when email is enabled")
		}
		if c.Email.From == "" && c.Email.Username == "" {
			return fmt.Errorf("email.from or email.username is required when email is enabled")
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileUsed tracks which file the last load read, if any.
var configFileUsed string

// flagKeys maps CLI flag names to config keys. Flags not listed here keep
// their name with dashes turned into underscores.
var flagKeys = map[string]string{
	"days":       "data.days",
	"source":     "source.type",
	"output-dir": "charts.output_dir",
	"state":      "state_path",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > leadlens.yaml > leadlens.yml. An explicit
// path that does not exist yields "" so Load can report it with a hint.
func findConfigFile(explicit string) string {
	candidates := []string{"leadlens.yaml", "leadlens.yml"}
	if explicit != "" {
		candidates = []string{explicit}
	}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"source.type":       DefaultSourceType,
		"source.worksheet":  "Form Responses 1",
		"data.days":         DefaultDays,
		"charts.output_dir": DefaultOutputDir,
		"email.port":        587,
		"roster":            DefaultRosterFile,
		"state_path":        DefaultStateFile,
		"verbose":           false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("configuration file not found at %s\nHint: Run 'leadlens init' to scaffold one", cfgFile)
	}

	// 3. Environment variables (LEADLENS_ prefix).
	// Transform: LEADLENS_SOURCE_SHEET_ID -> source.sheet_id. Only the
	// first underscore becomes a section separator.
	if err := k.Load(env.Provider("LEADLENS_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "LEADLENS_"))
		// Top-level keys with underscores stay flat.
		if key == "state_path" {
			return key
		}
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Credentials may reference environment variables.
	cfg.Email.Username = expandEnvVars(cfg.Email.Username)
	cfg.Email.Password = expandEnvVars(cfg.Email.Password)

	return &cfg, nil
}

// FileUsed returns the path to the config file being used, if any.
func FileUsed() string {
	return configFileUsed
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unknown variables are left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val := os.Getenv(name); val != "" {
			return val
		}
		return match
	})
}

// Package commands implements the leadlens subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/leadlens-io/leadlens/internal/chart"
	"github.com/leadlens-io/leadlens/internal/cli/config"
	"github.com/leadlens-io/leadlens/internal/mail"
	"github.com/leadlens-io/leadlens/internal/pipeline"
	"github.com/leadlens-io/leadlens/internal/source"
	"github.com/leadlens-io/leadlens/internal/state"
)

// ConfigKey is the context key under which the root command stores the
// loaded configuration.
type ConfigKey struct{}

// LoggerKey is the context key under which the root command stores the
// logger.
type LoggerKey struct{}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(ConfigKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{}
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// openStore opens the run ledger, creating its directory if needed.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// buildPipeline assembles a pipeline from the loaded configuration. The
// returned close function releases the state store.
func buildPipeline(cfg *config.Config, logger *slog.Logger, withMail bool) (*pipeline.Pipeline, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	src, err := source.New(source.Config{
		Type:        cfg.Source.Type,
		SheetID:     cfg.Source.SheetID,
		Worksheet:   cfg.Source.Worksheet,
		Credentials: cfg.Source.Credentials,
		Path:        cfg.Source.Path,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	gen := chart.NewGenerator(chart.Config{
		OutputDir: cfg.Charts.OutputDir,
		Width:     cfg.Charts.Width,
		Height:    cfg.Charts.Height,
		Palette:   chart.PaletteFromHex(cfg.Charts.Colors),
		Logger:    logger,
	})

	var sender *mail.Sender
	if withMail {
		if !cfg.Email.Enabled {
			return nil, nil, fmt.Errorf("email sending is disabled in config\nHint: Set email.enabled: true in leadlens.yaml")
		}
		sender, err = mail.NewSender(mail.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			Subject:  cfg.Email.Subject,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(pipeline.Config{
		Source:  src,
		Mapping: cfg.Data.Columns.Mapping(),
		Days:    cfg.Data.Days,
		Charts:  gen,
		Mailer:  sender,
		Store:   store,
		Logger:  logger,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return p, func() { store.Close() }, nil
}

// isTTY reports whether w is an interactive terminal; tables get borders
// on a TTY and stay plain when piped.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

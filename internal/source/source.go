// Package source provides read-only access to the spreadsheet that holds
// raw sales-activity submissions. Sources are registered by type name so
// the same pipeline can read a Google Sheet in production and a CSV export
// in tests.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// Table is a fetched worksheet: one header row plus data rows, all strings.
// Typing the cells is the cleaning stage's job, not the source's.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Source fetches the full submission table.
type Source interface {
	// Type returns the registered source type name.
	Type() string
	// Fetch reads the whole table. Implementations must be safe to call
	// more than once per process.
	Fetch(ctx context.Context) (*Table, error)
}

// Config carries the settings every source type draws from.
type Config struct {
	Type        string
	SheetID     string
	Worksheet   string
	Credentials string
	Path        string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(Config, *slog.Logger) (Source, error))
)

// Register adds a source factory to the registry. Called by source
// implementations in their init() functions.
func Register(name string, factory func(Config, *slog.Logger) (Source, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates a source instance based on config type. A nil logger uses a
// discard logger.
func New(cfg Config, logger *slog.Logger) (Source, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("source type not specified")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownSourceError{Type: cfg.Type, Available: List()}
	}
	return factory(cfg, logger)
}

// List returns all registered source type names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownSourceError is returned when an unknown source type is requested.
type UnknownSourceError struct {
	Type      string
	Available []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source type %q\nAvailable sources: %v\nHint: Check source.type in leadlens.yaml", e.Type, e.Available)
}

// FetchWithRetry fetches the table, retrying transient failures with
// exponential backoff. maxRetries counts additional attempts after the
// first.
func FetchWithRetry(ctx context.Context, src Source, maxRetries uint64, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var tbl *Table
	attempt := 0
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		t, err := src.Fetch(ctx)
		if err != nil {
			logger.Warn("fetch attempt failed", "source", src.Type(), "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		tbl = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from %s source: %w", src.Type(), err)
	}
	return tbl, nil
}

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
)

func init() {
	Register("csv", func(cfg Config, logger *slog.Logger) (Source, error) {
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv source requires source.path")
		}
		return &CSVSource{path: cfg.Path, logger: logger}, nil
	})
}

// CSVSource reads submissions from a local CSV export. The first record is
// the header row.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// Type returns "csv".
func (s *CSVSource) Type() string { return "csv" }

// Fetch reads the whole file.
func (s *CSVSource) Fetch(_ context.Context) (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("csv file not found: %s", s.path)
		}
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // sheets pad or truncate trailing blanks
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data found in %s", s.path)
	}

	s.logger.Debug("fetched csv rows", "path", s.path, "rows", len(records)-1)
	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

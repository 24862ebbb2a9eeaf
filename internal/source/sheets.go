package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

func init() {
	Register("sheets", func(cfg Config, logger *slog.Logger) (Source, error) {
		if cfg.SheetID == "" {
			return nil, fmt.Errorf("sheets source requires source.sheet_id")
		}
		if cfg.Credentials == "" {
			return nil, fmt.Errorf("sheets source requires source.credentials")
		}
		worksheet := cfg.Worksheet
		if worksheet == "" {
			worksheet = DefaultWorksheet
		}
		return &SheetsSource{
			sheetID:     cfg.SheetID,
			worksheet:   worksheet,
			credentials: cfg.Credentials,
			logger:      logger,
		}, nil
	})
}

// DefaultWorksheet is the tab name Google Forms writes responses to.
const DefaultWorksheet = "Form Responses 1"

// SheetsSource reads submissions from a Google Sheet using a service
// account with read-only scope.
type SheetsSource struct {
	sheetID     string
	worksheet   string
	credentials string
	logger      *slog.Logger

	svc *sheets.Service
}

// Type returns "sheets".
func (s *SheetsSource) Type() string { return "sheets" }

// service lazily builds the authenticated Sheets client.
func (s *SheetsSource) service(ctx context.Context) (*sheets.Service, error) {
	if s.svc != nil {
		return s.svc, nil
	}

	if _, err := os.Stat(s.credentials); os.IsNotExist(err) {
		return nil, fmt.Errorf(
			"credentials file not found: %s\nHint: Create a service account, download its JSON key, and share the sheet with the service account email",
			s.credentials)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(s.credentials),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Google Sheets: %w", err)
	}
	s.svc = svc
	return svc, nil
}

// Fetch reads all values from the configured worksheet.
func (s *SheetsSource) Fetch(ctx context.Context) (*Table, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(s.sheetID, s.worksheet).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case 404:
				return nil, fmt.Errorf(
					"spreadsheet not found: %s\nHint: Check the sheet ID and share the sheet with the service account email", s.sheetID)
			case 400:
				return nil, fmt.Errorf(
					"worksheet %q not found in spreadsheet %s\nHint: Check source.worksheet in leadlens.yaml", s.worksheet, s.sheetID)
			case 403:
				return nil, fmt.Errorf(
					"access denied to spreadsheet %s\nHint: Share the sheet with the service account email", s.sheetID)
			}
		}
		return nil, fmt.Errorf("failed to fetch worksheet %q: %w", s.worksheet, err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in worksheet %q", s.worksheet)
	}

	tbl := &Table{Headers: toStrings(resp.Values[0])}
	for _, row := range resp.Values[1:] {
		tbl.Rows = append(tbl.Rows, toStrings(row))
	}

	s.logger.Debug("fetched sheet rows", "sheet_id", s.sheetID, "worksheet", s.worksheet, "rows", len(tbl.Rows))
	return tbl, nil
}

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

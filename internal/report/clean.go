package report

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leadlens-io/leadlens/internal/source"
)

// Submission is one cleaned daily activity row.
type Submission struct {
	Timestamp        time.Time
	Name             string
	DoorsKnocked     int
	HomeownersTalked int
	QualifiedLeads   int
	AppointmentsSet  int
}

// CleanStats describes what cleaning did to the raw table.
type CleanStats struct {
	RawRows     int
	ValidRows   int
	DroppedRows int // rows with an unparseable timestamp
}

// timestampLayouts are the accepted submission timestamp formats. Google
// Form exports use the first two; the rest cover manual CSV exports.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

var titleCaser = cases.Title(language.English)

// Clean validates the table headers against the mapping and converts raw
// string rows into typed submissions.
//
// Rows whose timestamp cannot be parsed are dropped and counted. Count
// cells that are blank or non-numeric become 0, and negative counts are
// clamped to 0. Names are trimmed and title-cased so the same person
// submitted as "jane doe" and "Jane Doe" aggregates together.
func Clean(tbl *source.Table, m Mapping, logger *slog.Logger) ([]Submission, CleanStats, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	idx, err := m.columnIndex(tbl.Headers)
	if err != nil {
		return nil, CleanStats{}, err
	}

	stats := CleanStats{RawRows: len(tbl.Rows)}
	subs := make([]Submission, 0, len(tbl.Rows))

	for i, row := range tbl.Rows {
		ts, ok := parseTimestamp(cell(row, idx[m.Timestamp]))
		if !ok {
			stats.DroppedRows++
			logger.Debug("dropping row with invalid timestamp", "row", i+2, "value", cell(row, idx[m.Timestamp]))
			continue
		}

		subs = append(subs, Submission{
			Timestamp:        ts,
			Name:             NormalizeName(cell(row, idx[m.Name])),
			DoorsKnocked:     parseCount(cell(row, idx[m.DoorsKnocked])),
			HomeownersTalked: parseCount(cell(row, idx[m.HomeownersTalked])),
			QualifiedLeads:   parseCount(cell(row, idx[m.QualifiedLeads])),
			AppointmentsSet:  parseCount(cell(row, idx[m.AppointmentsSet])),
		})
	}

	stats.ValidRows = len(subs)
	logger.Debug("data cleaned", "raw", stats.RawRows, "valid", stats.ValidRows, "dropped", stats.DroppedRows)
	return subs, stats, nil
}

// NormalizeName trims and title-cases a submitted name.
func NormalizeName(name string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(name)))
}

// cell returns row[i], tolerating short rows from sparse sheet exports.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseCount coerces a count cell to a non-negative integer. Blank and
// malformed cells count as zero rather than invalidating the row.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Forms sometimes record whole numbers as "12.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

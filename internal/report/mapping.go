// Package report cleans, validates, and filters raw sales-activity
// submissions before any metric computation happens.
package report

import (
	"fmt"
	"strings"
)

// Mapping binds the logical submission fields to the actual column headers
// used by the spreadsheet. All six fields are required.
type Mapping struct {
	Timestamp        string
	Name             string
	DoorsKnocked     string
	HomeownersTalked string
	QualifiedLeads   string
	AppointmentsSet  string
}

// Validate checks that every logical field has a header name configured.
func (m Mapping) Validate() error {
	missing := []string{}
	for key, col := range m.fields() {
		if col == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("column mapping incomplete, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// fields returns the logical-key to header-name pairs in a stable order.
func (m Mapping) fields() map[string]string {
	return map[string]string{
		"timestamp":         m.Timestamp,
		"name":              m.Name,
		"doors_knocked":     m.DoorsKnocked,
		"homeowners_talked": m.HomeownersTalked,
		"qualified_leads":   m.QualifiedLeads,
		"appointments_set":  m.AppointmentsSet,
	}
}

// MissingColumnsError reports headers the mapping expects but the fetched
// table does not have.
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf(
		"missing required columns: %s\nAvailable columns: %s\nHint: Update data.columns in leadlens.yaml to match the sheet headers",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// columnIndex resolves each mapped header to its position in the header row.
// Header comparison trims surrounding whitespace but is case-sensitive,
// matching how form responses name their columns.
func (m Mapping) columnIndex(headers []string) (map[string]int, error) {
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		pos[strings.TrimSpace(h)] = i
	}

	idx := make(map[string]int, 6)
	var missing []string
	for _, col := range []string{m.Timestamp, m.Name, m.DoorsKnocked, m.HomeownersTalked, m.QualifiedLeads, m.AppointmentsSet} {
		i, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}

	if len(missing) > 0 {
		avail := make([]string, 0, len(headers))
		for _, h := range headers {
			avail = append(avail, strings.TrimSpace(h))
		}
		return nil, &MissingColumnsError{Missing: missing, Available: avail}
	}
	return idx, nil
}

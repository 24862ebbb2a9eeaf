// Package state records report runs in a local SQLite ledger so the
// history command can show what was generated and whether the mail went
// out. It is operational bookkeeping, not a store of the sales data itself.
package state

import "time"

// RunStatus is the lifecycle state of a report run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// EmailStatus records what happened to the report mail, if anything.
type EmailStatus string

// Email outcomes.
const (
	EmailSkipped EmailStatus = "skipped"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// Run is one generated report.
type Run struct {
	ID          string
	Person      string
	SourceType  string
	RowsUsed    int
	ChartsDir   string
	Status      RunStatus
	EmailStatus EmailStatus
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time // zero while running
}

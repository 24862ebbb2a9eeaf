// Package pipeline orchestrates a report run: fetch rows, clean and filter
// them, compute KPIs, render charts, and optionally mail the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/leadlens-io/leadlens/internal/chart"
	"github.com/leadlens-io/leadlens/internal/kpi"
	"github.com/leadlens-io/leadlens/internal/mail"
	"github.com/leadlens-io/leadlens/internal/report"
	"github.com/leadlens-io/leadlens/internal/roster"
	"github.com/leadlens-io/leadlens/internal/source"
	"github.com/leadlens-io/leadlens/internal/state"
)

// fetchRetries is how many extra attempts a flaky source fetch gets.
const fetchRetries = 2

// Config holds pipeline collaborators and settings.
type Config struct {
	Source  source.Source
	Mapping report.Mapping
	// Days is the reporting window; <= 0 means all data.
	Days   int
	Charts *chart.Generator
	// Mailer is optional; nil disables sending.
	Mailer *mail.Sender
	// Store is optional; nil disables the run ledger.
	Store  *state.SQLiteStore
	Logger *slog.Logger

	// Now is a clock hook for tests; defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs reports end to end.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a pipeline. Source, mapping, and chart generator are
// required.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline requires a source")
	}
	if err := cfg.Mapping.Validate(); err != nil {
		return nil, err
	}
	if cfg.Charts == nil {
		return nil, fmt.Errorf("pipeline requires a chart generator")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{cfg: cfg, logger: cfg.Logger, now: cfg.Now}, nil
}

// Dataset is the cleaned, window-filtered submission set for one run.
type Dataset struct {
	Rows     []report.Submission
	Stats    report.CleanStats
	Warnings []string
}

// Load fetches the table and produces the working dataset. Quality
// warnings are collected, not fatal.
func (p *Pipeline) Load(ctx context.Context) (*Dataset, error) {
	tbl, err := source.FetchWithRetry(ctx, p.cfg.Source, fetchRetries, p.logger)
	if err != nil {
		return nil, err
	}

	rows, stats, err := report.Clean(tbl, p.cfg.Mapping, p.logger)
	if err != nil {
		return nil, err
	}

	rows = report.FilterWindow(rows, p.cfg.Days, p.now())
	warnings := report.QualityWarnings(rows)
	for _, w := range warnings {
		p.logger.Warn("data quality", "warning", w)
	}

	p.logger.Info("dataset loaded",
		"rows", len(rows), "dropped", stats.DroppedRows, "window_days", p.cfg.Days)
	return &Dataset{Rows: rows, Stats: stats, Warnings: warnings}, nil
}

// PersonReport is everything computed and rendered for one person.
type PersonReport struct {
	Name       string
	DateRange  string
	Totals     kpi.Totals
	Rates      kpi.Rates
	Daily      []kpi.DailyTrend
	Weekly     []kpi.WeeklyTrend
	Comparison []kpi.MetricComparison
	Summary    kpi.Summary
	ChartPaths map[string]string
	ChartsDir  string
	RunID      string
}

// Report computes metrics and renders charts for one person out of the
// dataset. Name matching is case-insensitive with partial fallback.
func (p *Pipeline) Report(ctx context.Context, ds *Dataset, name string) (*PersonReport, error) {
	runID := p.startRun(name)

	personRows, err := report.FilterPerson(ds.Rows, name)
	if err != nil {
		p.finishRun(runID, state.RunStatusFailed, 0, "", state.EmailSkipped, err.Error())
		return nil, err
	}
	resolved := personRows[0].Name

	totals := kpi.CalculateTotals(personRows)
	rates := kpi.CalculateRates(totals)
	summary := kpi.Summarize(personRows)
	comparison := kpi.CompareToTeam(totals, report.TeamTotals(ds.Rows))

	rep := &PersonReport{
		Name:       resolved,
		DateRange:  summary.DateRange(),
		Totals:     totals,
		Rates:      rates,
		Daily:      kpi.DailyTrends(personRows),
		Weekly:     kpi.WeeklyTrends(personRows),
		Comparison: comparison,
		Summary:    summary,
		RunID:      runID,
	}

	paths, err := p.cfg.Charts.GenerateAll(resolved, rep.DateRange, totals, rates, rep.Daily, comparison)
	if err != nil {
		p.finishRun(runID, state.RunStatusFailed, len(personRows), "", state.EmailSkipped, err.Error())
		return nil, fmt.Errorf("failed to generate charts for %s: %w", resolved, err)
	}
	rep.ChartPaths = paths
	for _, path := range paths {
		rep.ChartsDir = filepath.Dir(path)
		break
	}

	p.finishRun(runID, state.RunStatusCompleted, len(personRows), rep.ChartsDir, state.EmailSkipped, "")
	p.logger.Info("report generated", "person", resolved, "entries", summary.Entries, "charts", len(paths))
	return rep, nil
}

// Send emails a generated report and records the outcome on its run.
func (p *Pipeline) Send(ctx context.Context, rep *PersonReport, email string) error {
	if p.cfg.Mailer == nil {
		return fmt.Errorf("email sending is not configured\nHint: Set email.enabled in leadlens.yaml")
	}

	err := p.cfg.Mailer.SendReport(ctx, email, rep.Name, rep.DateRange, rep.Totals, rep.Rates, rep.ChartPaths)
	if err != nil {
		p.updateEmail(rep.RunID, state.EmailFailed, err.Error())
		return err
	}
	p.updateEmail(rep.RunID, state.EmailSent, "")
	return nil
}

// BatchResult summarizes a roster-wide send.
type BatchResult struct {
	Generated int
	Sent      int
	Failed    []string // "name: reason" entries
}

// ReportAll generates and sends a report for every roster member. Failures
// are per-member and never abort the batch.
func (p *Pipeline) ReportAll(ctx context.Context, ds *Dataset, members []roster.Member, dryRun bool) *BatchResult {
	res := &BatchResult{}
	for _, m := range members {
		rep, err := p.Report(ctx, ds, m.Name)
		if err != nil {
			p.logger.Warn("skipping member", "name", m.Name, "error", err)
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", m.Name, err))
			continue
		}
		res.Generated++

		if dryRun {
			p.logger.Info("dry run, not sending", "name", m.Name, "email", m.Email)
			continue
		}
		if err := p.Send(ctx, rep, m.Email); err != nil {
			p.logger.Warn("failed to send report", "name", m.Name, "error", err)
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", m.Name, err))
			continue
		}
		res.Sent++
	}
	return res
}

// Run ledger helpers; all tolerate a nil store.

func (p *Pipeline) startRun(person string) string {
	if p.cfg.Store == nil {
		return ""
	}
	run, err := p.cfg.Store.CreateRun(person, p.cfg.Source.Type())
	if err != nil {
		p.logger.Warn("failed to record run start", "error", err)
		return ""
	}
	return run.ID
}

func (p *Pipeline) finishRun(id string, status state.RunStatus, rows int, chartsDir string, email state.EmailStatus, errMsg string) {
	if p.cfg.Store == nil || id == "" {
		return
	}
	if err := p.cfg.Store.CompleteRun(id, status, rows, chartsDir, email, errMsg); err != nil {
		p.logger.Warn("failed to record run completion", "error", err)
	}
}

func (p *Pipeline) updateEmail(id string, email state.EmailStatus, errMsg string) {
	if p.cfg.Store == nil || id == "" {
		return
	}
	run, err := p.cfg.Store.GetRun(id)
	if err != nil {
		p.logger.Warn("failed to load run for email update", "error", err)
		return
	}
	if err := p.cfg.Store.CompleteRun(id, run.Status, run.RowsUsed, run.ChartsDir, email, errMsg); err != nil {
		p.logger.Warn("failed to record email outcome", "error", err)
	}
}

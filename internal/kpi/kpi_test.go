package kpi

import (
	"testing"
	"time"

	"github.com/leadlens-io/leadlens/internal/report"
)

func sub(name string, day int, doors, talked, leads, appts int) report.Submission {
	return report.Submission{
		Timestamp:        time.Date(2026, 1, day, 12, 0, 0, 0, time.Local),
		Name:             name,
		DoorsKnocked:     doors,
		HomeownersTalked: talked,
		QualifiedLeads:   leads,
		AppointmentsSet:  appts,
	}
}

func TestCalculateTotals(t *testing.T) {
	subs := []report.Submission{
		sub("Jane Doe", 1, 40, 12, 5, 2),
		sub("Jane Doe", 2, 30, 10, 3, 1),
	}

	got := CalculateTotals(subs)
	want := Totals{DoorsKnocked: 70, HomeownersTalked: 22, QualifiedLeads: 8, AppointmentsSet: 3}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if got := CalculateTotals(nil); got != (Totals{}) {
		t.Errorf("expected zero totals for no submissions, got %+v", got)
	}
}

func TestCalculateRates(t *testing.T) {
	tests := []struct {
		name   string
		totals Totals
		talk   string
		qual   string
		appt   string
		conv   string
	}{
		{
			name:   "typical funnel",
			totals: Totals{DoorsKnocked: 100, HomeownersTalked: 30, QualifiedLeads: 9, AppointmentsSet: 3},
			talk:   "30", qual: "30", appt: "33.3", conv: "3",
		},
		{
			name:   "zero doors",
			totals: Totals{},
			talk:   "0", qual: "0", appt: "0", conv: "0",
		},
		{
			name:   "partial funnel",
			totals: Totals{DoorsKnocked: 50, HomeownersTalked: 10},
			talk:   "20", qual: "0", appt: "0", conv: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRates(tt.totals)
			checks := []struct {
				label string
				got   string
				want  string
			}{
				{"talk rate", got.TalkRate.String(), tt.talk},
				{"qualification rate", got.QualificationRate.String(), tt.qual},
				{"appointment rate", got.AppointmentRate.String(), tt.appt},
				{"overall conversion", got.OverallConversion.String(), tt.conv},
			}
			for _, c := range checks {
				if c.got != c.want {
					t.Errorf("%s: expected %s, got %s", c.label, c.want, c.got)
				}
			}
		})
	}
}

func TestCompareToTeam(t *testing.T) {
	team := []report.PersonTotals{
		{Name: "Jane Doe", DoorsKnocked: 60, HomeownersTalked: 20, QualifiedLeads: 8, AppointmentsSet: 4},
		{Name: "John Smith", DoorsKnocked: 40, HomeownersTalked: 10, QualifiedLeads: 4, AppointmentsSet: 2},
	}
	individual := Totals{DoorsKnocked: 60, HomeownersTalked: 20, QualifiedLeads: 8, AppointmentsSet: 4}

	got := CompareToTeam(individual, team)
	if len(got) != 4 {
		t.Fatalf("expected 4 metric comparisons, got %d", len(got))
	}

	doors := got[0]
	if doors.Metric != MetricDoorsKnocked {
		t.Errorf("expected first metric %q, got %q", MetricDoorsKnocked, doors.Metric)
	}
	if doors.TeamAverage.String() != "50" {
		t.Errorf("expected team average 50, got %s", doors.TeamAverage)
	}
	if doors.PercentDiff.String() != "20" {
		t.Errorf("expected percent diff 20, got %s", doors.PercentDiff)
	}
}

func TestCompareToTeam_ExactMean(t *testing.T) {
	team := []report.PersonTotals{
		{Name: "Jane Doe", DoorsKnocked: 5},
		{Name: "John Smith", DoorsKnocked: 3},
		{Name: "Janet Ray", DoorsKnocked: 2},
	}

	// 5 against a mean of 10/3 is exactly 50% above; dividing by the
	// displayed 3.3 would report 51.5.
	got := CompareToTeam(Totals{DoorsKnocked: 5}, team)
	doors := got[0]
	if doors.TeamAverage.String() != "3.3" {
		t.Errorf("expected displayed team average 3.3, got %s", doors.TeamAverage)
	}
	if doors.PercentDiff.String() != "50" {
		t.Errorf("expected percent diff 50, got %s", doors.PercentDiff)
	}
}

func TestCompareToTeam_EmptyTeam(t *testing.T) {
	got := CompareToTeam(Totals{DoorsKnocked: 10}, nil)
	for _, mc := range got {
		if !mc.TeamAverage.IsZero() || !mc.PercentDiff.IsZero() {
			t.Errorf("expected zero averages for empty team, got %+v", mc)
		}
	}
}

func TestDailyTrends(t *testing.T) {
	subs := []report.Submission{
		sub("Jane Doe", 2, 10, 5, 2, 1),
		sub("Jane Doe", 1, 20, 8, 3, 1),
		sub("Jane Doe", 2, 5, 2, 1, 0),
	}

	got := DailyTrends(subs)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Error("expected days sorted chronologically")
	}
	if got[0].DoorsKnocked != 20 {
		t.Errorf("expected day one doors 20, got %d", got[0].DoorsKnocked)
	}
	if got[1].DoorsKnocked != 15 || got[1].HomeownersTalked != 7 {
		t.Errorf("expected day two rows merged, got %+v", got[1])
	}
}

func TestWeeklyTrends(t *testing.T) {
	subs := []report.Submission{
		sub("Jane Doe", 5, 10, 5, 2, 1),  // 2026-W02
		sub("Jane Doe", 12, 20, 8, 3, 1), // 2026-W03
		sub("Jane Doe", 13, 5, 2, 1, 0),  // 2026-W03
	}

	got := WeeklyTrends(subs)
	if len(got) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(got))
	}
	if got[0].Week != "2026-W02" || got[1].Week != "2026-W03" {
		t.Errorf("unexpected week labels: %q, %q", got[0].Week, got[1].Week)
	}
	if got[1].DoorsKnocked != 25 {
		t.Errorf("expected second week doors 25, got %d", got[1].DoorsKnocked)
	}
}

func TestSummarize(t *testing.T) {
	subs := []report.Submission{
		sub("Jane Doe", 3, 10, 5, 2, 1),
		sub("Jane Doe", 1, 20, 8, 3, 1),
		sub("Jane Doe", 3, 5, 2, 1, 0),
	}

	s := Summarize(subs)
	if s.Entries != 3 {
		t.Errorf("expected 3 entries, got %d", s.Entries)
	}
	if s.DaysActive != 2 {
		t.Errorf("expected 2 active days, got %d", s.DaysActive)
	}
	if got := s.DateRange(); got != "2026-01-01 to 2026-01-03" {
		t.Errorf("unexpected date range: %q", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Entries != 0 || s.DaysActive != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if s.DateRange() != "" {
		t.Errorf("expected empty date range, got %q", s.DateRange())
	}
}

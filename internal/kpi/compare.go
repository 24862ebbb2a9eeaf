package kpi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leadlens-io/leadlens/internal/report"
)

// MetricComparison compares one metric's individual total against the mean
// of all team members' totals.
type MetricComparison struct {
	Metric      string
	Individual  int
	TeamAverage decimal.Decimal
	// PercentDiff is (individual - average) / average * 100, rounded to one
	// decimal place. Zero when the team average is zero.
	PercentDiff decimal.Decimal
}

// Metric display names, in funnel order.
const (
	MetricDoorsKnocked     = "Doors Knocked"
	MetricHomeownersTalked = "Homeowners Talked"
	MetricQualifiedLeads   = "Qualified Leads"
	MetricAppointmentsSet  = "Appointments Set"
)

// CompareToTeam computes per-metric comparisons of an individual's totals
// against the team's per-person averages.
func CompareToTeam(individual Totals, team []report.PersonTotals) []MetricComparison {
	n := len(team)
	var sums Totals
	for _, pt := range team {
		sums.DoorsKnocked += pt.DoorsKnocked
		sums.HomeownersTalked += pt.HomeownersTalked
		sums.QualifiedLeads += pt.QualifiedLeads
		sums.AppointmentsSet += pt.AppointmentsSet
	}

	return []MetricComparison{
		compareMetric(MetricDoorsKnocked, individual.DoorsKnocked, sums.DoorsKnocked, n),
		compareMetric(MetricHomeownersTalked, individual.HomeownersTalked, sums.HomeownersTalked, n),
		compareMetric(MetricQualifiedLeads, individual.QualifiedLeads, sums.QualifiedLeads, n),
		compareMetric(MetricAppointmentsSet, individual.AppointmentsSet, sums.AppointmentsSet, n),
	}
}

func compareMetric(name string, individual, teamSum, teamSize int) MetricComparison {
	mc := MetricComparison{Metric: name, Individual: individual}
	if teamSize == 0 {
		return mc
	}

	// Diff against the exact mean; TeamAverage is rounded for display only.
	avg := decimal.NewFromInt(int64(teamSum)).
		Div(decimal.NewFromInt(int64(teamSize)))
	mc.TeamAverage = avg.Round(1)
	if avg.IsZero() {
		return mc
	}

	ind := decimal.NewFromInt(int64(individual))
	mc.PercentDiff = ind.Sub(avg).
		Div(avg).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return mc
}

// Summary describes the shape of one person's filtered data.
type Summary struct {
	Entries    int
	Start      time.Time
	End        time.Time
	DaysActive int
}

// Summarize computes entry count, date range, and distinct active days.
func Summarize(subs []report.Submission) Summary {
	s := Summary{Entries: len(subs)}
	if len(subs) == 0 {
		return s
	}

	days := map[string]bool{}
	s.Start, s.End = subs[0].Timestamp, subs[0].Timestamp
	for _, sub := range subs {
		if sub.Timestamp.Before(s.Start) {
			s.Start = sub.Timestamp
		}
		if sub.Timestamp.After(s.End) {
			s.End = sub.Timestamp
		}
		days[sub.Timestamp.Format("2006-01-02")] = true
	}
	s.DaysActive = len(days)
	return s
}

// DateRange formats the summary's date range for titles and subjects.
func (s Summary) DateRange() string {
	if s.Entries == 0 {
		return ""
	}
	return s.Start.Format("2006-01-02") + " to " + s.End.Format("2006-01-02")
}

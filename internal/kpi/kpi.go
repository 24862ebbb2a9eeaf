// Package kpi computes performance metrics from cleaned submissions: the
// four activity totals, the funnel conversion rates between them, daily and
// weekly trends, and individual-vs-team comparisons.
package kpi

import (
	"github.com/shopspring/decimal"

	"github.com/leadlens-io/leadlens/internal/report"
)

// Totals holds the four activity counts summed over a set of submissions.
type Totals struct {
	DoorsKnocked     int
	HomeownersTalked int
	QualifiedLeads   int
	AppointmentsSet  int
}

// Rates holds the funnel conversion rates as percentages rounded to one
// decimal place. A stage with a zero denominator yields a zero rate.
type Rates struct {
	// TalkRate is homeowners talked / doors knocked.
	TalkRate decimal.Decimal
	// QualificationRate is qualified leads / homeowners talked.
	QualificationRate decimal.Decimal
	// AppointmentRate is appointments set / qualified leads.
	AppointmentRate decimal.Decimal
	// OverallConversion is appointments set / doors knocked.
	OverallConversion decimal.Decimal
}

// CalculateTotals sums the four counts over the submissions.
func CalculateTotals(subs []report.Submission) Totals {
	var t Totals
	for _, s := range subs {
		t.DoorsKnocked += s.DoorsKnocked
		t.HomeownersTalked += s.HomeownersTalked
		t.QualifiedLeads += s.QualifiedLeads
		t.AppointmentsSet += s.AppointmentsSet
	}
	return t
}

// CalculateRates derives the conversion rates from totals.
func CalculateRates(t Totals) Rates {
	return Rates{
		TalkRate:          percentage(t.HomeownersTalked, t.DoorsKnocked),
		QualificationRate: percentage(t.QualifiedLeads, t.HomeownersTalked),
		AppointmentRate:   percentage(t.AppointmentsSet, t.QualifiedLeads),
		OverallConversion: percentage(t.AppointmentsSet, t.DoorsKnocked),
	}
}

// percentage computes num/den*100 rounded to one decimal place, with 0 for
// a zero denominator.
func percentage(num, den int) decimal.Decimal {
	if den <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}

package kpi

import (
	"fmt"
	"sort"
	"time"

	"github.com/leadlens-io/leadlens/internal/report"
)

// DailyTrend is one calendar day's summed activity.
type DailyTrend struct {
	Date time.Time
	Totals
}

// WeeklyTrend is one ISO week's summed activity.
type WeeklyTrend struct {
	// Week is the ISO week label, e.g. "2026-W35".
	Week string
	Totals
}

// DailyTrends aggregates submissions per calendar day, sorted by date.
func DailyTrends(subs []report.Submission) []DailyTrend {
	byDay := map[time.Time]*DailyTrend{}
	for _, s := range subs {
		day := time.Date(s.Timestamp.Year(), s.Timestamp.Month(), s.Timestamp.Day(), 0, 0, 0, 0, s.Timestamp.Location())
		dt, ok := byDay[day]
		if !ok {
			dt = &DailyTrend{Date: day}
			byDay[day] = dt
		}
		dt.add(s)
	}

	out := make([]DailyTrend, 0, len(byDay))
	for _, dt := range byDay {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// WeeklyTrends aggregates submissions per ISO week, sorted chronologically.
func WeeklyTrends(subs []report.Submission) []WeeklyTrend {
	byWeek := map[string]*WeeklyTrend{}
	for _, s := range subs {
		year, week := s.Timestamp.ISOWeek()
		label := fmt.Sprintf("%d-W%02d", year, week)
		wt, ok := byWeek[label]
		if !ok {
			wt = &WeeklyTrend{Week: label}
			byWeek[label] = wt
		}
		wt.add(s)
	}

	out := make([]WeeklyTrend, 0, len(byWeek))
	for _, wt := range byWeek {
		out = append(out, *wt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

func (t *Totals) add(s report.Submission) {
	t.DoorsKnocked += s.DoorsKnocked
	t.HomeownersTalked += s.HomeownersTalked
	t.QualifiedLeads += s.QualifiedLeads
	t.AppointmentsSet += s.AppointmentsSet
}

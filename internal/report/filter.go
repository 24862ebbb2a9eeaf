package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PersonNotFoundError is returned when no submission matches the requested
// name, exactly or partially.
type PersonNotFoundError struct {
	Name      string
	Available []string
}

func (e *PersonNotFoundError) Error() string {
	return fmt.Sprintf("no data found for %q\nAvailable names: %s", e.Name, strings.Join(e.Available, ", "))
}

// AmbiguousPersonError is returned when a partial name matches more than
// one person.
type AmbiguousPersonError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousPersonError) Error() string {
	return fmt.Sprintf("name %q matches multiple people: %s\nHint: Use a more specific name", e.Name, strings.Join(e.Matches, ", "))
}

// FilterWindow keeps submissions from the last `days` days. days <= 0 keeps
// everything. The cutoff is measured from `now`.
func FilterWindow(subs []Submission, days int, now time.Time) []Submission {
	if days <= 0 {
		return subs
	}
	cutoff := now.AddDate(0, 0, -days)
	out := make([]Submission, 0, len(subs))
	for _, s := range subs {
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// FilterPerson selects one person's submissions. An exact case-insensitive
// match wins; otherwise a substring match is tried. Zero matches and
// ambiguous substring matches are errors.
func FilterPerson(subs []Submission, name string) ([]Submission, error) {
	want := strings.ToLower(strings.TrimSpace(name))

	var exact []Submission
	for _, s := range subs {
		if strings.ToLower(s.Name) == want {
			exact = append(exact, s)
		}
	}
	if len(exact) > 0 {
		return exact, nil
	}

	// Partial match against distinct names so one person with many rows
	// does not look ambiguous.
	matched := map[string]bool{}
	var partial []Submission
	for _, s := range subs {
		if strings.Contains(strings.ToLower(s.Name), want) {
			matched[s.Name] = true
			partial = append(partial, s)
		}
	}
	switch len(matched) {
	case 0:
		return nil, &PersonNotFoundError{Name: name, Available: Names(subs)}
	case 1:
		return partial, nil
	default:
		names := make([]string, 0, len(matched))
		for n := range matched {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, &AmbiguousPersonError{Name: name, Matches: names}
	}
}

// Names returns the distinct submitter names, sorted.
func Names(subs []Submission) []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range subs {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

// PersonTotals is one team member's aggregated counts.
type PersonTotals struct {
	Name             string
	DoorsKnocked     int
	HomeownersTalked int
	QualifiedLeads   int
	AppointmentsSet  int
}

// TeamTotals aggregates submissions per person, sorted by name.
func TeamTotals(subs []Submission) []PersonTotals {
	byName := map[string]*PersonTotals{}
	for _, s := range subs {
		pt, ok := byName[s.Name]
		if !ok {
			pt = &PersonTotals{Name: s.Name}
			byName[s.Name] = pt
		}
		pt.DoorsKnocked += s.DoorsKnocked
		pt.HomeownersTalked += s.HomeownersTalked
		pt.QualifiedLeads += s.QualifiedLeads
		pt.AppointmentsSet += s.AppointmentsSet
	}

	out := make([]PersonTotals, 0, len(byName))
	for _, pt := range byName {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// QualityWarnings flags rows whose funnel counts are inconsistent: a later
// stage cannot exceed an earlier one. Warnings never fail a run.
func QualityWarnings(subs []Submission) []string {
	var talked, qualified, appts bool
	for _, s := range subs {
		if s.HomeownersTalked > s.DoorsKnocked {
			talked = true
		}
		if s.QualifiedLeads > s.HomeownersTalked {
			qualified = true
		}
		if s.AppointmentsSet > s.QualifiedLeads {
			appts = true
		}
	}

	var warnings []string
	if talked {
		warnings = append(warnings, "some records have more homeowners talked than doors knocked")
	}
	if qualified {
		warnings = append(warnings, "some records have more qualified leads than homeowners talked")
	}
	if appts {
		warnings = append(warnings, "some records have more appointments than qualified leads")
	}
	return warnings
}

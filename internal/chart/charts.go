package chart

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leadlens-io/leadlens/internal/kpi"
)

// Chart file names, also used as attachment names in report mails.
const (
	FileKPIMetrics      = "kpi_metrics.png"
	FileFunnel          = "conversion_funnel.png"
	FileDailyTrends     = "daily_trends.png"
	FileTeamComparison  = "team_comparison.png"
	FileConversionRates = "conversion_rates.png"
)

// GenerateAll renders the full chart set for one person and returns a map
// of chart file name to path.
func (g *Generator) GenerateAll(personName, dateRange string, totals kpi.Totals, rates kpi.Rates, daily []kpi.DailyTrend, comparison []kpi.MetricComparison) (map[string]string, error) {
	dir, err := g.ensureDir(personName)
	if err != nil {
		return nil, err
	}

	paths := map[string]string{}
	renderers := []struct {
		file   string
		render func(dir string, personName, dateRange string) (string, error)
	}{
		{FileKPIMetrics, func(dir, n, dr string) (string, error) { return g.kpiBars(dir, n, dr, totals) }},
		{FileFunnel, func(dir, n, dr string) (string, error) { return g.funnel(dir, n, dr, totals, rates) }},
		{FileDailyTrends, func(dir, n, dr string) (string, error) { return g.dailyTrends(dir, n, dr, daily) }},
		{FileTeamComparison, func(dir, n, dr string) (string, error) { return g.teamComparison(dir, n, dr, comparison) }},
		{FileConversionRates, func(dir, n, dr string) (string, error) { return g.conversionRates(dir, n, dr, rates) }},
	}
	for _, r := range renderers {
		path, err := r.render(dir, personName, dateRange)
		if err != nil {
			return nil, err
		}
		paths[r.file] = path
	}
	return paths, nil
}

// kpiBars draws the four activity totals as a bar chart.
func (g *Generator) kpiBars(dir, personName, dateRange string, totals kpi.Totals) (string, error) {
	bars := []chart.Value{
		{Label: "Doors Knocked", Value: float64(totals.DoorsKnocked), Style: barStyle(g.palette.Primary)},
		{Label: "Homeowners Talked", Value: float64(totals.HomeownersTalked), Style: barStyle(g.palette.Warning)},
		{Label: "Qualified Leads", Value: float64(totals.QualifiedLeads), Style: barStyle(g.palette.Success)},
		{Label: "Appointments Set", Value: float64(totals.AppointmentsSet), Style: barStyle(g.palette.Secondary)},
	}
	bc := g.barChart(fmt.Sprintf("Performance Metrics - %s (%s)", personName, dateRange), "Count", bars)
	return g.save(dir, FileKPIMetrics, func(f *os.File) error {
		return bc.Render(chart.PNG, f)
	})
}

// funnel draws the four funnel stages as decreasing bars, each labeled with
// the conversion rate from the previous stage.
func (g *Generator) funnel(dir, personName, dateRange string, totals kpi.Totals, rates kpi.Rates) (string, error) {
	bars := []chart.Value{
		{Label: "Doors Knocked", Value: float64(totals.DoorsKnocked), Style: barStyle(g.palette.Primary)},
		{Label: fmt.Sprintf("Talked (%s%%)", rates.TalkRate.StringFixed(1)), Value: float64(totals.HomeownersTalked), Style: barStyle(g.palette.Warning)},
		{Label: fmt.Sprintf("Qualified (%s%%)", rates.QualificationRate.StringFixed(1)), Value: float64(totals.QualifiedLeads), Style: barStyle(g.palette.Success)},
		{Label: fmt.Sprintf("Appointments (%s%%)", rates.AppointmentRate.StringFixed(1)), Value: float64(totals.AppointmentsSet), Style: barStyle(g.palette.Secondary)},
	}
	bc := g.barChart(fmt.Sprintf("Sales Funnel - %s (%s)", personName, dateRange), "Count", bars)
	return g.save(dir, FileFunnel, func(f *os.File) error {
		return bc.Render(chart.PNG, f)
	})
}

// dailyTrends draws the per-day counts as four time series.
func (g *Generator) dailyTrends(dir, personName, dateRange string, daily []kpi.DailyTrend) (string, error) {
	xs := make([]time.Time, 0, len(daily))
	doors := make([]float64, 0, len(daily))
	talked := make([]float64, 0, len(daily))
	qualified := make([]float64, 0, len(daily))
	appts := make([]float64, 0, len(daily))
	for _, d := range daily {
		xs = append(xs, d.Date)
		doors = append(doors, float64(d.DoorsKnocked))
		talked = append(talked, float64(d.HomeownersTalked))
		qualified = append(qualified, float64(d.QualifiedLeads))
		appts = append(appts, float64(d.AppointmentsSet))
	}

	// go-chart needs at least two points per series; a single active day
	// becomes a flat two-point line.
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		doors = append(doors, doors[0])
		talked = append(talked, talked[0])
		qualified = append(qualified, qualified[0])
		appts = append(appts, appts[0])
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("Daily Trends - %s (%s)", personName, dateRange),
		Width:      g.width,
		Height:     g.height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{Name: "Count"},
		Series: []chart.Series{
			lineSeries("Doors Knocked", g.palette.Primary, xs, doors),
			lineSeries("Homeowners Talked", g.palette.Warning, xs, talked),
			lineSeries("Qualified Leads", g.palette.Success, xs, qualified),
			lineSeries("Appointments Set", g.palette.Secondary, xs, appts),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return g.save(dir, FileDailyTrends, func(f *os.File) error {
		return graph.Render(chart.PNG, f)
	})
}

// teamComparison draws individual totals next to team averages per metric.
func (g *Generator) teamComparison(dir, personName, dateRange string, comparison []kpi.MetricComparison) (string, error) {
	bars := make([]chart.Value, 0, len(comparison)*2)
	for _, mc := range comparison {
		avg, _ := mc.TeamAverage.Float64()
		bars = append(bars,
			chart.Value{Label: mc.Metric + " (you)", Value: float64(mc.Individual), Style: barStyle(g.palette.Primary)},
			chart.Value{Label: mc.Metric + " (team)", Value: avg, Style: barStyle(g.palette.Secondary)},
		)
	}
	bc := g.barChart(fmt.Sprintf("You vs Team Average - %s (%s)", personName, dateRange), "Total", bars)
	bc.BarWidth = 50
	return g.save(dir, FileTeamComparison, func(f *os.File) error {
		return bc.Render(chart.PNG, f)
	})
}

// conversionRates draws the four conversion percentages.
func (g *Generator) conversionRates(dir, personName, dateRange string, rates kpi.Rates) (string, error) {
	bars := []chart.Value{
		{Label: "Talk Rate", Value: rateValue(rates.TalkRate), Style: barStyle(g.palette.Primary)},
		{Label: "Qualification Rate", Value: rateValue(rates.QualificationRate), Style: barStyle(g.palette.Warning)},
		{Label: "Appointment Rate", Value: rateValue(rates.AppointmentRate), Style: barStyle(g.palette.Success)},
		{Label: "Overall Conversion", Value: rateValue(rates.OverallConversion), Style: barStyle(g.palette.Danger)},
	}
	bc := g.barChart(fmt.Sprintf("Conversion Rates - %s (%s)", personName, dateRange), "Percent", bars)
	return g.save(dir, FileConversionRates, func(f *os.File) error {
		return bc.Render(chart.PNG, f)
	})
}

// barChart builds a bar chart with a zero-based y range. go-chart rejects
// a zero-width value range, so empty data still gets a unit range.
func (g *Generator) barChart(title, yAxisName string, bars []chart.Value) chart.BarChart {
	maxVal := 1.0
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	return chart.BarChart{
		Title:      title,
		Width:      g.width,
		Height:     g.height,
		BarWidth:   80,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  yAxisName,
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.1},
		},
		Bars: bars,
	}
}

func barStyle(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c, StrokeColor: c}
}

func lineSeries(name string, c drawing.Color, xs []time.Time, ys []float64) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    name,
		Style:   chart.Style{StrokeColor: c, StrokeWidth: 2.5},
		XValues: xs,
		YValues: ys,
	}
}

func rateValue(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

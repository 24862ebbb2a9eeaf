package mail

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/leadlens-io/leadlens/internal/kpi"
)

// BodyData feeds the HTML mail template.
type BodyData struct {
	PersonName  string
	DateRange   string
	Totals      kpi.Totals
	Rates       kpi.Rates
	GeneratedAt time.Time
}

var bodyTmpl = template.Must(template.New("report").Parse(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .header { background-color: #2E86AB; color: white; padding: 20px; text-align: center; border-radius: 5px; }
  .content { padding: 20px; }
  .metrics { background-color: #f4f4f4; padding: 15px; border-radius: 5px; margin: 20px 0; }
  .conversion { background-color: #e8f4f8; padding: 15px; border-radius: 5px; margin: 20px 0; }
  .metric-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #ddd; }
  .metric-label { font-weight: bold; color: #555; }
  .metric-value { color: #2E86AB; font-weight: bold; }
  .highlight { color: #06A77D; font-weight: bold; }
  .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
</style>
</head>
<body>
  <div class="header">
    <h1>Your Sales Performance</h1>
    <p>{{.DateRange}}</p>
  </div>
  <div class="content">
    <p>Hi {{.PersonName}},</p>
    <p>Here is your performance summary. Great work out there!</p>
    <div class="metrics">
      <h2>Your Activity Metrics</h2>
      <div class="metric-row"><span class="metric-label">Doors Knocked:</span><span class="metric-value">{{.Totals.DoorsKnocked}}</span></div>
      <div class="metric-row"><span class="metric-label">Homeowners Talked:</span><span class="metric-value">{{.Totals.HomeownersTalked}}</span></div>
      <div class="metric-row"><span class="metric-label">Qualified Leads:</span><span class="metric-value">{{.Totals.QualifiedLeads}}</span></div>
      <div class="metric-row"><span class="metric-label">Appointments Set:</span><span class="metric-value">{{.Totals.AppointmentsSet}}</span></div>
    </div>
    <div class="conversion">
      <h2>Your Conversion Rates</h2>
      <div class="metric-row"><span class="metric-label">Talk Rate:</span><span class="metric-value">{{.TalkRate}}%</span></div>
      <div class="metric-row"><span class="metric-label">Qualification Rate:</span><span class="metric-value">{{.QualificationRate}}%</span></div>
      <div class="metric-row"><span class="metric-label">Appointment Rate:</span><span class="metric-value">{{.AppointmentRate}}%</span></div>
      <div class="metric-row"><span class="metric-label">Overall Conversion:</span><span class="metric-value highlight">{{.OverallConversion}}%</span></div>
    </div>
    <p><strong>Attached Charts:</strong></p>
    <ul>
      <li>Performance Metrics Overview</li>
      <li>Sales Funnel Visualization</li>
      <li>Daily Performance Trends</li>
      <li>Team Comparison</li>
      <li>Conversion Rates Breakdown</li>
    </ul>
    <p>Keep up the excellent work! If you have questions about your metrics, reach out to your manager.</p>
  </div>
  <div class="footer">
    <p>This is an automated report. Generated on {{.Generated}}</p>
  </div>
</body>
</html>
`))

// bodyView flattens BodyData into template-friendly strings.
type bodyView struct {
	PersonName        string
	DateRange         string
	Totals            kpi.Totals
	TalkRate          string
	QualificationRate string
	AppointmentRate   string
	OverallConversion string
	Generated         string
}

// RenderBody renders the HTML mail body.
func RenderBody(data BodyData) (string, error) {
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	view := bodyView{
		PersonName:        data.PersonName,
		DateRange:         data.DateRange,
		Totals:            data.Totals,
		TalkRate:          data.Rates.TalkRate.StringFixed(1),
		QualificationRate: data.Rates.QualificationRate.StringFixed(1),
		AppointmentRate:   data.Rates.AppointmentRate.StringFixed(1),
		OverallConversion: data.Rates.OverallConversion.StringFixed(1),
		Generated:         generated.Format("2006-01-02 15:04:05"),
	}

	var b strings.Builder
	if err := bodyTmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render mail body: %w", err)
	}
	return b.String(), nil
}

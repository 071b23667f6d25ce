package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/health"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// summaryWindowDays is the default window for health summaries.
const summaryWindowDays = 7

// HealthModel is the view model for the health metric feed.
type HealthModel struct {
	store     *health.Store
	metrics   []health.Metric
	summaries []health.Summary
	alerts    []health.Alert
	loading   bool
	errText   string
	width     int
	height    int
}

// NewHealthModel creates the health view.
func NewHealthModel(store *health.Store, width, height int) HealthModel {
	return HealthModel{
		store:   store,
		metrics: store.Metrics(),
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init triggers the initial loads: metrics, summaries, and threshold alerts.
func (m HealthModel) Init() tea.Cmd {
	return tea.Batch(
		commands.FetchMetricsCmd(m.store),
		commands.FetchSummariesCmd(m.store, summaryWindowDays),
		commands.FetchHealthAlertsCmd(m.store),
	)
}

// Update handles messages for the health view.
func (m HealthModel) Update(msg tea.Msg) (HealthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.Init()
		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }
		}

	case tui.MetricsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.metrics = msg.Metrics
		return m, nil

	case tui.SummariesLoadedMsg:
		if msg.Err == nil {
			m.summaries = msg.Summaries
		}
		return m, nil

	case tui.HealthAlertsLoadedMsg:
		if msg.Err == nil {
			m.alerts = msg.Alerts
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// formatReading renders a metric value, handling the two-part blood
// pressure reading.
func formatReading(metric health.Metric) string {
	if metric.Systolic != nil && metric.Diastolic != nil {
		return fmt.Sprintf("%.0f/%.0f %s", *metric.Systolic, *metric.Diastolic, metric.Unit)
	}
	if metric.Value != nil {
		return fmt.Sprintf("%.1f %s", *metric.Value, metric.Unit)
	}
	return "-"
}

// View renders the health view.
func (m HealthModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Health Metrics"))
	b.WriteString("\n\n")

	for _, alert := range m.alerts {
		b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("%s %s", tui.IconAlert, alert.Message)))
		b.WriteString("\n")
	}
	if len(m.alerts) > 0 {
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading metrics..."))
		b.WriteString("\n")
	case len(m.metrics) == 0:
		b.WriteString(tui.DimStyle.Render("No readings yet."))
		b.WriteString("\n")
	default:
		for _, metric := range m.metrics {
			b.WriteString(fmt.Sprintf("  %-16s %-14s %s\n",
				metric.Type, formatReading(metric), tui.DimStyle.Render(metric.Timestamp)))
		}
	}

	if len(m.summaries) > 0 {
		b.WriteString("\n")
		b.WriteString(tui.TitleStyle.Render(fmt.Sprintf("Last %d days", summaryWindowDays)))
		b.WriteString("\n")
		for _, s := range m.summaries {
			line := fmt.Sprintf("  %-16s %d readings", s.Type, s.Count)
			if s.Average != nil {
				line += fmt.Sprintf(", avg %.1f %s", *s.Average, s.Unit)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("r: Refresh   Esc: Back"))

	return tui.BoxStyle.Render(b.String())
}

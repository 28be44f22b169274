package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/models"
)

// HistoryModel shows recent requests and, when signed in, the aggregate
// analytics.
type HistoryModel struct {
	ctx       context.Context
	session   *session.Store
	analytics service.ClientAnalyticsService
	limit     int

	rows      []models.ActivityRow
	dashboard *models.Dashboard
	loading   int
	errMsg    string
}

func NewHistoryModel(ctx context.Context, sess *session.Store, analytics service.ClientAnalyticsService, limit int) *HistoryModel {
	return &HistoryModel{
		ctx:       ctx,
		session:   sess,
		analytics: analytics,
		limit:     limit,
	}
}

func (m *HistoryModel) Init() tea.Cmd {
	m.errMsg = ""
	m.rows = nil
	m.dashboard = nil
	return m.cmdLoad()
}

func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading--
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		m.rows = msg.rows
		return m, nil
	case dashboardLoadedMsg:
		m.loading--
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		d := msg.dashboard
		m.dashboard = &d
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			return m, navigate(pageMenu)
		case key.Matches(msg, keys.reload):
			if m.loading > 0 {
				return m, nil
			}
			m.errMsg = ""
			return m, m.cmdLoad()
		}
	}
	return m, nil
}

func (m *HistoryModel) View() string {
	var b strings.Builder

	if m.dashboard != nil {
		s := m.dashboard.Stats
		fmt.Fprintf(&b, "Total requests: %d │ Tokens saved: %d │ Avg savings: %.1f%% │ Avg latency: %.0f ms\n\n",
			s.TotalRequests, s.TotalTokensSaved, s.AverageSavingsPercentage, s.AverageLatencyMs)

		if len(m.dashboard.TimeSeries) > 0 {
			b.WriteString("Date       │ Requests │ Tokens saved\n")
			b.WriteString("───────────┼──────────┼─────────────\n")
			for _, p := range m.dashboard.TimeSeries {
				fmt.Fprintf(&b, "%-10s │ %8d │ %12d\n", fitText(p.Date, 10), p.Requests, p.TokensSaved)
			}
			b.WriteString("\n")
		}
	}

	switch {
	case m.loading > 0:
		b.WriteString("Loading...\n")
	case len(m.rows) == 0:
		b.WriteString("No activity yet. Try the playground!\n")
	default:
		b.WriteString("Time  │    Raw │ Compressed │ Savings\n")
		b.WriteString("──────┼────────┼────────────┼────────\n")
		for _, r := range m.rows {
			fmt.Fprintf(&b, "%-5s │ %6d │ %10d │ %6s%%\n", fitText(r.Time, 5), r.Raw, r.Compressed, r.Savings)
		}
	}

	writeFeedback(&b, "", m.errMsg)

	return renderPage("HISTORY", strings.TrimRight(b.String(), "\n"), "r: reload │ esc: back")
}

func (m *HistoryModel) cmdLoad() tea.Cmd {
	ctx := m.ctx
	analytics := m.analytics
	limit := m.limit

	cmds := []tea.Cmd{func() tea.Msg {
		rows, err := analytics.History(ctx, limit)
		return historyLoadedMsg{rows: rows, err: err}
	}}
	if m.session.IsAuthenticated() {
		cmds = append(cmds, func() tea.Msg {
			dashboard, err := analytics.Dashboard(ctx)
			return dashboardLoadedMsg{dashboard: dashboard, err: err}
		})
	}
	m.loading = len(cmds)
	return tea.Batch(cmds...)
}

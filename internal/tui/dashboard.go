package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/selahfocus/selah/internal/backend"
	"github.com/selahfocus/selah/internal/stats"
	"github.com/selahfocus/selah/internal/verses"
)

type dashboardView struct {
	ctx    *appContext
	width  int
	height int

	sessions []backend.FocusSession
	report   stats.Stats
	loaded   bool
	loadErr  string

	verse verses.Verse
	chart barchart.Model
}

func newDashboardView(ctx *appContext) dashboardView {
	return dashboardView{
		ctx:   ctx,
		verse: verses.Random(),
		chart: barchart.New(40, 8),
	}
}

func (d *dashboardView) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardView) loadData() tea.Cmd {
	ctx := d.ctx
	return func() tea.Msg {
		if !ctx.signedIn() {
			return dashboardDataMsg{}
		}
		reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sessions, err := ctx.client.ListSessions(reqCtx, ctx.user.ID, backend.MaxListLimit)
		return dashboardDataMsg{sessions: sessions, err: err}
	}
}

func (d dashboardView) update(msg tea.Msg) (dashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loaded = true
		d.loadErr = ""
		if msg.err != nil {
			d.loadErr = backend.FriendlyMessage(msg.err)
			return d, nil
		}
		d.sessions = msg.sessions
		d.report = stats.Compute(d.sessions, time.Now())
		d.buildChart()
		return d, nil

	case authChangedMsg:
		// Stale rows from another account must not linger.
		d.sessions = nil
		d.report = stats.Stats{}
		d.loaded = false
		return d, d.loadData()

	case sessionSavedMsg:
		return d, d.loadData()
	}
	return d, nil
}

// buildChart charts the past 7 calendar days of focus minutes.
func (d *dashboardView) buildChart() {
	chartWidth := d.width - 10
	if chartWidth < 20 {
		chartWidth = 20
	}
	d.chart = barchart.New(chartWidth, 8)

	now := time.Now()
	minutesByDay := make(map[string]int)
	for _, s := range d.sessions {
		minutesByDay[s.CompletedAt.Local().Format("2006-01-02")] += s.DurationMinutes
	}

	var bars []barchart.BarData
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		mins := minutesByDay[day.Format("2006-01-02")]
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if mins == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: day.Format("Mon"),
			Values: []barchart.BarValue{
				{Name: "minutes", Value: float64(mins), Style: style},
			},
		})
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardView) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if !d.ctx.signedIn() {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Dashboard"),
			"",
			mutedStyle.Render("Sign in to track your focus history."),
			mutedStyle.Render("Press 3 to open Account."),
		)
		return panelStyle.Width(w).Render(content)
	}

	if d.loadErr != "" {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Dashboard"),
				"",
				errorStyle.Render(d.loadErr),
			),
		)
	}

	if !d.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading…"))
	}

	cards := d.renderCards(w)
	insight := d.renderInsights(w)
	chartPanel := panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Last 7 Days"), "", d.chart.View()),
	)
	recent := d.renderRecent(w)

	return lipgloss.JoinVertical(lipgloss.Left, cards, insight, chartPanel, recent)
}

func trendArrow(t stats.Trend) string {
	switch t {
	case stats.TrendUp:
		return successStyle.Render("▲")
	case stats.TrendDown:
		return errorStyle.Render("▼")
	default:
		return mutedStyle.Render("—")
	}
}

func (d dashboardView) renderCards(w int) string {
	r := d.report
	cardWidth := (w - 6) / 4
	if cardWidth < 14 {
		cardWidth = 14
	}

	card := func(label, value, extra string) string {
		return panelStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				mutedStyle.Render(label),
				titleStyle.Render(value),
				extra,
			),
		)
	}

	streakLabel := "day streak"
	if r.CurrentStreak == 1 {
		streakLabel = "day"
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today", formatMinutes(r.TodayMinutes),
			fmt.Sprintf("%s %d sessions", trendArrow(r.TodayTrend), r.TodaySessions)),
		card("This Week", formatMinutes(r.WeekMinutes),
			fmt.Sprintf("%s %d sessions", trendArrow(r.WeekTrend), r.WeekSessions)),
		card("All Time", formatMinutes(r.TotalMinutes),
			mutedStyle.Render(fmt.Sprintf("%d sessions", r.TotalSessions))),
		card("Streak", fmt.Sprintf("%d", r.CurrentStreak),
			mutedStyle.Render(streakLabel)),
	)
}

func (d dashboardView) renderInsights(w int) string {
	r := d.report
	line := fmt.Sprintf("Average session %s  ·  Longest session %s",
		highlightStyle.Render(formatMinutes(r.AverageSessionLength)),
		highlightStyle.Render(formatMinutes(r.LongestSession)),
	)
	verse := verseStyle.Render("“"+d.verse.Text+"”") + "  " + verseRefStyle.Render("— "+d.verse.Reference)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, line, "", verse))
}

func (d dashboardView) renderRecent(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.sessions) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title,
				mutedStyle.Render("No sessions yet. Complete a focus session to see it here."),
			),
		)
	}

	now := time.Now()
	var rows []string
	rows = append(rows, title)
	for i, s := range d.sessions {
		if i >= 5 {
			break
		}
		rows = append(rows, fmt.Sprintf("  %s %-10s %s  %s",
			successStyle.Render("✓"),
			relativeDay(s.CompletedAt, now),
			s.CompletedAt.Local().Format("15:04"),
			highlightStyle.Render(formatMinutes(s.DurationMinutes)),
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

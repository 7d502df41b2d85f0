package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
	"github.com/sadopc/agentcal/internal/store"
)

// reportsModel charts one month: schedules per day stacked by status, and
// the expected amount per status.
type reportsModel struct {
	store    *store.Store
	width    int
	height   int
	currency string

	month  calendar.Month
	index  *schedule.Index
	totals []store.StatusTotal

	chart barchart.Model
}

func newReportsModel(s *store.Store, month calendar.Month, currency string) reportsModel {
	return reportsModel{
		store:    s,
		month:    month,
		currency: currency,
		index:    schedule.NewIndex(nil),
		chart:    barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	month   calendar.Month
	records []schedule.Record
	totals  []store.StatusTotal
}

func (r reportsModel) refresh() tea.Cmd {
	m := r.month
	return func() tea.Msg {
		recs, err := r.store.SchedulesInMonth(m)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Report error: %v", err), isError: true}
		}
		totals, err := r.store.GetStatusTotals(m.First(), m.Add(1).First())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Report error: %v", err), isError: true}
		}
		return reportsDataMsg{month: m, records: recs, totals: totals}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.month != r.month {
			// Stale reply for a month we already left.
			return r, nil
		}
		r.index = schedule.NewIndex(msg.records)
		r.totals = msg.totals
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevMonth):
			r.month = r.month.Add(-1)
			return r, r.refresh()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextMonth):
			r.month = r.month.Add(1)
			return r, r.refresh()
		}
	}
	return r, nil
}

// buildChart pushes one bar per day of the month, one stacked value per
// status present that day.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for day := 1; day <= r.month.Days(); day++ {
		d := calendar.New(r.month.Year, r.month.Month, day)
		counts := map[schedule.Status]int{}
		for _, rec := range r.index.On(d) {
			counts[rec.Status]++
		}

		var values []barchart.BarValue
		for _, st := range schedule.Statuses {
			if counts[st] == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  st.Title(),
				Value: float64(counts[st]),
				Style: lipgloss.NewStyle().Foreground(statusColor(st)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		// Label every fifth day; the chart is too narrow for all of them.
		label := ""
		if day == 1 || day%5 == 0 {
			label = fmt.Sprintf("%d", day)
		}
		bars = append(bars, barchart.BarData{Label: label, Values: values})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", mutedStyle.Render(r.month.Title()),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			mutedStyle.Render("  Schedules per day"), r.chart.View(), "",
			r.renderLegend(), "",
			r.renderTotals(w), "",
			mutedStyle.Render("  ←/→: month"),
		),
	)
}

func (r reportsModel) renderTotals(w int) string {
	if len(r.totals) == 0 {
		return mutedStyle.Render("  No schedules this month")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s %16s", "Status", "Count", "Expected")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 38))))

	var count int
	var sum schedule.Money
	for _, t := range r.totals {
		dot := lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-10s %8d %16s", dot, t.Status.Title(), t.Count, t.Amount.Format(r.currency)))
		count += t.Count
		sum.Cents += t.Amount.Cents
	}
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-12s %8d %16s", "Total", count, sum.Format(r.currency))))
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	var items []string
	for _, st := range schedule.Statuses {
		dot := lipgloss.NewStyle().Foreground(statusColor(st)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, st.Title()))
	}
	return "  " + strings.Join(items, "  ")
}

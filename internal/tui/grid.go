package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agentcal/internal/calendar"
)

// renderGrid draws a month grid as a Sunday-first table. Padding days are
// dimmed and never show a selection or schedule mark.
func renderGrid(g calendar.Grid, selected, today calendar.Date, marks *[calendar.GridSize]bool) string {
	var headers []string
	for _, h := range calendar.WeekdayHeaders {
		headers = append(headers, weekdayHeaderStyle.Render(h))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headers...)}

	for w, week := range g.Weeks() {
		var cells []string
		for d, c := range week {
			marked := marks != nil && marks[w*7+d]
			cells = append(cells, renderCell(c, selected, today, marked))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func renderCell(c calendar.DayCell, selected, today calendar.Date, marked bool) string {
	if !c.Interactive() {
		return cellPaddingStyle.Render(fmt.Sprintf("%2d ", c.Day))
	}
	text := fmt.Sprintf("%2d", c.Day)
	if marked {
		text += "•"
	} else {
		text += " "
	}
	switch {
	case c.Date == selected:
		return cellSelectedStyle.Render(text)
	case c.Date == today:
		return cellTodayStyle.Render(text)
	case marked:
		return cellMarkedStyle.Render(text)
	}
	return cellStyle.Render(text)
}

// stepDay moves sel by delta days and keeps nav's cursor on the new day's
// month. When the navigator refuses the month the selection stays put.
func stepDay(nav *calendar.Navigator, sel calendar.Date, delta int) calendar.Date {
	next := sel.AddDays(delta)
	if next.MonthOf() == nav.Cursor() {
		return next
	}
	if _, ok := nav.SetCursor(next.MonthOf()); !ok {
		return sel
	}
	return next
}

// clampToMonth keeps the selected day number while moving it into m,
// shortening it for months with fewer days.
func clampToMonth(sel calendar.Date, m calendar.Month) calendar.Date {
	day := sel.Day()
	if n := m.Days(); day > n {
		day = n
	}
	return calendar.New(m.Year, m.Month, day)
}

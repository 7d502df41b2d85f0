package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agentcal/internal/schedule"
	"github.com/sadopc/agentcal/internal/store"
)

// statusFilters is the cycle order of the f key; "" shows everything.
var statusFilters = append([]schedule.Status{""}, schedule.Statuses...)

type schedulesModel struct {
	store    *store.Store
	width    int
	height   int
	currency string

	schedules []schedule.Record
	schools   []schedule.Option
	cursor    int
	filter    int
}

func newSchedulesModel(s *store.Store, currency string) schedulesModel {
	return schedulesModel{store: s, currency: currency}
}

func (m *schedulesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type schedulesDataMsg struct {
	schedules []schedule.Record
	schools   []schedule.Option
}

func (m schedulesModel) status() schedule.Status {
	return statusFilters[m.filter]
}

func (m schedulesModel) refresh() tea.Cmd {
	f := store.ScheduleFilter{Status: m.status()}
	return func() tea.Msg {
		recs, err := m.store.ListSchedules(f)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		schools, err := m.store.AllSchools()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: schools: %v", err), isError: true}
		}
		return schedulesDataMsg{schedules: recs, schools: schools}
	}
}

func (m schedulesModel) update(msg tea.Msg) (schedulesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case schedulesDataMsg:
		m.schedules = msg.schedules
		m.schools = msg.schools
		if m.cursor >= len(m.schedules) {
			m.cursor = max(0, len(m.schedules)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.schedules)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Filter):
			m.filter = (m.filter + 1) % len(statusFilters)
			m.cursor = 0
			return m, m.refresh()
		case key.Matches(msg, keys.Complete):
			return m, m.setStatus(schedule.StatusCompleted)
		case key.Matches(msg, keys.Cancel):
			return m, m.setStatus(schedule.StatusCancelled)
		case key.Matches(msg, keys.Pending):
			return m, m.setStatus(schedule.StatusPending)
		case key.Matches(msg, keys.Reopen):
			return m, m.setStatus(schedule.StatusScheduled)
		}
	}
	return m, nil
}

// setStatus moves the schedule under the cursor to st.
func (m schedulesModel) setStatus(st schedule.Status) tea.Cmd {
	if len(m.schedules) == 0 {
		return nil
	}
	rec := m.schedules[m.cursor]
	if rec.Status == st {
		return nil
	}
	return func() tea.Msg {
		if err := m.store.UpdateScheduleStatus(rec.ID, st); err != nil {
			return statusMsg{text: fmt.Sprintf("Update error: %v", err), isError: true}
		}
		return scheduleUpdatedMsg{}
	}
}

func (m schedulesModel) view() string {
	w := m.width - 4
	label := "All"
	if st := m.status(); st != "" {
		label = st.Title()
	}
	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Schedules"), "  ", mutedStyle.Render("filter: "+label))

	if len(m.schedules) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No schedules. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-24s %-18s %-28s %12s  %-10s", "When", "Type", "Schools", "Amount", "Status"))
	rows = append(rows, header)

	// Keep the cursor row on screen.
	visible := max(1, m.height-10)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(m.schedules), start+visible)

	for i := start; i < end; i++ {
		r := m.schedules[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%-24s %-18s %-28s %12s  ",
			cursor,
			truncate(r.DateTimeLabel, 24),
			truncate(string(r.Type), 18),
			truncate(joinNames(r.SchoolIDs, m.schools), 28),
			r.ExpectedAmount.Format(m.currency),
		)
		rows = append(rows, style.Render(line)+statusStyle(r.Status).Render(r.Status.Title()))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d of %d", m.cursor+1, len(m.schedules))))
	rows = append(rows, mutedStyle.Render("  c: complete  x: cancel  p: pending  s: scheduled  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

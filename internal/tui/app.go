package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/config"
	"github.com/sadopc/agentcal/internal/export"
	"github.com/sadopc/agentcal/internal/log"
	"github.com/sadopc/agentcal/internal/store"
)

// exportChoices are the rows of the export picker.
var exportChoices = []struct {
	label   string
	formats []export.Format
}{
	{"CSV", []export.Format{export.FormatCSV}},
	{"JSON", []export.Format{export.FormatJSON}},
	{"iCalendar (.ics)", []export.Format{export.FormatICS}},
	{"All formats", export.Formats},
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cfg    *config.Config
	logger *log.Logger
	today  calendar.Date
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	calendar  calendarModel
	schedules schedulesModel
	reports   reportsModel
	settings  settingsModel
	addForm   scheduleFormModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, cfg *config.Config, logger *log.Logger) App {
	return newApp(s, cfg, logger, calendar.Today())
}

func newApp(s *store.Store, cfg *config.Config, logger *log.Logger, today calendar.Date) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		cfg:        cfg,
		logger:     logger.WithComponent("tui"),
		today:      today,
		activeView: viewCalendar,
		calendar:   newCalendarModel(s, cfg.Window(today), cfg.Currency),
		schedules:  newSchedulesModel(s, cfg.Currency),
		reports:    newReportsModel(s, today.MonthOf(), cfg.Currency),
		settings:   newSettingsModel(s, cfg),
		addForm:    newScheduleFormModel(s, logger.WithComponent("form"), cfg.Currency),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.calendar.refresh(),
		a.settings.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.calendar.setSize(a.width, contentHeight)
		a.schedules.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.addForm.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.addForm.active {
			var cmd tea.Cmd
			a.addForm, cmd = a.addForm.update(msg)
			return a, cmd
		}
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.New):
			var cmd tea.Cmd
			a.addForm, cmd = a.addForm.open(a.today, a.calendar.selected)
			return a, cmd
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewCalendar
			return a, a.calendar.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewSchedules
			return a, a.schedules.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			a.logger.Warn("ui error", "message", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + strings.Join(msg.paths, ", ")
		a.statusError = false
		a.logger.Info("export finished", "files", len(msg.paths))
		return a, nil

	case scheduleCreatedMsg:
		a.status = "Saved " + msg.record.DateTimeLabel
		a.statusError = false
		a.calendar.focus(msg.record.Date)
		return a, tea.Batch(a.calendar.refresh(), a.schedules.refresh(), a.reports.refresh())

	case scheduleUpdatedMsg:
		return a, tea.Batch(a.calendar.refresh(), a.schedules.refresh(), a.reports.refresh())

	case formCancelMsg:
		a.status = "New schedule discarded"
		a.statusError = false
		return a, nil

	case configReloadedMsg:
		a.applyConfig(msg.cfg)
		return a, nil

	case calendarDataMsg:
		var cmd tea.Cmd
		a.calendar, cmd = a.calendar.update(msg)
		return a, cmd

	case schedulesDataMsg:
		var cmd tea.Cmd
		a.schedules, cmd = a.schedules.update(msg)
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	if a.addForm.active {
		var cmd tea.Cmd
		a.addForm, cmd = a.addForm.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

// applyConfig takes a reloaded config: new navigation bounds and currency.
func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.cfg = cfg
	a.calendar.setWindow(cfg.Window(a.today))
	a.calendar.currency = cfg.Currency
	a.schedules.currency = cfg.Currency
	a.reports.currency = cfg.Currency
	a.addForm.currency = cfg.Currency
	a.settings.setConfig(cfg)
	a.status = "Config reloaded"
	a.statusError = false
	a.logger.Info("config reloaded",
		"min_offset_years", cfg.Calendar.MinOffsetYears,
		"max_offset_years", cfg.Calendar.MaxOffsetYears)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewSchedules:
		a.schedules, cmd = a.schedules.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	if a.addForm.active {
		return true
	}
	if a.activeView == viewSettings {
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewCalendar:
		return a.calendar.refresh()
	case viewSchedules:
		return a.schedules.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCalendar:
		content = a.calendar.view()
	case viewSchedules:
		content = a.schedules.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Overlays
	switch {
	case a.exportPicking:
		content = a.renderExportPicker(contentHeight)
	case a.addForm.active:
		content = a.addForm.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("agentcal")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	today := mutedStyle.Render(" " + a.today.DayLabel())

	left := footerStyle.Render(helpView)
	right := status + today

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Schedules")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, c := range exportChoices {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+c.label))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  files go to your home directory"))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportChoices)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportChoices[a.exportCursor].formats)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(formats []export.Format) tea.Cmd {
	return func() tea.Msg {
		records, err := a.store.All()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		schools, err := a.store.AllSchools()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		cats, err := a.store.AllExpenseCategories()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		cat := export.Catalog{Schools: schools, ExpenseCategories: cats}
		paths, err := export.All(context.Background(), records, cat, home, formats)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{paths: paths}
	}
}

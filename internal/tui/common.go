package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/agentcal/internal/config"
	"github.com/sadopc/agentcal/internal/schedule"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewSchedules
	viewReports
	viewSettings
)

var viewNames = []string{"Calendar", "Schedules", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	paths []string
}

// scheduleCreatedMsg is sent once the add-schedule form commits a record.
type scheduleCreatedMsg struct {
	record schedule.Record
}

type scheduleUpdatedMsg struct{}

type formCancelMsg struct{}

type configReloadedMsg struct {
	cfg *config.Config
}

// ConfigReloaded wraps a reloaded config for Program.Send.
func ConfigReloaded(cfg *config.Config) tea.Msg {
	return configReloadedMsg{cfg: cfg}
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// truncate cuts s to n display cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func joinNames(ids []int64, opts []schedule.Option) string {
	return strings.Join(schedule.Names(ids, opts), ", ")
}

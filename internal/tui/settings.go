package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agentcal/internal/config"
	"github.com/sadopc/agentcal/internal/schedule"
	"github.com/sadopc/agentcal/internal/store"
)

type settingsModel struct {
	store  *store.Store
	cfg    *config.Config
	width  int
	height int

	defaults   store.FormDefaults
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultType *string
	defaultSlot *string
}

func newSettingsModel(s *store.Store, cfg *config.Config) settingsModel {
	typ, slot := "", ""
	return settingsModel{
		store:       s,
		cfg:         cfg,
		defaultType: &typ,
		defaultSlot: &slot,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	defaults store.FormDefaults
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		d, err := s.store.GetFormDefaults()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{defaults: d}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.defaults = msg.defaults
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.defaultType = string(s.defaults.Type)
	*s.defaultSlot = s.defaults.TimeSlot

	typeOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, t := range schedule.Types {
		typeOptions = append(typeOptions, huh.NewOption(string(t), string(t)))
	}
	slotOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	slotOptions = append(slotOptions, huh.NewOptions(schedule.TimeSlots...)...)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default schedule type").
				Options(typeOptions...).Value(s.defaultType),
			huh.NewSelect[string]().Title("Default time slot").
				Options(slotOptions...).Height(8).Value(s.defaultSlot),
		).Title("New schedule form"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		d := store.FormDefaults{Type: schedule.Type(*s.defaultType), TimeSlot: *s.defaultSlot}
		if err := s.store.SetFormDefaults(d); err != nil {
			return s, statusCmd(fmt.Sprintf("Save error: %v", err), true)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved", false))
	}

	return s, cmd
}

// setConfig swaps in a reloaded config for display.
func (s *settingsModel) setConfig(cfg *config.Config) {
	s.cfg = cfg
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render("New schedule form"))
	rows = append(rows, settingRow("Default type", orNone(string(s.defaults.Type))))
	rows = append(rows, settingRow("Default time slot", orNone(s.defaults.TimeSlot)))
	rows = append(rows, "")

	if s.cfg != nil {
		rows = append(rows, subtitleStyle.Render("Config file"))
		rows = append(rows, settingRow("Database", s.cfg.DBPath))
		rows = append(rows, settingRow("Log file", orNone(s.cfg.LogFile)))
		rows = append(rows, settingRow("Log level", s.cfg.LogLevel))
		rows = append(rows, settingRow("Currency", s.cfg.Currency))
		rows = append(rows, settingRow("Calendar window",
			fmt.Sprintf("-%d / +%d years", s.cfg.Calendar.MinOffsetYears, s.cfg.Calendar.MaxOffsetYears)))
		rows = append(rows, "")
	}

	rows = append(rows, mutedStyle.Render("Press enter to edit the form defaults. Edit the config file to change the rest."))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render(label), highlightStyle.Render(value))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

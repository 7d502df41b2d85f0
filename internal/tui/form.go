package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/log"
	"github.com/sadopc/agentcal/internal/schedule"
	"github.com/sadopc/agentcal/internal/store"
)

type formStep int

const (
	stepPickDate formStep = iota
	stepFields
	stepConfirm
)

// scheduleFormModel is the add-schedule overlay. It picks a day on its own
// unbounded calendar, collects the fields with huh and drives a
// schedule.Workflow through validation and confirmation.
type scheduleFormModel struct {
	store    *store.Store
	logger   *log.Logger
	width    int
	height   int
	currency string

	active bool
	step   formStep
	wf     *schedule.Workflow

	picker   *calendar.Navigator
	today    calendar.Date
	selected calendar.Date

	form *huh.Form

	// Form field pointers (survive value copies)
	fType       *string
	fSchools    *[]int64
	fDate       *string
	fTime       *string
	fCategories *[]int64
	fAmount     *string
	fRemarks    *string
	fConfirm    *bool
}

func newScheduleFormModel(s *store.Store, logger *log.Logger, currency string) scheduleFormModel {
	typ, date, slot, amount, remarks := "", "", "", "", ""
	var schools, cats []int64
	confirm := true

	wf := schedule.NewWorkflow(s, nil, nil)
	wf.OnCreated(func(r schedule.Record) {
		logger.Info("schedule created", "id", r.ID, "type", string(r.Type), "when", r.DateTimeLabel)
	})

	return scheduleFormModel{
		store:       s,
		logger:      logger,
		currency:    currency,
		wf:          wf,
		fType:       &typ,
		fSchools:    &schools,
		fDate:       &date,
		fTime:       &slot,
		fCategories: &cats,
		fAmount:     &amount,
		fRemarks:    &remarks,
		fConfirm:    &confirm,
	}
}

func (f *scheduleFormModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

// open resets the workflow and shows the date picker on day.
func (f scheduleFormModel) open(today, day calendar.Date) (scheduleFormModel, tea.Cmd) {
	schools, err := f.store.ListSchools()
	if err != nil {
		return f, statusCmd(fmt.Sprintf("Load schools: %v", err), true)
	}
	cats, err := f.store.ListExpenseCategories()
	if err != nil {
		return f, statusCmd(fmt.Sprintf("Load categories: %v", err), true)
	}
	f.wf.SetCatalog(schools, cats)
	f.wf.Reset()

	defaults, err := f.store.GetFormDefaults()
	if err != nil {
		f.logger.Warn("form defaults unavailable", "error", err)
	}
	*f.fType = string(defaults.Type)
	*f.fTime = defaults.TimeSlot
	*f.fSchools = nil
	*f.fCategories = nil
	*f.fDate = ""
	*f.fAmount = ""
	*f.fRemarks = ""

	f.today = today
	f.selected = day
	f.picker = calendar.NewNavigator(today)
	f.picker.SetCursor(day.MonthOf())
	f.step = stepPickDate
	f.form = nil
	f.active = true
	return f, nil
}

func (f scheduleFormModel) close() scheduleFormModel {
	f.active = false
	f.form = nil
	return f
}

func (f scheduleFormModel) update(msg tea.Msg) (scheduleFormModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		if err := f.wf.CancelForm(); err != nil {
			f.logger.Error("cancel schedule form", "error", err)
		}
		return f.close(), func() tea.Msg { return formCancelMsg{} }
	}

	switch f.step {
	case stepPickDate:
		if km, ok := msg.(tea.KeyMsg); ok {
			return f.updatePicker(km)
		}
		return f, nil
	case stepFields:
		return f.updateFields(msg)
	case stepConfirm:
		return f.updateConfirm(msg)
	}
	return f, nil
}

func (f scheduleFormModel) updatePicker(msg tea.KeyMsg) (scheduleFormModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		f.selected = stepDay(f.picker, f.selected, -1)
	case key.Matches(msg, keys.Right):
		f.selected = stepDay(f.picker, f.selected, 1)
	case key.Matches(msg, keys.Up):
		f.selected = stepDay(f.picker, f.selected, -7)
	case key.Matches(msg, keys.Down):
		f.selected = stepDay(f.picker, f.selected, 7)
	case key.Matches(msg, keys.PrevMonth):
		f.picker.Previous()
		f.selected = clampToMonth(f.selected, f.picker.Cursor())
	case key.Matches(msg, keys.NextMonth):
		f.picker.Next()
		f.selected = clampToMonth(f.selected, f.picker.Cursor())
	case key.Matches(msg, keys.Today):
		f.picker.GoToToday()
		f.selected = f.today
	case key.Matches(msg, keys.Enter):
		f.wf.SetDate(f.selected)
		*f.fDate = f.wf.Draft().DateLabel
		return f.showFields()
	}
	return f, nil
}

// showFields (re)builds the field form. Errors from the last submit are
// shown as field descriptions.
func (f scheduleFormModel) showFields() (scheduleFormModel, tea.Cmd) {
	errs := f.wf.Errors()
	describe := func(field schedule.Field) string {
		if e, ok := errs[field]; ok {
			return errorStyle.Render(e)
		}
		return ""
	}

	typeOptions := make([]huh.Option[string], len(schedule.Types))
	for i, t := range schedule.Types {
		typeOptions[i] = huh.NewOption(string(t), string(t))
	}
	slotOptions := huh.NewOptions(schedule.TimeSlots...)

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Schedule Type").Description(describe(schedule.FieldType)).
				Options(typeOptions...).Value(f.fType),
			huh.NewMultiSelect[int64]().Title("Schools").Description(describe(schedule.FieldSchools)).
				Options(optionList(f.wf.Schools())...).Value(f.fSchools),
			huh.NewInput().Title("Date (DD/MM/YYYY)").Description(describe(schedule.FieldDate)).
				Value(f.fDate),
			huh.NewSelect[string]().Title("Time").Description(describe(schedule.FieldTime)).
				Options(slotOptions...).Height(8).Value(f.fTime),
		).Title("Schedule"),
		huh.NewGroup(
			huh.NewMultiSelect[int64]().Title("Expense Categories").Description(describe(schedule.FieldExpenseCategories)).
				Options(optionList(f.wf.ExpenseCategories())...).Value(f.fCategories),
			huh.NewInput().Title("Expected Amount ("+f.currency+")").Description(amountDescription(errs)).
				Placeholder("1500.50").Value(f.fAmount),
			huh.NewText().Title("Remarks").Lines(3).Value(f.fRemarks),
		).Title("Details"),
	).WithShowHelp(true).WithShowErrors(true)

	f.step = stepFields
	return f, f.form.Init()
}

func (f scheduleFormModel) updateFields(msg tea.Msg) (scheduleFormModel, tea.Cmd) {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	if f.form.State != huh.StateCompleted {
		return f, cmd
	}
	return f.submitFields()
}

// submitFields hands the widget values to the workflow and moves on to
// confirmation, or back to the fields with errors.
func (f scheduleFormModel) submitFields() (scheduleFormModel, tea.Cmd) {
	f.applyFields()
	if err := f.wf.Submit(); err != nil {
		f.logger.Error("submit schedule form", "error", err)
		return f, statusCmd(err.Error(), true)
	}
	if f.wf.State() != schedule.Confirming {
		f.logger.Debug("schedule form rejected", "errors", len(f.wf.Errors()))
		return f.showFields()
	}
	return f.showConfirm()
}

// applyFields copies the widget values into the workflow draft.
func (f scheduleFormModel) applyFields() {
	f.wf.SetType(schedule.Type(*f.fType))
	f.wf.SetSchools(*f.fSchools)
	f.wf.SetDateLabel(*f.fDate)
	f.wf.SetTimeLabel(*f.fTime)
	f.wf.SetExpenseCategories(*f.fCategories)
	f.wf.SetExpectedAmount(*f.fAmount)
	f.wf.SetRemarks(*f.fRemarks)
}

func (f scheduleFormModel) showConfirm() (scheduleFormModel, tea.Cmd) {
	sum, err := f.wf.Summary()
	if err != nil {
		return f, statusCmd(err.Error(), true)
	}
	*f.fConfirm = true
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Save this schedule?").
				Description(renderSummary(sum, f.currency)).
				Affirmative("Save").Negative("Back").
				Value(f.fConfirm),
		),
	).WithShowHelp(true)
	f.step = stepConfirm
	return f, f.form.Init()
}

func (f scheduleFormModel) updateConfirm(msg tea.Msg) (scheduleFormModel, tea.Cmd) {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	if f.form.State != huh.StateCompleted {
		return f, cmd
	}
	return f.finishConfirm()
}

// finishConfirm commits on "Save" and returns to the fields on "Back".
func (f scheduleFormModel) finishConfirm() (scheduleFormModel, tea.Cmd) {
	if !*f.fConfirm {
		if err := f.wf.CancelConfirmation(); err != nil {
			f.logger.Error("cancel schedule confirmation", "error", err)
		}
		return f.showFields()
	}
	rec, err := f.wf.Confirm()
	if err != nil {
		f.logger.Error("commit schedule", "error", err)
		// The workflow is still confirming; offer the prompt again.
		next, cmd := f.showConfirm()
		return next, tea.Batch(cmd, statusCmd(fmt.Sprintf("Save failed: %v", err), true))
	}
	f = f.close()
	return f, func() tea.Msg { return scheduleCreatedMsg{record: rec} }
}

func (f scheduleFormModel) view() string {
	w := f.width - 4
	var body string
	switch f.step {
	case stepPickDate:
		title := titleStyle.Render("New Schedule: pick a date")
		month := highlightStyle.Render(f.picker.Cursor().Title())
		grid := renderGrid(f.picker.Grid(), f.selected, f.today, nil)
		body = lipgloss.JoinVertical(lipgloss.Left, title, "", month, "", grid, "",
			mutedStyle.Render(fmt.Sprintf("Selected: %s", f.selected.PickerLabel())),
			mutedStyle.Render("←→↑↓: day  [ ]: month  t: today  enter: choose  esc: cancel"))
	case stepFields:
		title := titleStyle.Render("New Schedule")
		parts := []string{title}
		if n := len(f.wf.Errors()); n > 0 {
			parts = append(parts, errorStyle.Render(fmt.Sprintf("%d field(s) need attention", n)))
		}
		parts = append(parts, "", f.form.View())
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	case stepConfirm:
		body = lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Confirm Schedule"), "", f.form.View())
	}
	return activePanelStyle.Width(w).Render(body)
}

// amountHint is shown under the amount field until it has an error. Input
// takes a dot or comma as the decimal mark, so "1,500" means 1.50.
const amountHint = "Dot or comma before the cents; no thousands separator"

func amountDescription(errs map[schedule.Field]string) string {
	if e, ok := errs[schedule.FieldExpectedAmount]; ok {
		return errorStyle.Render(e)
	}
	return mutedStyle.Render(amountHint)
}

func renderSummary(s schedule.Summary, currency string) string {
	rows := []string{
		"Type:     " + string(s.Type),
		"Schools:  " + strings.Join(s.Schools, ", "),
		"When:     " + s.DateTimeLabel,
		"Expenses: " + strings.Join(s.ExpenseCategories, ", "),
		"Amount:   " + s.ExpectedAmount.Format(currency),
	}
	if s.Remarks != "" {
		rows = append(rows, "Remarks:  "+s.Remarks)
	}
	return strings.Join(rows, "\n")
}

func optionList(opts []schedule.Option) []huh.Option[int64] {
	out := make([]huh.Option[int64], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(o.DisplayName, o.ID)
	}
	return out
}

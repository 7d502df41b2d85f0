package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
	"github.com/sadopc/agentcal/internal/store"
)

// calendarModel is the main month view: a bounded navigator, the selected
// day, and a details panel for that day.
type calendarModel struct {
	store  *store.Store
	width  int
	height int

	nav      *calendar.Navigator
	today    calendar.Date
	selected calendar.Date
	currency string

	index      *schedule.Index
	schools    []schedule.Option
	categories []schedule.Option
}

func newCalendarModel(s *store.Store, w calendar.Window, currency string) calendarModel {
	nav := calendar.NewBoundedNavigator(w.Reference, w.MinOffsetYears, w.MaxOffsetYears)
	return calendarModel{
		store:    s,
		nav:      nav,
		today:    w.Reference,
		selected: w.Reference,
		currency: currency,
		index:    schedule.NewIndex(nil),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	records    []schedule.Record
	schools    []schedule.Option
	categories []schedule.Option
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := c.store.All()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		schools, cats, err := loadCatalogNames(c.store)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return calendarDataMsg{records: records, schools: schools, categories: cats}
	}
}

// catalogSource lists every school and expense category, archived ones
// included, so old schedules still resolve their names.
type catalogSource interface {
	AllSchools() ([]schedule.Option, error)
	AllExpenseCategories() ([]schedule.Option, error)
}

func loadCatalogNames(src catalogSource) (schools, cats []schedule.Option, err error) {
	if schools, err = src.AllSchools(); err != nil {
		return nil, nil, fmt.Errorf("schools: %w", err)
	}
	if cats, err = src.AllExpenseCategories(); err != nil {
		return nil, nil, fmt.Errorf("expense categories: %w", err)
	}
	return schools, cats, nil
}

// setWindow applies new navigation bounds, keeping the selection on the
// viewed month.
func (c *calendarModel) setWindow(w calendar.Window) {
	c.nav.SetWindow(w)
	if c.selected.MonthOf() != c.nav.Cursor() {
		c.selected = clampToMonth(c.selected, c.nav.Cursor())
	}
}

// focus selects d when the window allows its month.
func (c *calendarModel) focus(d calendar.Date) {
	if _, ok := c.nav.SetCursor(d.MonthOf()); ok {
		c.selected = d
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.index = schedule.NewIndex(msg.records)
		c.schools = msg.schools
		c.categories = msg.categories
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			c.selected = stepDay(c.nav, c.selected, -1)
		case key.Matches(msg, keys.Right):
			c.selected = stepDay(c.nav, c.selected, 1)
		case key.Matches(msg, keys.Up):
			c.selected = stepDay(c.nav, c.selected, -7)
		case key.Matches(msg, keys.Down):
			c.selected = stepDay(c.nav, c.selected, 7)
		case key.Matches(msg, keys.PrevMonth):
			if _, ok := c.nav.Previous(); !ok {
				return c, statusCmd("Earliest month reached", false)
			}
			c.selected = clampToMonth(c.selected, c.nav.Cursor())
		case key.Matches(msg, keys.NextMonth):
			if _, ok := c.nav.Next(); !ok {
				return c, statusCmd("Latest month reached", false)
			}
			c.selected = clampToMonth(c.selected, c.nav.Cursor())
		case key.Matches(msg, keys.Today):
			c.nav.GoToToday()
			c.selected = c.today
		}
	}
	return c, nil
}

func (c calendarModel) view() string {
	w := c.width - 4
	marks := c.index.Annotate(c.nav.Grid())

	title := titleStyle.Render(c.nav.Cursor().Title())
	win := c.nav.Window()
	bounds := mutedStyle.Render(fmt.Sprintf("%s – %s", win.Earliest().Title(), win.Latest().Title()))
	grid := renderGrid(c.nav.Grid(), c.selected, c.today, &marks)
	left := lipgloss.JoinVertical(lipgloss.Left, title, bounds, "", grid, "",
		mutedStyle.Render("←→↑↓: day  [ ]: month  t: today  n: new"))

	detailsWidth := w - lipgloss.Width(left) - 10
	if detailsWidth < 24 {
		// Too narrow for side by side.
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, left, "", c.renderDetails(w-6)))
	}
	right := c.renderDetails(detailsWidth)
	return panelStyle.Width(w).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

// renderDetails lists the schedules on the selected day.
func (c calendarModel) renderDetails(width int) string {
	day := c.index.On(c.selected)
	rows := []string{titleStyle.Render(c.selected.Time().Format("Monday, Jan 2, 2006")), ""}
	if len(day) == 0 {
		rows = append(rows, mutedStyle.Render("No schedules. Press n to add one."))
		return strings.Join(rows, "\n")
	}
	for _, r := range day {
		head := fmt.Sprintf("%-8s %s", r.TimeLabel, r.Type)
		rows = append(rows, highlightStyle.Render(head)+"  "+statusStyle(r.Status).Render(r.Status.Title()))
		if names := joinNames(r.SchoolIDs, c.schools); names != "" {
			rows = append(rows, indent(wordwrap.String(names, width-2)))
		}
		line := r.ExpectedAmount.Format(c.currency)
		if cats := joinNames(r.ExpenseCategoryIDs, c.categories); cats != "" {
			line += " · " + cats
		}
		rows = append(rows, mutedStyle.Render(indent(wordwrap.String(line, width-2))))
		if r.Remarks != "" {
			rows = append(rows, subtitleStyle.Render(indent(wordwrap.String(r.Remarks, width-2))))
		}
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

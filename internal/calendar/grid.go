// Package calendar builds month grids and navigates between months.
package calendar

import "time"

// GridSize is six full weeks.
const GridSize = 42

// Membership tells which month a grid cell belongs to, relative to the
// month the grid was built for.
type Membership int

const (
	Previous Membership = iota
	Current
	Next
)

var membershipNames = map[Membership]string{
	Previous: "PREVIOUS",
	Current:  "CURRENT",
	Next:     "NEXT",
}

func (m Membership) String() string {
	if s, ok := membershipNames[m]; ok {
		return s
	}
	return "UNKNOWN"
}

// WeekdayHeaders labels the grid columns, Sunday first.
var WeekdayHeaders = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type DayCell struct {
	Day        int
	Membership Membership
	Date       Date
}

// Interactive reports whether the cell can be selected. Only days of the
// viewed month are; padding days render dimmed.
func (c DayCell) Interactive() bool {
	return c.Membership == Current
}

// Grid is a row-major, Sunday-first month view.
type Grid [GridSize]DayCell

// Build returns the grid for (year, month). Every day of the month appears
// exactly once, padded with trailing days of the previous month and leading
// days of the next one. month may be out of range; it wraps like time.Date.
func Build(year int, month time.Month) Grid {
	m := Month{Year: year, Month: 1}.Add(int(month) - 1)
	prev := m.Add(-1)
	next := m.Add(1)

	firstWeekday := int(m.First().Weekday())
	daysInMonth := m.Days()
	daysInPrev := prev.Days()

	var g Grid
	i := 0
	for d := daysInPrev - firstWeekday + 1; d <= daysInPrev; d++ {
		g[i] = DayCell{Day: d, Membership: Previous, Date: New(prev.Year, prev.Month, d)}
		i++
	}
	for d := 1; d <= daysInMonth; d++ {
		g[i] = DayCell{Day: d, Membership: Current, Date: New(m.Year, m.Month, d)}
		i++
	}
	for d := 1; i < GridSize; d++ {
		g[i] = DayCell{Day: d, Membership: Next, Date: New(next.Year, next.Month, d)}
		i++
	}
	return g
}

// BuildMonth is Build for a Month value.
func BuildMonth(m Month) Grid {
	return Build(m.Year, m.Month)
}

// Weeks splits the grid into six rows of seven days.
func (g Grid) Weeks() [6][7]DayCell {
	var w [6][7]DayCell
	for i, c := range g {
		w[i/7][i%7] = c
	}
	return w
}

// Current returns the cells of the viewed month in day order.
func (g Grid) Current() []DayCell {
	var out []DayCell
	for _, c := range g {
		if c.Membership == Current {
			out = append(out, c)
		}
	}
	return out
}

// IndexOf returns the position of d in the grid, or -1.
func (g Grid) IndexOf(d Date) int {
	for i, c := range g {
		if c.Date == d {
			return i
		}
	}
	return -1
}

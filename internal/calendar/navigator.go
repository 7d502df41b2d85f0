package calendar

// Window bounds month navigation to a range of calendar years around a
// reference date. An unbounded window lets the cursor move anywhere.
type Window struct {
	Reference      Date
	MinOffsetYears int
	MaxOffsetYears int
	Bounded        bool
}

// Earliest returns the first month the cursor may show.
func (w Window) Earliest() Month {
	return w.Reference.MonthOf().AddYears(-w.MinOffsetYears)
}

// Latest returns the last month the cursor may show.
func (w Window) Latest() Month {
	return w.Reference.MonthOf().AddYears(w.MaxOffsetYears)
}

// Contains reports whether m may be viewed.
func (w Window) Contains(m Month) bool {
	if !w.Bounded {
		return true
	}
	return !m.Before(w.Earliest()) && !m.After(w.Latest())
}

// Navigator keeps a viewed-month cursor, distinct from the reference day,
// and the grid for that month. Each calendar surface owns its own Navigator.
type Navigator struct {
	window Window
	cursor Month
	grid   Grid
}

// NewNavigator returns an unbounded navigator starting at ref's month.
func NewNavigator(ref Date) *Navigator {
	return newNavigator(Window{Reference: ref})
}

// NewBoundedNavigator clamps navigation to [ref-minYears, ref+maxYears].
func NewBoundedNavigator(ref Date, minYears, maxYears int) *Navigator {
	return newNavigator(Window{
		Reference:      ref,
		MinOffsetYears: minYears,
		MaxOffsetYears: maxYears,
		Bounded:        true,
	})
}

func newNavigator(w Window) *Navigator {
	n := &Navigator{window: w}
	n.GoToToday()
	return n
}

func (n *Navigator) Window() Window { return n.window }
func (n *Navigator) Reference() Date { return n.window.Reference }
func (n *Navigator) Cursor() Month { return n.cursor }
func (n *Navigator) Grid() Grid { return n.grid }

// Previous moves back one month. Moving past the window is ignored and
// reported as false; the grid is left as is.
func (n *Navigator) Previous() (Grid, bool) {
	return n.move(n.cursor.Add(-1))
}

// Next moves forward one month, with the same rule as Previous.
func (n *Navigator) Next() (Grid, bool) {
	return n.move(n.cursor.Add(1))
}

// GoToToday resets the cursor to the reference month.
func (n *Navigator) GoToToday() Grid {
	n.cursor = n.window.Reference.MonthOf()
	n.grid = BuildMonth(n.cursor)
	return n.grid
}

// SetCursor jumps to m if the window allows it.
func (n *Navigator) SetCursor(m Month) (Grid, bool) {
	return n.move(m)
}

// SetWindow replaces the bounds. A cursor left outside the new window is
// pulled back to the reference month.
func (n *Navigator) SetWindow(w Window) {
	n.window = w
	if !w.Contains(n.cursor) {
		n.GoToToday()
	}
}

func (n *Navigator) move(m Month) (Grid, bool) {
	if !n.window.Contains(m) {
		return n.grid, false
	}
	n.cursor = m
	n.grid = BuildMonth(m)
	return n.grid, true
}

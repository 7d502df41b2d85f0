package calendar

import (
	"testing"
	"time"
)

// ============================================================
// Dates and months
// ============================================================

func TestNewNormalizes(t *testing.T) {
	d := New(2026, time.February, 30)
	if d != New(2026, time.March, 2) {
		t.Fatalf("Feb 30 2026 normalized to %s, want 2026-03-02", d)
	}
}

func TestDateLabels(t *testing.T) {
	d := New(2026, time.February, 10)
	if got := d.PickerLabel(); got != "10/02/2026" {
		t.Fatalf("PickerLabel = %q", got)
	}
	if got := d.DayLabel(); got != "Feb 10, 2026" {
		t.Fatalf("DayLabel = %q", got)
	}
	if got := d.String(); got != "2026-02-10" {
		t.Fatalf("String = %q", got)
	}
	if (Date{}).PickerLabel() != "" || (Date{}).DayLabel() != "" {
		t.Fatal("zero date should have empty labels")
	}
}

func TestParseLabels(t *testing.T) {
	d, err := ParsePickerLabel("10/02/2026")
	if err != nil {
		t.Fatal(err)
	}
	if d != New(2026, time.February, 10) {
		t.Fatalf("ParsePickerLabel = %s", d)
	}

	d, err = ParseDayLabel("Jan 1, 2026")
	if err != nil {
		t.Fatal(err)
	}
	if d != New(2026, time.January, 1) {
		t.Fatalf("ParseDayLabel = %s", d)
	}

	d, err = ParseISO("2026-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if d != New(2026, time.December, 31) {
		t.Fatalf("ParseISO = %s", d)
	}

	for _, bad := range []string{"", "2026-02-10", "31/31/2026", "Feb 10"} {
		if _, err := ParsePickerLabel(bad); err == nil {
			t.Errorf("ParsePickerLabel(%q) should fail", bad)
		}
	}
}

func TestDateBefore(t *testing.T) {
	a := New(2025, time.December, 31)
	b := New(2026, time.January, 1)
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatal("Before ordering wrong")
	}
}

func TestMonthAdd(t *testing.T) {
	tests := []struct {
		m    Month
		n    int
		want Month
	}{
		{Month{2026, time.January}, -1, Month{2025, time.December}},
		{Month{2026, time.December}, 1, Month{2027, time.January}},
		{Month{2026, time.March}, -14, Month{2025, time.January}},
		{Month{2026, time.March}, 25, Month{2028, time.April}},
		{Month{2026, time.June}, 0, Month{2026, time.June}},
	}
	for _, tt := range tests {
		if got := tt.m.Add(tt.n); got != tt.want {
			t.Errorf("%s.Add(%d) = %s, want %s", tt.m, tt.n, got, tt.want)
		}
	}
}

func TestMonthDays(t *testing.T) {
	tests := []struct {
		m    Month
		want int
	}{
		{Month{2026, time.January}, 31},
		{Month{2026, time.February}, 28},
		{Month{2024, time.February}, 29},
		{Month{1900, time.February}, 28},
		{Month{2000, time.February}, 29},
		{Month{2026, time.April}, 30},
	}
	for _, tt := range tests {
		if got := tt.m.Days(); got != tt.want {
			t.Errorf("%s.Days() = %d, want %d", tt.m, got, tt.want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-02")
	if err != nil {
		t.Fatal(err)
	}
	if m != (Month{2026, time.February}) {
		t.Fatalf("ParseMonth = %s", m)
	}
	if m.Title() != "February 2026" {
		t.Fatalf("Title = %q", m.Title())
	}
	if _, err := ParseMonth("Feb 2026"); err == nil {
		t.Fatal("expected error")
	}
}

// ============================================================
// Grid
// ============================================================

func TestBuildAlwaysFortyTwoCells(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			g := Build(year, month)
			for i, c := range g {
				if c.Day < 1 || c.Day > 31 {
					t.Fatalf("%d-%02d cell %d has day %d", year, month, i, c.Day)
				}
			}
		}
	}
}

func TestBuildCurrentCellsMatchMonth(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			g := Build(year, month)
			cur := g.Current()
			want := Month{year, month}.Days()
			if len(cur) != want {
				t.Fatalf("%d-%02d: %d current cells, want %d", year, month, len(cur), want)
			}
			for i, c := range cur {
				if c.Day != i+1 {
					t.Fatalf("%d-%02d: current cell %d numbered %d", year, month, i, c.Day)
				}
				if c.Date != New(year, month, i+1) {
					t.Fatalf("%d-%02d: current cell %d dated %s", year, month, i, c.Date)
				}
			}
		}
	}
}

func TestBuildFirstCurrentWeekday(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			g := Build(year, month)
			first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
			idx := g.IndexOf(New(year, month, 1))
			if idx != int(first) {
				t.Fatalf("%d-%02d: first day at index %d, want %d", year, month, idx, first)
			}
			if g[idx].Date.Weekday() != first {
				t.Fatalf("%d-%02d: weekday mismatch", year, month)
			}
		}
	}
}

func TestBuildJanuary2026(t *testing.T) {
	g := Build(2026, time.January)

	// Jan 1 2026 is a Thursday: four December days lead the grid.
	wantPrev := []int{28, 29, 30, 31}
	for i, d := range wantPrev {
		c := g[i]
		if c.Membership != Previous || c.Day != d || c.Date != New(2025, time.December, d) {
			t.Fatalf("cell %d = %+v, want Dec %d 2025 PREVIOUS", i, c, d)
		}
		if c.Interactive() {
			t.Fatalf("cell %d should not be interactive", i)
		}
	}

	first := g[4]
	if first.Membership != Current || first.Day != 1 || first.Date.Weekday() != time.Thursday {
		t.Fatalf("first current cell = %+v", first)
	}
	if !first.Interactive() {
		t.Fatal("current cell should be interactive")
	}

	// 4 + 31 = 35, so seven February days close the grid.
	for i := 35; i < GridSize; i++ {
		c := g[i]
		if c.Membership != Next || c.Day != i-34 || c.Date != New(2026, time.February, i-34) {
			t.Fatalf("cell %d = %+v, want Feb %d 2026 NEXT", i, c, i-34)
		}
	}
}

func TestBuildMonthStartingSunday(t *testing.T) {
	// Feb 2026 starts on a Sunday: no leading days.
	g := Build(2026, time.February)
	if g[0].Membership != Current || g[0].Day != 1 {
		t.Fatalf("first cell = %+v", g[0])
	}
	if g[28].Membership != Next || g[28].Day != 1 {
		t.Fatalf("cell 28 = %+v", g[28])
	}
	if g[41].Day != 14 {
		t.Fatalf("last cell day = %d, want 14", g[41].Day)
	}
}

func TestBuildYearWrap(t *testing.T) {
	g := Build(2026, time.December)
	last := g[GridSize-1]
	if last.Membership != Next || last.Date.Year() != 2027 || last.Date.Month() != time.January {
		t.Fatalf("last cell = %+v", last)
	}

	// Out-of-range month wraps like time.Date.
	if Build(2026, 13) != Build(2027, time.January) {
		t.Fatal("month 13 should wrap to next January")
	}
	if Build(2026, 0) != Build(2025, time.December) {
		t.Fatal("month 0 should wrap to previous December")
	}
}

func TestBuildIdempotent(t *testing.T) {
	if Build(2026, time.March) != Build(2026, time.March) {
		t.Fatal("Build should be deterministic")
	}
}

func TestGridWeeks(t *testing.T) {
	g := Build(2026, time.January)
	w := g.Weeks()
	if w[0][4].Date != New(2026, time.January, 1) {
		t.Fatalf("week 0 Thursday = %s", w[0][4].Date)
	}
	if w[5][6] != g[41] {
		t.Fatal("last week cell mismatch")
	}
}

func TestMembershipString(t *testing.T) {
	if Previous.String() != "PREVIOUS" || Current.String() != "CURRENT" || Next.String() != "NEXT" {
		t.Fatal("membership names wrong")
	}
	if Membership(9).String() != "UNKNOWN" {
		t.Fatal("unknown membership should say UNKNOWN")
	}
}

// ============================================================
// Navigator
// ============================================================

func TestNavigatorPreviousStopsAtWindow(t *testing.T) {
	n := NewBoundedNavigator(New(2026, time.January, 15), 5, 5)

	for i := 1; i <= 60; i++ {
		if _, ok := n.Previous(); !ok {
			t.Fatalf("call %d rejected at %s", i, n.Cursor())
		}
	}
	if n.Cursor() != (Month{2021, time.January}) {
		t.Fatalf("cursor after 60 calls = %s", n.Cursor())
	}

	before := n.Grid()
	g, ok := n.Previous()
	if ok {
		t.Fatal("61st Previous should be rejected")
	}
	if n.Cursor() != (Month{2021, time.January}) {
		t.Fatalf("cursor moved to %s", n.Cursor())
	}
	if g != before || n.Grid() != before {
		t.Fatal("grid should be unchanged by a rejected move")
	}
}

func TestNavigatorNextStopsAtWindow(t *testing.T) {
	n := NewBoundedNavigator(New(2026, time.January, 15), 5, 5)
	moves := 0
	for {
		if _, ok := n.Next(); !ok {
			break
		}
		moves++
		if moves > 100 {
			t.Fatal("navigator never stopped")
		}
	}
	if moves != 60 {
		t.Fatalf("moves = %d, want 60", moves)
	}
	if n.Cursor() != (Month{2031, time.January}) {
		t.Fatalf("cursor = %s", n.Cursor())
	}
}

func TestNavigatorWindowUsesCalendarYears(t *testing.T) {
	// Reference in October: the window runs Oct 2021 .. Oct 2031.
	n := NewBoundedNavigator(New(2026, time.October, 19), 5, 5)
	w := n.Window()
	if w.Earliest() != (Month{2021, time.October}) || w.Latest() != (Month{2031, time.October}) {
		t.Fatalf("window = %s..%s", w.Earliest(), w.Latest())
	}
	if _, ok := n.SetCursor(Month{2021, time.September}); ok {
		t.Fatal("Sep 2021 should be outside the window")
	}
	if _, ok := n.SetCursor(Month{2021, time.October}); !ok {
		t.Fatal("Oct 2021 should be inside the window")
	}
}

func TestNavigatorGoToToday(t *testing.T) {
	ref := New(2026, time.January, 15)
	n := NewBoundedNavigator(ref, 5, 5)
	for i := 0; i < 30; i++ {
		n.Next()
	}
	g := n.GoToToday()
	if n.Cursor() != ref.MonthOf() {
		t.Fatalf("cursor = %s", n.Cursor())
	}
	if g != Build(2026, time.January) {
		t.Fatal("GoToToday should rebuild the reference grid")
	}
}

func TestUnboundedNavigator(t *testing.T) {
	n := NewNavigator(New(2026, time.January, 15))
	for i := 0; i < 200; i++ {
		if _, ok := n.Previous(); !ok {
			t.Fatalf("unbounded navigator rejected move %d", i)
		}
	}
	if n.Cursor() != (Month{2009, time.May}) {
		t.Fatalf("cursor = %s", n.Cursor())
	}
}

func TestNavigatorsAreIndependent(t *testing.T) {
	ref := New(2026, time.January, 15)
	full := NewBoundedNavigator(ref, 5, 5)
	picker := NewNavigator(ref)

	full.Next()
	full.Next()
	picker.Previous()

	if full.Cursor() != (Month{2026, time.March}) {
		t.Fatalf("full cursor = %s", full.Cursor())
	}
	if picker.Cursor() != (Month{2025, time.December}) {
		t.Fatalf("picker cursor = %s", picker.Cursor())
	}
}

func TestNavigatorSetWindow(t *testing.T) {
	ref := New(2026, time.January, 15)
	n := NewNavigator(ref)
	n.SetCursor(Month{2040, time.January})

	n.SetWindow(Window{Reference: ref, MinOffsetYears: 1, MaxOffsetYears: 1, Bounded: true})
	if n.Cursor() != ref.MonthOf() {
		t.Fatalf("cursor outside new window should reset, got %s", n.Cursor())
	}

	n.Next()
	n.SetWindow(Window{Reference: ref, MinOffsetYears: 2, MaxOffsetYears: 2, Bounded: true})
	if n.Cursor() != (Month{2026, time.February}) {
		t.Fatalf("cursor inside new window should stay, got %s", n.Cursor())
	}
}

package schedule

import (
	"sort"

	"github.com/sadopc/agentcal/internal/calendar"
)

// SchedulesOn returns the schedules that fall on date, in input order.
// Matching compares structured dates, so Jan 1 never picks up Jan 15.
func SchedulesOn(date calendar.Date, schedules []Record) []Record {
	var out []Record
	for _, r := range schedules {
		if d, ok := r.Day(); ok && d == date {
			out = append(out, r)
		}
	}
	return out
}

func HasScheduleOn(date calendar.Date, schedules []Record) bool {
	for _, r := range schedules {
		if d, ok := r.Day(); ok && d == date {
			return true
		}
	}
	return false
}

// Index groups a schedule list by day for repeated grid lookups.
type Index struct {
	byDate map[calendar.Date][]Record
}

func NewIndex(records []Record) *Index {
	ix := &Index{byDate: make(map[calendar.Date][]Record)}
	for _, r := range records {
		if d, ok := r.Day(); ok {
			ix.byDate[d] = append(ix.byDate[d], r)
		}
	}
	for _, rs := range ix.byDate {
		sortByStart(rs)
	}
	return ix
}

// sortByStart orders one day's records by start time, stable on ties. Start
// minutes are parsed once per record.
func sortByStart(rs []Record) {
	if len(rs) < 2 {
		return
	}
	type keyed struct {
		mins int
		rec  Record
	}
	ks := make([]keyed, len(rs))
	for i, r := range rs {
		ks[i] = keyed{mins: r.Minutes(), rec: r}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].mins < ks[j].mins })
	for i, k := range ks {
		rs[i] = k.rec
	}
}

// On returns the schedules on d ordered by start time.
func (ix *Index) On(d calendar.Date) []Record {
	return ix.byDate[d]
}

func (ix *Index) Has(d calendar.Date) bool {
	return len(ix.byDate[d]) > 0
}

// Annotate flags every grid cell that has at least one schedule. Padding
// cells are flagged too; the renderer decides whether to show them.
func (ix *Index) Annotate(g calendar.Grid) [calendar.GridSize]bool {
	var marks [calendar.GridSize]bool
	for i, c := range g {
		marks[i] = ix.Has(c.Date)
	}
	return marks
}

// CountByDay returns the number of schedules for each day of m; index 0 is
// the first of the month.
func (ix *Index) CountByDay(m calendar.Month) []int {
	counts := make([]int, m.Days())
	for i := range counts {
		counts[i] = len(ix.byDate[calendar.New(m.Year, m.Month, i+1)])
	}
	return counts
}

// InMonth returns the schedules of m ordered by day and time.
func (ix *Index) InMonth(m calendar.Month) []Record {
	var out []Record
	for day := 1; day <= m.Days(); day++ {
		out = append(out, ix.byDate[calendar.New(m.Year, m.Month, day)]...)
	}
	return out
}

package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Label layouts shared by the date picker and the schedule labels.
const (
	PickerLayout = "02/01/2006"
	DayLayout    = "Jan 2, 2006"
	TimeLayout   = "3:04 PM"
)

var ErrInvalidDateLabel = errors.New("invalid date label")

// Date is a calendar day without time of day or zone. The zero value is
// "no date"; use New to build one.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the date for (year, month, day), normalizing out-of-range
// values the way time.Date does (Feb 30 becomes Mar 2 or Mar 1).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the local current date.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) Year() int { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int { return d.day }
func (d Date) IsZero() bool { return d == Date{} }
func (d Date) MonthOf() Month { return Month{Year: d.year, Month: d.month} }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return New(d.year, d.month, d.day+n)
}

func (d Date) Before(o Date) bool {
	if d.year != o.year {
		return d.year < o.year
	}
	if d.month != o.month {
		return d.month < o.month
	}
	return d.day < o.day
}

// PickerLabel formats d as DD/MM/YYYY.
func (d Date) PickerLabel() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(PickerLayout)
}

// DayLabel formats d as "Feb 10, 2026".
func (d Date) DayLabel() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DayLayout)
}

func (d Date) String() string {
	if d.IsZero() {
		return "0000-00-00"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// ParsePickerLabel parses a DD/MM/YYYY label.
func ParsePickerLabel(s string) (Date, error) {
	t, err := time.Parse(PickerLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateLabel, s)
	}
	return FromTime(t), nil
}

// ParseDayLabel parses a "Feb 10, 2026" label.
func ParseDayLabel(s string) (Date, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateLabel, s)
	}
	return FromTime(t), nil
}

// ParseISO parses a YYYY-MM-DD string, the storage form of a Date.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateLabel, s)
	}
	return FromTime(t), nil
}

// Month is a (year, month) pair used as the navigation cursor.
type Month struct {
	Year  int
	Month time.Month
}

// Add returns m shifted by n months, wrapping across years.
func (m Month) Add(n int) Month {
	idx := m.Year*12 + int(m.Month-1) + n
	y := idx / 12
	mo := idx % 12
	if mo < 0 {
		mo += 12
		y--
	}
	return Month{Year: y, Month: time.Month(mo + 1)}
}

// AddYears shifts by whole calendar years, not 365-day blocks.
func (m Month) AddYears(n int) Month {
	return Month{Year: m.Year + n, Month: m.Month}
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) After(o Month) bool { return o.Before(m) }

func (m Month) First() Date { return New(m.Year, m.Month, 1) }

// Days returns the number of days in m.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Title renders "February 2026".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

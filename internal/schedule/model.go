// Package schedule holds schedule records, the date index that matches them
// to calendar days, and the workflow that creates new ones.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/agentcal/internal/calendar"
)

// LabelSeparator splits the date and time halves of a DateTimeLabel.
const LabelSeparator = " - "

type Type string

const (
	TypeSchoolVisit Type = "School Visit"
	TypeProductDemo Type = "Product Demo"
	TypeTraining    Type = "Teacher Training"
	TypeFollowUp    Type = "Follow-up Meeting"
	TypeBookFair    Type = "Book Fair"
	TypeCollection  Type = "Collection"
)

// Types lists the schedule types offered by the form, in display order.
var Types = []Type{
	TypeSchoolVisit,
	TypeProductDemo,
	TypeTraining,
	TypeFollowUp,
	TypeBookFair,
	TypeCollection,
}

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusPending   Status = "PENDING"
)

var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusPending}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusPending:
		return true
	}
	return false
}

// Title renders the status for display ("Scheduled").
func (s Status) Title() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Option is a selectable school or expense category.
type Option struct {
	ID          int64
	DisplayName string
}

// Record is a committed schedule entry.
type Record struct {
	ID                 int64
	Type               Type
	SchoolIDs          []int64
	ExpenseCategoryIDs []int64
	ExpectedAmount     Money
	Remarks            string
	Date               calendar.Date
	TimeLabel          string
	DateTimeLabel      string
	Status             Status
	CreatedAt          time.Time
}

// FormatLabel renders the "Feb 10, 2026 - 9:00 AM" label.
func FormatLabel(d calendar.Date, timeLabel string) string {
	return d.DayLabel() + LabelSeparator + timeLabel
}

// DatePortion returns the part of a DateTimeLabel before the separator.
func DatePortion(label string) string {
	if i := strings.Index(label, LabelSeparator); i >= 0 {
		return label[:i]
	}
	return label
}

// ParseLabel splits a DateTimeLabel into its date and time halves.
func ParseLabel(label string) (calendar.Date, string, error) {
	day := DatePortion(label)
	d, err := calendar.ParseDayLabel(strings.TrimSpace(day))
	if err != nil {
		return calendar.Date{}, "", err
	}
	var tl string
	if len(day) < len(label) {
		tl = strings.TrimSpace(label[len(day)+len(LabelSeparator):])
	}
	return d, tl, nil
}

// Day returns the record's date, falling back to its label for records
// created without a structured date.
func (r Record) Day() (calendar.Date, bool) {
	if !r.Date.IsZero() {
		return r.Date, true
	}
	d, _, err := ParseLabel(r.DateTimeLabel)
	if err != nil {
		return calendar.Date{}, false
	}
	return d, true
}

// Minutes returns the record's time of day in minutes from midnight, or -1.
func (r Record) Minutes() int {
	tl := r.TimeLabel
	if tl == "" {
		_, tl, _ = ParseLabel(r.DateTimeLabel)
	}
	t, err := time.Parse(calendar.TimeLayout, tl)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// Start returns the record's start as a wall-clock time in loc.
func (r Record) Start(loc *time.Location) (time.Time, bool) {
	d, ok := r.Day()
	mins := r.Minutes()
	if !ok || mins < 0 {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, loc), true
}

// Names resolves ids against opts, keeping the order of ids. Unknown ids
// render as "#<id>".
func Names(ids []int64, opts []Option) []string {
	byID := make(map[int64]string, len(opts))
	for _, o := range opts {
		byID[o.ID] = o.DisplayName
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		} else {
			out = append(out, fmt.Sprintf("#%d", id))
		}
	}
	return out
}

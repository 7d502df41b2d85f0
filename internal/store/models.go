package store

import (
	"time"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
)

type School struct {
	ID        int64
	Name      string
	Archived  bool
	CreatedAt time.Time
}

type ExpenseCategory struct {
	ID        int64
	Name      string
	Archived  bool
	CreatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// ScheduleFilter is used to filter schedules in queries. From is inclusive,
// To exclusive.
type ScheduleFilter struct {
	From     *calendar.Date
	To       *calendar.Date
	Status   schedule.Status
	SchoolID *int64
	Limit    int
}

// StatusTotal aggregates schedules per status.
type StatusTotal struct {
	Status schedule.Status
	Count  int
	Amount schedule.Money
}

// DayCount is the number of schedules on one day.
type DayCount struct {
	Date  calendar.Date
	Count int
}

package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sadopc/agentcal/internal/schedule"
)

const (
	productID = "-//agentcal//schedules//EN"
	// EventLength is how long an exported schedule occupies; one time slot.
	EventLength = 30 * time.Minute
)

// ToICS writes records as VEVENTs. Schedule times are wall-clock times in loc.
// Records whose time cannot be read become all-day events.
func ToICS(records []schedule.Record, cat Catalog, loc *time.Location, path string) error {
	data := BuildICS(records, cat, loc, time.Now())
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}

// BuildICS renders the calendar body. stamp is used as DTSTAMP.
func BuildICS(records []schedule.Record, cat Catalog, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, r := range records {
		ev := cal.AddEvent(fmt.Sprintf("schedule-%d@agentcal", r.ID))
		ev.SetDtStampTime(stamp)
		if !r.CreatedAt.IsZero() {
			ev.SetCreatedTime(r.CreatedAt)
		}
		if start, ok := r.Start(loc); ok {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(EventLength))
		} else if d, ok := r.Day(); ok {
			ev.SetAllDayStartAt(d.Time())
			ev.SetAllDayEndAt(d.AddDays(1).Time())
		}

		schools := schedule.Names(r.SchoolIDs, cat.Schools)
		summary := string(r.Type)
		if len(schools) > 0 {
			summary += ": " + strings.Join(schools, ", ")
		}
		ev.SetSummary(summary)
		ev.SetDescription(description(r, cat))
		if st, ok := icsStatus(r.Status); ok {
			ev.SetStatus(st)
		}
	}
	return cal.Serialize()
}

func description(r schedule.Record, cat Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Expected amount: %s\n", r.ExpectedAmount)
	if cats := schedule.Names(r.ExpenseCategoryIDs, cat.ExpenseCategories); len(cats) > 0 {
		fmt.Fprintf(&b, "Expenses: %s\n", strings.Join(cats, ", "))
	}
	fmt.Fprintf(&b, "Status: %s", r.Status.Title())
	if r.Remarks != "" {
		fmt.Fprintf(&b, "\n%s", r.Remarks)
	}
	return b.String()
}

func icsStatus(s schedule.Status) (ical.ObjectStatus, bool) {
	switch s {
	case schedule.StatusScheduled, schedule.StatusCompleted:
		return ical.ObjectStatusConfirmed, true
	case schedule.StatusPending:
		return ical.ObjectStatusTentative, true
	case schedule.StatusCancelled:
		return ical.ObjectStatusCancelled, true
	}
	return "", false
}

package store

import (
	"fmt"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
)

var demoSchools = []string{
	"St. Mary's Academy",
	"Riverside High School",
	"Hillcrest Elementary",
	"Northfield Montessori",
	"Green Valley College",
}

var demoCategories = []string{
	"Fuel",
	"Meals",
	"Parking",
	"Samples",
	"Printing",
}

// SeedDemo fills an empty database with demo schools, expense categories and
// a handful of schedules around today. It reports whether anything was
// written; a database that already has schools is left alone.
func (s *Store) SeedDemo(today calendar.Date) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM schools`).Scan(&n); err != nil {
		return false, fmt.Errorf("count schools: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	schools := make([]int64, len(demoSchools))
	for i, name := range demoSchools {
		sc, err := s.CreateSchool(name)
		if err != nil {
			return false, err
		}
		schools[i] = sc.ID
	}
	cats := make([]int64, len(demoCategories))
	for i, name := range demoCategories {
		c, err := s.CreateExpenseCategory(name)
		if err != nil {
			return false, err
		}
		cats[i] = c.ID
	}

	demo := []struct {
		offset  int
		typ     schedule.Type
		slot    string
		schools []int64
		cats    []int64
		cents   int64
		remarks string
		status  schedule.Status
	}{
		{-6, schedule.TypeSchoolVisit, "9:00 AM", schools[:1], cats[:2], 50000, "Intro meeting with the principal", schedule.StatusCompleted},
		{-2, schedule.TypeProductDemo, "1:30 PM", schools[1:2], cats[3:4], 120000, "", schedule.StatusCancelled},
		{0, schedule.TypeFollowUp, "10:30 AM", schools[:1], cats[:1], 25000, "Bring the revised quotation", schedule.StatusScheduled},
		{0, schedule.TypeTraining, "3:00 PM", schools[2:3], cats[1:3], 80000, "", schedule.StatusScheduled},
		{3, schedule.TypeBookFair, "8:00 AM", schools[3:5], cats, 350000, "Two tables, setup by 7:30", schedule.StatusPending},
		{9, schedule.TypeCollection, "11:00 AM", schools[4:5], cats[:1], 15000, "", schedule.StatusScheduled},
	}
	for _, d := range demo {
		day := today.AddDays(d.offset)
		_, err := s.Append(schedule.Record{
			Type:               d.typ,
			SchoolIDs:          d.schools,
			ExpenseCategoryIDs: d.cats,
			ExpectedAmount:     schedule.Money{Cents: d.cents},
			Remarks:            d.remarks,
			Date:               day,
			TimeLabel:          d.slot,
			DateTimeLabel:      schedule.FormatLabel(day, d.slot),
			Status:             d.status,
		})
		if err != nil {
			return false, fmt.Errorf("seed schedule: %w", err)
		}
	}
	return true, nil
}

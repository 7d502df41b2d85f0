package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/agentcal/internal/schedule"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Schedules  []jsonSchedule `json:"schedules"`
}

type jsonSchedule struct {
	ID                 int64    `json:"id"`
	Type               string   `json:"type"`
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	DateTimeLabel      string   `json:"date_time_label"`
	SchoolIDs          []int64  `json:"school_ids"`
	Schools            []string `json:"schools"`
	ExpenseCategoryIDs []int64  `json:"expense_category_ids"`
	ExpenseCategories  []string `json:"expense_categories"`
	AmountCents        int64    `json:"expected_amount_cents"`
	Amount             string   `json:"expected_amount"`
	Status             string   `json:"status"`
	Remarks            string   `json:"remarks,omitempty"`
	CreatedAt          string   `json:"created_at"`
}

func ToJSON(records []schedule.Record, cat Catalog, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
		Schedules:  []jsonSchedule{},
	}

	for _, r := range records {
		export.Schedules = append(export.Schedules, jsonSchedule{
			ID:                 r.ID,
			Type:               string(r.Type),
			Date:               r.Date.String(),
			Time:               r.TimeLabel,
			DateTimeLabel:      r.DateTimeLabel,
			SchoolIDs:          nonNil(r.SchoolIDs),
			Schools:            schedule.Names(r.SchoolIDs, cat.Schools),
			ExpenseCategoryIDs: nonNil(r.ExpenseCategoryIDs),
			ExpenseCategories:  schedule.Names(r.ExpenseCategoryIDs, cat.ExpenseCategories),
			AmountCents:        r.ExpectedAmount.Cents,
			Amount:             r.ExpectedAmount.Input(),
			Status:             string(r.Status),
			Remarks:            r.Remarks,
			CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

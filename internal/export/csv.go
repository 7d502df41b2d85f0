package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sadopc/agentcal/internal/schedule"
)

func ToCSV(records []schedule.Record, cat Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Type", "Date", "Time", "Schools", "Expense Categories", "Expected Amount", "Status", "Remarks", "Created"}); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			fmt.Sprintf("%d", r.ID),
			string(r.Type),
			r.Date.String(),
			r.TimeLabel,
			strings.Join(schedule.Names(r.SchoolIDs, cat.Schools), "; "),
			strings.Join(schedule.Names(r.ExpenseCategoryIDs, cat.ExpenseCategories), "; "),
			r.ExpectedAmount.Input(),
			string(r.Status),
			r.Remarks,
			r.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

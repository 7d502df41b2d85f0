package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
)

var listCmd = &cobra.Command{
	Use:   "list [DD/MM/YYYY]",
	Short: "List a day's schedules and exit",
	Long:  `List the schedules for a day, today by default, in a simple text format and exit.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	day := calendar.Today()
	if len(args) == 1 {
		d, err := calendar.ParsePickerLabel(args[0])
		if err != nil {
			return err
		}
		day = d
	}

	logger, closeLog := newLogger()
	defer closeLog()
	s, err := openStore(logger)
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.All()
	if err != nil {
		return fmt.Errorf("error getting schedules: %w", err)
	}
	schools, err := s.AllSchools()
	if err != nil {
		return err
	}
	cats, err := s.AllExpenseCategories()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Schedules for %s:\n", day.DayLabel())
	recs := schedule.SchedulesOn(day, all)
	if len(recs) == 0 {
		fmt.Fprintln(out, "No schedules found.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(out, "  %s - %s [%s]\n", r.TimeLabel, r.Type, r.Status.Title())
		fmt.Fprintf(out, "    Schools: %s\n", strings.Join(schedule.Names(r.SchoolIDs, schools), ", "))
		fmt.Fprintf(out, "    Expected: %s (%s)\n", r.ExpectedAmount.Format(cfg.Currency),
			strings.Join(schedule.Names(r.ExpenseCategoryIDs, cats), ", "))
		if r.Remarks != "" {
			text := wordwrap.String(r.Remarks, 68)
			fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(text, "\n", "\n    "))
		}
	}
	return nil
}

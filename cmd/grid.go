package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
)

var gridCmd = &cobra.Command{
	Use:   "grid [YYYY-MM]",
	Short: "Print a month grid and exit",
	Long: `Print the 6-week grid for a month, current month by default. Days with
schedules are marked with *, and days from the neighbouring months are
shown in parentheses.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrid,
}

func init() {
	rootCmd.AddCommand(gridCmd)
}

func runGrid(cmd *cobra.Command, args []string) error {
	today := calendar.Today()
	month := today.MonthOf()
	if len(args) == 1 {
		m, err := calendar.ParseMonth(args[0])
		if err != nil {
			return err
		}
		month = m
	}
	if w := cfg.Window(today); !w.Contains(month) {
		return fmt.Errorf("%s is outside the calendar window (%s to %s)",
			month.Title(), w.Earliest().Title(), w.Latest().Title())
	}

	logger, closeLog := newLogger()
	defer closeLog()
	s, err := openStore(logger)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.SchedulesInMonth(month)
	if err != nil {
		return err
	}
	g := calendar.BuildMonth(month)
	marks := schedule.NewIndex(recs).Annotate(g)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, month.Title())
	writeGrid(out, g, marks)

	counts, err := s.GetDayCounts(month.First(), month.Add(1).First())
	if err != nil {
		return err
	}
	if len(counts) > 0 {
		fmt.Fprintln(out)
	}
	for _, c := range counts {
		noun := "schedules"
		if c.Count == 1 {
			noun = "schedule"
		}
		fmt.Fprintf(out, "  %s: %d %s\n", c.Date.DayLabel(), c.Count, noun)
	}
	return nil
}

// writeGrid prints g as plain text, one week per line.
func writeGrid(w io.Writer, g calendar.Grid, marks [calendar.GridSize]bool) {
	fmt.Fprintln(w, " "+strings.Join(calendar.WeekdayHeaders[:], "   "))
	for i, week := range g.Weeks() {
		var cells []string
		for d, c := range week {
			switch {
			case !c.Interactive():
				cells = append(cells, fmt.Sprintf("(%2d)", c.Day))
			case marks[i*7+d]:
				cells = append(cells, fmt.Sprintf(" %2d*", c.Day))
			default:
				cells = append(cells, fmt.Sprintf(" %2d ", c.Day))
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/agentcal/internal/export"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all schedules to CSV, JSON or iCalendar",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "all", "csv, json, ics or all")
	exportCmd.Flags().StringVar(&exportDir, "out", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	formats, err := export.ParseFormats(exportFormat)
	if err != nil {
		return err
	}

	logger, closeLog := newLogger()
	defer closeLog()
	s, err := openStore(logger)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.All()
	if err != nil {
		return err
	}
	schools, err := s.AllSchools()
	if err != nil {
		return err
	}
	cats, err := s.AllExpenseCategories()
	if err != nil {
		return err
	}

	cat := export.Catalog{Schools: schools, ExpenseCategories: cats}
	paths, err := export.All(cmd.Context(), records, cat, exportDir, formats)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("export finished", "files", len(paths), "schedules", len(records))
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

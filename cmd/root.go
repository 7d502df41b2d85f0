package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/config"
	"github.com/sadopc/agentcal/internal/log"
	"github.com/sadopc/agentcal/internal/store"
	"github.com/sadopc/agentcal/internal/tui"
)

var (
	cfgFile string
	dbFile  string
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agentcal",
	Short: "A terminal scheduling calendar for field sales agents",
	Long: `agentcal keeps a sales agent's school visits, demos and collections on a
month calendar, with a guided form for adding schedules and exports to
CSV, JSON and iCalendar.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/agentcal/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "", "database file, overrides the config")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	path := cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(c)
	cfg, cfgPath = c, path
	return nil
}

// applyOverrides layers the environment and flags over a loaded config.
func applyOverrides(c *config.Config) {
	c.ApplyEnv()
	if dbFile != "" {
		c.DBPath = dbFile
	}
}

// newLogger opens the configured log file. The returned func closes it.
func newLogger() (*log.Logger, func()) {
	f, err := log.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.Discard(), func() {}
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: "agentcal",
		Output:    f,
	})
	log.SetDefault(logger)
	return logger, func() { f.Close() }
}

// openStore opens the database and seeds demo data into an empty one when
// the config asks for it.
func openStore(logger *log.Logger) (*store.Store, error) {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if cfg.SeedDemoData {
		seeded, err := s.SeedDemo(calendar.Today())
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		if seeded {
			logger.Info("seeded demo data", "db", cfg.DBPath)
		}
	}
	return s, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog := newLogger()
	defer closeLog()

	s, err := openStore(logger)
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewApp(s, cfg, logger), tea.WithAltScreen())

	w, err := config.NewWatcher(cfgPath, func(c *config.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", "path", cfgPath, "error", err)
			return
		}
		applyOverrides(c)
		p.Send(tui.ConfigReloaded(c))
	})
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
	} else {
		defer w.Close()
	}

	logger.Info("starting", "config", cfgPath, "db", cfg.DBPath)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

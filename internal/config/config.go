// Package config loads the YAML configuration file, applies environment
// overrides and watches the file for changes.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/agentcal/internal/calendar"
)

const (
	EnvConfig   = "AGENTCAL_CONFIG"
	EnvDB       = "AGENTCAL_DB"
	EnvLogLevel = "AGENTCAL_LOG_LEVEL"

	DefaultOffsetYears = 5
	DefaultCurrency    = "₱"
	DefaultLogLevel    = "info"
)

// CalendarConfig bounds month navigation on the main calendar.
type CalendarConfig struct {
	// MinOffsetYears is how many calendar years back from the current month
	// the calendar may go.
	MinOffsetYears int `yaml:"min_offset_years"`
	// MaxOffsetYears is how many calendar years forward it may go.
	MaxOffsetYears int `yaml:"max_offset_years"`
}

// Config is the top-level application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// LogFile receives the structured log; the terminal belongs to the UI.
	LogFile string `yaml:"log_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Currency is the symbol shown before amounts.
	Currency string `yaml:"currency"`

	Calendar CalendarConfig `yaml:"calendar"`

	// SeedDemoData fills an empty database with demo schools and schedules.
	SeedDemoData bool `yaml:"seed_demo_data"`
}

// Dir returns ~/.config/agentcal.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "agentcal"), nil
}

// DefaultPath returns the config file path, honouring AGENTCAL_CONFIG.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{
		LogLevel: DefaultLogLevel,
		Currency: DefaultCurrency,
		Calendar: CalendarConfig{
			MinOffsetYears: DefaultOffsetYears,
			MaxOffsetYears: DefaultOffsetYears,
		},
		SeedDemoData: true,
	}
	c.Normalize()
	return c
}

// Normalize fills in missing values so partially-filled configs still
// behave. Offsets below one year fall back to the default window.
func (c *Config) Normalize() {
	if c.DBPath == "" || c.LogFile == "" {
		dir, err := Dir()
		if err != nil {
			dir = "."
		}
		if c.DBPath == "" {
			c.DBPath = filepath.Join(dir, "agentcal.db")
		}
		if c.LogFile == "" {
			c.LogFile = filepath.Join(dir, "agentcal.log")
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	default:
		c.LogLevel = DefaultLogLevel
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.Calendar.MinOffsetYears <= 0 {
		c.Calendar.MinOffsetYears = DefaultOffsetYears
	}
	if c.Calendar.MaxOffsetYears <= 0 {
		c.Calendar.MaxOffsetYears = DefaultOffsetYears
	}
}

// Window returns the bounded navigation window around ref.
func (c *Config) Window(ref calendar.Date) calendar.Window {
	return calendar.Window{
		Reference:      ref,
		MinOffsetYears: c.Calendar.MinOffsetYears,
		MaxOffsetYears: c.Calendar.MaxOffsetYears,
		Bounded:        true,
	}
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides file values with AGENTCAL_DB and AGENTCAL_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	c.Normalize()
}

// Load loads configuration from the given YAML path. On first run the
// default config is written with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg atomically via a temp file and rename, leaving the file
// with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".agentcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}

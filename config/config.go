package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputPath      string `envconfig:"INPUT_PATH" default:"AB_NYC_2019.csv"`
	OutputDir      string `envconfig:"OUTPUT_DIR" default:"./output"`
	CleanedFile    string `envconfig:"CLEANED_FILE" default:"cleaned_airbnb_data.csv"`
	AggregatedFile string `envconfig:"AGGREGATED_FILE" default:"aggregated_airbnb_data.csv"`
	TimeSeriesFile string `envconfig:"TIME_SERIES_FILE" default:"time_series_airbnb_data.csv"`
	WorkbookFile   string `envconfig:"WORKBOOK_FILE" default:"airbnb_report.xlsx"`

	FilterGroup string `envconfig:"FILTER_GROUP" default:"Brooklyn"`

	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	SQLitePath  string `envconfig:"SQLITE_PATH"`
	DBRetries   int    `envconfig:"DB_RETRIES" default:"3"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// EnvPrefix is prepended to every variable name, e.g. ETL_INPUT_PATH.
const EnvPrefix = "ETL"

// Load reads the .env file if present and returns a populated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.DBRetries < 1 {
		cfg.DBRetries = 1
	}
	return &cfg, nil
}

// CleanedPath is the location of the stage-one artifact.
func (c *Config) CleanedPath() string { return filepath.Join(c.OutputDir, c.CleanedFile) }

// AggregatedPath is the location of the ranked group summary.
func (c *Config) AggregatedPath() string { return filepath.Join(c.OutputDir, c.AggregatedFile) }

// TimeSeriesPath is the location of the monthly-average table.
func (c *Config) TimeSeriesPath() string { return filepath.Join(c.OutputDir, c.TimeSeriesFile) }

// WorkbookPath is the location of the spreadsheet report.
func (c *Config) WorkbookPath() string { return filepath.Join(c.OutputDir, c.WorkbookFile) }

package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"statsync/schema"
)

// Default values for configuration.
const (
	DefaultWorkers      = 10
	DefaultTimeout      = 120 * time.Second
	DefaultRateLimit    = 4.0 // requests per second against the provider
	DefaultPrecision    = 2
	DefaultArtifactsDir = "data_exports"
	DefaultStoreRoot    = "flat_series"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DatasetSchedule declares when a dataset should be refreshed. Days are
// days-of-month; RetryDays only trigger when the last run for the dataset
// recorded failures within the retry lookback.
type DatasetSchedule struct {
	Frequency string          `mapstructure:"frequency" json:"frequency"` // daily, monthly, quarterly
	Months    []int           `mapstructure:"months" json:"months,omitempty"`
	Days      []int           `mapstructure:"days" json:"days,omitempty"`
	RetryDays []int           `mapstructure:"retry_days" json:"retry_days,omitempty"`
	Priority  schema.Priority `mapstructure:"priority" json:"priority"`
}

// Config holds the runtime configuration for a batch invocation.
// This struct remains the "final, validated" config.
type Config struct {
	CatalogPath  string
	Dataset      string
	Workers      int
	DryRun       bool
	Resume       bool
	NationalOnly bool
	Strategy     schema.UpdateStrategy

	StoreBaseURL string
	StoreSecret  string // Please use env var as this is plaintext
	StoreRoot    string

	Timeout   time.Duration
	RateLimit float64

	ArtifactsDir string

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	// Schedule maps dataset names to their refresh heuristics. Loaded once
	// per invocation from the config file and immutable afterwards.
	Schedule map[string]DatasetSchedule

	// RetryLookback bounds how far back a failed run still counts for the
	// schedule retry windows.
	RetryLookback time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DatasetArg string

	Catalog      string `mapstructure:"catalog"`
	Workers      int    `mapstructure:"workers"`
	DryRun       bool   `mapstructure:"dry-run"`
	Resume       bool   `mapstructure:"resume"`
	NationalOnly bool   `mapstructure:"national-only"`
	Strategy     string `mapstructure:"strategy"`

	StoreURL    string `mapstructure:"store-url"`
	StoreSecret string `mapstructure:"store-secret"`
	StoreRoot   string `mapstructure:"store-root"`

	Timeout   string  `mapstructure:"timeout"`
	RateLimit float64 `mapstructure:"rate-limit"`

	ArtifactsDir string `mapstructure:"artifacts-dir"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	RunBackend   string `mapstructure:"run-backend"`
	RunDBConnect string `mapstructure:"run-db-connect"`

	RetryLookback string `mapstructure:"retry-lookback"`

	// --- Schedule table from the config file ---
	Schedule map[string]DatasetSchedule `mapstructure:"schedule"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Schedule != nil {
		clone.Schedule = make(map[string]DatasetSchedule, len(c.Schedule))
		for name, sched := range c.Schedule {
			clone.Schedule[name] = sched
		}
	}
	return &clone
}

// ProcessAndValidate converts raw input into the final validated Config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.CatalogPath = input.Catalog
	cfg.Dataset = input.DatasetArg
	cfg.DryRun = input.DryRun
	cfg.Resume = input.Resume
	cfg.NationalOnly = input.NationalOnly
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.StoreBaseURL = input.StoreURL
	cfg.StoreSecret = input.StoreSecret
	cfg.ArtifactsDir = input.ArtifactsDir
	cfg.RunDBConnect = input.RunDBConnect
	cfg.Schedule = input.Schedule

	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", input.Workers)
	}

	cfg.Strategy = schema.UpdateStrategy(input.Strategy)
	if _, ok := schema.ValidStrategies[cfg.Strategy]; !ok {
		return fmt.Errorf("invalid strategy %q (expected incremental, full or auto)", input.Strategy)
	}

	cfg.Output = schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode %q", input.Output)
	}

	cfg.RunBackend = schema.DatabaseBackend(input.RunBackend)
	if _, ok := schema.ValidBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend %q (expected sqlite, mysql, postgresql or none)", input.RunBackend)
	}
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return err
	}

	cfg.StoreRoot = input.StoreRoot
	if cfg.StoreRoot == "" {
		cfg.StoreRoot = DefaultStoreRoot
	}

	cfg.Precision = input.Precision
	if cfg.Precision < 0 || cfg.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6, got %d", input.Precision)
	}

	var err error
	cfg.Timeout, err = parseDurationOrDefault(input.Timeout, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}
	cfg.RetryLookback, err = parseDurationOrDefault(input.RetryLookback, 7*24*time.Hour)
	if err != nil {
		return fmt.Errorf("invalid retry-lookback %q: %w", input.RetryLookback, err)
	}

	cfg.RateLimit = input.RateLimit
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}

	cfg.UseColors, err = ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}

	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = DefaultArtifactsDir
	}

	return nil
}

// ValidateDatabaseConnectionString checks backend/connection-string pairing.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s backend requires a connection string", backend)
		}
	}
	return nil
}

func parseDurationOrDefault(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".statsync_runs.db"
	}
	return filepath.Join(homeDir, ".statsync_runs.db")
}

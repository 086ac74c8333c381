// Package projectconfig provides the ProjectConfig struct and loader for
// .promptlift.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Load.
const FileName = ".promptlift.yaml"

// EnvPrefix prefixes every environment override, e.g. PROMPTLIFT_REPORT_HOURLY_RATE.
const EnvPrefix = "PROMPTLIFT_"

// Default values for project configuration. These are the single source of
// truth. New() references them and no other code should duplicate them.
const (
	DefaultRecordsDir = "records/"
	DefaultReportsDir = "reports/"

	DefaultHourlyRate = 50.0
	DefaultFormat     = "json"

	DefaultWorkers      = 4
	DefaultMaxAttempts  = 3
	DefaultRetryDelay   = 2 * time.Second
	DefaultTasksPerType = 10
	DefaultEncoding     = "estimate"

	DefaultStoreBackend = "jsonl"
)

// DefaultTaskTypes are simulated by `collect` when none are configured.
var DefaultTaskTypes = []string{"code_generation", "code_review", "documentation", "debugging"}

// PathsConfig holds directory paths for record files and reports.
type PathsConfig struct {
	Records string `yaml:"records,omitempty" env:"RECORDS"`
	Reports string `yaml:"reports,omitempty" env:"REPORTS"`
}

// ReportConfig holds comparison report settings.
type ReportConfig struct {
	// HourlyRate is a pointer so an explicit 0 survives merging.
	HourlyRate *float64 `yaml:"hourly_rate,omitempty" env:"HOURLY_RATE" validate:"omitempty,gte=0"`
	Format     string   `yaml:"format,omitempty" env:"FORMAT" validate:"oneof=json table markdown html"`
	TaskTypes  *bool    `yaml:"task_types,omitempty" env:"TASK_TYPES"`
	Statistics *bool    `yaml:"statistics,omitempty" env:"STATISTICS"`
	Seed       *int64   `yaml:"seed,omitempty" env:"SEED"`
}

// CollectConfig holds settings of the simulated data collection.
type CollectConfig struct {
	Workers      int           `yaml:"workers,omitempty" env:"WORKERS" validate:"min=1,max=256"`
	MaxAttempts  int           `yaml:"max_attempts,omitempty" env:"MAX_ATTEMPTS" validate:"min=1,max=20"`
	RetryDelay   time.Duration `yaml:"retry_delay,omitempty" env:"RETRY_DELAY" validate:"gte=0"`
	RateLimit    float64       `yaml:"rate_limit,omitempty" env:"RATE_LIMIT" validate:"gte=0"`
	TasksPerType int           `yaml:"tasks_per_type,omitempty" env:"TASKS_PER_TYPE" validate:"min=1"`
	TaskTypes    []string      `yaml:"task_types,omitempty" env:"TASK_TYPES" validate:"min=1,dive,required"`
	Encoding     string        `yaml:"encoding,omitempty" env:"ENCODING" validate:"required"`
	Seed         *int64        `yaml:"seed,omitempty" env:"SEED"`
}

// StoreConfig selects where collected records are persisted.
type StoreConfig struct {
	Backend  string `yaml:"backend,omitempty" env:"BACKEND" validate:"oneof=jsonl badger"`
	Compress *bool  `yaml:"compress,omitempty" env:"COMPRESS"`
}

// MetricsConfig holds Prometheus export settings.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" env:"TEXTFILE"`
}

// ProjectConfig is the top-level configuration loaded from .promptlift.yaml.
type ProjectConfig struct {
	Paths   PathsConfig   `yaml:"paths,omitempty" envPrefix:"PATHS_"`
	Report  ReportConfig  `yaml:"report,omitempty" envPrefix:"REPORT_"`
	Collect CollectConfig `yaml:"collect,omitempty" envPrefix:"COLLECT_"`
	Store   StoreConfig   `yaml:"store,omitempty" envPrefix:"STORE_"`
	Metrics MetricsConfig `yaml:"metrics,omitempty" envPrefix:"METRICS_"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Records: DefaultRecordsDir,
			Reports: DefaultReportsDir,
		},
		Report: ReportConfig{
			HourlyRate: float64Ptr(DefaultHourlyRate),
			Format:     DefaultFormat,
			TaskTypes:  boolPtr(true),
			Statistics: boolPtr(true),
		},
		Collect: CollectConfig{
			Workers:      DefaultWorkers,
			MaxAttempts:  DefaultMaxAttempts,
			RetryDelay:   DefaultRetryDelay,
			TasksPerType: DefaultTasksPerType,
			TaskTypes:    append([]string(nil), DefaultTaskTypes...),
			Encoding:     DefaultEncoding,
		},
		Store: StoreConfig{
			Backend:  DefaultStoreBackend,
			Compress: boolPtr(false),
		},
	}
}

// Load finds .promptlift.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults, applies PROMPTLIFT_*
// environment overrides and validates the result.
// If no config file is found, defaults (plus env overrides) are returned.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	switch {
	case err == nil:
		var fileCfg ProjectConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		mergeConfig(cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from PROMPTLIFT_* environment variables.
// Unset variables leave the current values untouched.
func ApplyEnv(cfg *ProjectConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("reading %s* environment: %w", EnvPrefix, err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints declared on the config structs.
func (c *ProjectConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// findConfigFile walks up from dir looking for .promptlift.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Records != "" {
		dst.Paths.Records = src.Paths.Records
	}
	if src.Paths.Reports != "" {
		dst.Paths.Reports = src.Paths.Reports
	}

	// Report
	if src.Report.HourlyRate != nil {
		dst.Report.HourlyRate = src.Report.HourlyRate
	}
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
	if src.Report.TaskTypes != nil {
		dst.Report.TaskTypes = src.Report.TaskTypes
	}
	if src.Report.Statistics != nil {
		dst.Report.Statistics = src.Report.Statistics
	}
	if src.Report.Seed != nil {
		dst.Report.Seed = src.Report.Seed
	}

	// Collect
	if src.Collect.Workers != 0 {
		dst.Collect.Workers = src.Collect.Workers
	}
	if src.Collect.MaxAttempts != 0 {
		dst.Collect.MaxAttempts = src.Collect.MaxAttempts
	}
	if src.Collect.RetryDelay != 0 {
		dst.Collect.RetryDelay = src.Collect.RetryDelay
	}
	if src.Collect.RateLimit != 0 {
		dst.Collect.RateLimit = src.Collect.RateLimit
	}
	if src.Collect.TasksPerType != 0 {
		dst.Collect.TasksPerType = src.Collect.TasksPerType
	}
	if len(src.Collect.TaskTypes) > 0 {
		dst.Collect.TaskTypes = src.Collect.TaskTypes
	}
	if src.Collect.Encoding != "" {
		dst.Collect.Encoding = src.Collect.Encoding
	}
	if src.Collect.Seed != nil {
		dst.Collect.Seed = src.Collect.Seed
	}

	// Store
	if src.Store.Backend != "" {
		dst.Store.Backend = src.Store.Backend
	}
	if src.Store.Compress != nil {
		dst.Store.Compress = src.Store.Compress
	}

	// Metrics
	if src.Metrics.Textfile != "" {
		dst.Metrics.Textfile = src.Metrics.Textfile
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func float64Ptr(f float64) *float64 {
	return &f
}

// Rate returns the configured hourly rate, or DefaultHourlyRate when unset.
func (r ReportConfig) Rate() float64 {
	if r.HourlyRate == nil {
		return DefaultHourlyRate
	}
	return *r.HourlyRate
}

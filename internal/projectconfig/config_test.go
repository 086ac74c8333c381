package projectconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Paths
	assertEqual(t, "Paths.Records", "records/", cfg.Paths.Records)
	assertEqual(t, "Paths.Reports", "reports/", cfg.Paths.Reports)

	// Report
	if cfg.Report.Rate() != 50 {
		t.Errorf("Report.Rate() = %v, want 50", cfg.Report.Rate())
	}
	assertEqual(t, "Report.Format", "json", cfg.Report.Format)
	assertBoolPtr(t, "Report.TaskTypes", true, cfg.Report.TaskTypes)
	assertBoolPtr(t, "Report.Statistics", true, cfg.Report.Statistics)
	if cfg.Report.Seed != nil {
		t.Error("Report.Seed should be nil by default")
	}

	// Collect
	assertEqualInt(t, "Collect.Workers", 4, cfg.Collect.Workers)
	assertEqualInt(t, "Collect.MaxAttempts", 3, cfg.Collect.MaxAttempts)
	if cfg.Collect.RetryDelay != 2*time.Second {
		t.Errorf("Collect.RetryDelay = %v, want 2s", cfg.Collect.RetryDelay)
	}
	assertEqualInt(t, "Collect.TasksPerType", 10, cfg.Collect.TasksPerType)
	assertEqual(t, "Collect.TaskTypes", strings.Join(DefaultTaskTypes, ","), strings.Join(cfg.Collect.TaskTypes, ","))
	assertEqual(t, "Collect.Encoding", "estimate", cfg.Collect.Encoding)

	// Store
	assertEqual(t, "Store.Backend", "jsonl", cfg.Store.Backend)
	assertBoolPtr(t, "Store.Compress", false, cfg.Store.Compress)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestNew_TaskTypesAreCopied(t *testing.T) {
	cfg := New()
	cfg.Collect.TaskTypes[0] = "mutated"
	if DefaultTaskTypes[0] == "mutated" {
		t.Fatal("New() must not alias DefaultTaskTypes")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
paths:
  records: "data/"
  reports: "out/"
report:
  hourly_rate: 85.5
  format: markdown
  task_types: false
  statistics: false
  seed: 7
collect:
  workers: 8
  max_attempts: 5
  retry_delay: 250ms
  rate_limit: 2.5
  tasks_per_type: 25
  task_types: [summarize, translate]
  encoding: gpt-4o
  seed: 11
store:
  backend: badger
  compress: true
metrics:
  textfile: "out/promptlift.prom"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	assertEqual(t, "Paths.Records", "data/", cfg.Paths.Records)
	assertEqual(t, "Paths.Reports", "out/", cfg.Paths.Reports)
	if cfg.Report.Rate() != 85.5 {
		t.Errorf("Report.Rate() = %v, want 85.5", cfg.Report.Rate())
	}
	assertEqual(t, "Report.Format", "markdown", cfg.Report.Format)
	assertBoolPtr(t, "Report.TaskTypes", false, cfg.Report.TaskTypes)
	assertBoolPtr(t, "Report.Statistics", false, cfg.Report.Statistics)
	if cfg.Report.Seed == nil || *cfg.Report.Seed != 7 {
		t.Errorf("Report.Seed = %v, want 7", cfg.Report.Seed)
	}
	assertEqualInt(t, "Collect.Workers", 8, cfg.Collect.Workers)
	assertEqualInt(t, "Collect.MaxAttempts", 5, cfg.Collect.MaxAttempts)
	if cfg.Collect.RetryDelay != 250*time.Millisecond {
		t.Errorf("Collect.RetryDelay = %v, want 250ms", cfg.Collect.RetryDelay)
	}
	if cfg.Collect.RateLimit != 2.5 {
		t.Errorf("Collect.RateLimit = %v, want 2.5", cfg.Collect.RateLimit)
	}
	assertEqualInt(t, "Collect.TasksPerType", 25, cfg.Collect.TasksPerType)
	assertEqual(t, "Collect.TaskTypes", "summarize,translate", strings.Join(cfg.Collect.TaskTypes, ","))
	assertEqual(t, "Collect.Encoding", "gpt-4o", cfg.Collect.Encoding)
	if cfg.Collect.Seed == nil || *cfg.Collect.Seed != 11 {
		t.Errorf("Collect.Seed = %v, want 11", cfg.Collect.Seed)
	}
	assertEqual(t, "Store.Backend", "badger", cfg.Store.Backend)
	assertBoolPtr(t, "Store.Compress", true, cfg.Store.Compress)
	assertEqual(t, "Metrics.Textfile", "out/promptlift.prom", cfg.Metrics.Textfile)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
report:
  hourly_rate: 120
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Report.Rate() != 120 {
		t.Errorf("Report.Rate() = %v, want 120", cfg.Report.Rate())
	}
	// Everything else keeps its default
	assertEqual(t, "Report.Format", "json", cfg.Report.Format)
	assertEqualInt(t, "Collect.Workers", DefaultWorkers, cfg.Collect.Workers)
	assertEqual(t, "Paths.Records", DefaultRecordsDir, cfg.Paths.Records)
}

func TestLoad_ZeroHourlyRateIsKept(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  string
	}{
		{name: "file", yaml: "report:\n  hourly_rate: 0\n"},
		{name: "environment", yaml: "report:\n  hourly_rate: 80\n", env: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			if tt.env != "" {
				t.Setenv("PROMPTLIFT_REPORT_HOURLY_RATE", tt.env)
			}

			cfg, err := Load(dir)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Report.HourlyRate == nil || cfg.Report.Rate() != 0 {
				t.Errorf("Report.Rate() = %v, want 0", cfg.Report.Rate())
			}
		})
	}
}

func TestReportConfig_RateDefaultsWhenUnset(t *testing.T) {
	var rc ReportConfig
	if rc.Rate() != DefaultHourlyRate {
		t.Errorf("Rate() = %v, want %v", rc.Rate(), DefaultHourlyRate)
	}
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}

	defaults := New()
	assertEqual(t, "Report.Format", defaults.Report.Format, cfg.Report.Format)
	assertEqualInt(t, "Collect.MaxAttempts", defaults.Collect.MaxAttempts, cfg.Collect.MaxAttempts)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "report: [unclosed\n")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, want it to mention parsing", err)
	}
}

func TestLoad_InvalidValues_ReturnsError(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantTag string
	}{
		{"negative hourly rate", "report:\n  hourly_rate: -5\n", "gte"},
		{"unknown format", "report:\n  format: pdf\n", "oneof"},
		{"unknown backend", "store:\n  backend: sqlite\n", "oneof"},
		{"too many attempts", "collect:\n  max_attempts: 50\n", "max"},
		{"empty task type", "collect:\n  task_types: [\"\"]\n", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)

			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantTag) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantTag)
			}
		})
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "report:\n  format: table\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Report.Format", "table", cfg.Report.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
report:
  hourly_rate: 80
collect:
  workers: 2
`)
	t.Setenv("PROMPTLIFT_REPORT_HOURLY_RATE", "95.25")
	t.Setenv("PROMPTLIFT_COLLECT_TASK_TYPES", "alpha,beta")
	t.Setenv("PROMPTLIFT_COLLECT_RETRY_DELAY", "1500ms")
	t.Setenv("PROMPTLIFT_STORE_COMPRESS", "true")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Report.Rate() != 95.25 {
		t.Errorf("Report.Rate() = %v, want 95.25", cfg.Report.Rate())
	}
	assertEqualInt(t, "Collect.Workers", 2, cfg.Collect.Workers)
	assertEqual(t, "Collect.TaskTypes", "alpha,beta", strings.Join(cfg.Collect.TaskTypes, ","))
	if cfg.Collect.RetryDelay != 1500*time.Millisecond {
		t.Errorf("Collect.RetryDelay = %v, want 1.5s", cfg.Collect.RetryDelay)
	}
	assertBoolPtr(t, "Store.Compress", true, cfg.Store.Compress)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("PROMPTLIFT_COLLECT_WORKERS", "many")

	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for non-numeric PROMPTLIFT_COLLECT_WORKERS")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}

// Package dataset reads task record files. JSON and JSONL inputs are checked
// against the embedded record schema; every format is checked against the
// TaskRecord invariants before records are handed to the caller.
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spboyer/promptlift/internal/models"
)

// Format is a record file encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// DetectFormat infers the format from the file name. A trailing .gz is ignored.
func DetectFormat(path string) (Format, error) {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".gz")
	switch filepath.Ext(name) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	}
	return "", fmt.Errorf("unsupported record file %q: expected .csv, .json or .jsonl", path)
}

// Open opens path for reading, transparently decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return zerr
}

// Load reads every record in path and validates it.
func Load(path string) ([]models.TaskRecord, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records: %w", err)
	}
	defer rc.Close() //nolint:errcheck

	return Read(rc, format, path)
}

// Read decodes records of the given format from r. name is used in errors.
func Read(r io.Reader, format Format, name string) ([]models.TaskRecord, error) {
	var (
		records []models.TaskRecord
		err     error
	)
	switch format {
	case FormatCSV:
		var rows []Row
		rows, err = ReadCSV(r)
		if err == nil {
			records, err = DecodeRows(rows)
		}
	case FormatJSON:
		records, err = DecodeJSON(r)
	case FormatJSONL:
		records, err = DecodeJSONL(r)
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
	if err != nil {
		return nil, withPath(name, err)
	}
	return checked(name, records)
}

// LoadMixed reads one file holding both populations and partitions it by method.
func LoadMixed(path string) (*models.Population, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	return models.PopulationFromRecords(records), nil
}

// LoadPopulation reads the baseline and enhanced populations from two files.
// Every baseline record must carry the manual method and every enhanced
// record the generated one.
func LoadPopulation(baselinePath, enhancedPath string) (*models.Population, error) {
	baseline, err := loadSide(baselinePath, models.MethodManual)
	if err != nil {
		return nil, err
	}
	enhanced, err := loadSide(enhancedPath, models.MethodGenerated)
	if err != nil {
		return nil, err
	}
	pop := models.NewPopulation()
	pop.AppendBaseline(baseline...)
	pop.AppendEnhanced(enhanced...)
	return pop, nil
}

func loadSide(path string, want models.Method) ([]models.TaskRecord, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	var problems []Problem
	for i, rec := range records {
		if rec.Method != want {
			problems = append(problems, Problem{Index: i, Message: fmt.Sprintf("%s: method is %q, expected %q", rec.TaskID, rec.Method, want)})
		}
	}
	if len(problems) > 0 {
		return nil, &InvalidRecordsError{Path: path, Problems: problems}
	}
	return records, nil
}

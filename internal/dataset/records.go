package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/promptlift/internal/models"
)

// ErrorSeparator splits the errors column of a CSV record file.
const ErrorSeparator = "|"

// CSVHeader is the column order written by promptlift and expected by DecodeRows.
var CSVHeader = []string{"task_id", "task_type", "start_time", "end_time", "success", "iterations", "tokens_used", "errors", "method"}

// Problem is one reason a record was rejected. Index is 0-based; -1 means the
// problem concerns the whole file.
type Problem struct {
	Index   int
	Message string
}

func (p Problem) String() string {
	if p.Index < 0 {
		return p.Message
	}
	return fmt.Sprintf("record %d: %s", p.Index, p.Message)
}

// InvalidRecordsError lists every rejected record of a file.
type InvalidRecordsError struct {
	Path     string
	Problems []Problem
}

func (e *InvalidRecordsError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.String())
	}
	src := e.Path
	if src == "" {
		src = "input"
	}
	return fmt.Sprintf("%s: %d invalid record(s): %s", src, len(e.Problems), strings.Join(msgs, "; "))
}

func (e *InvalidRecordsError) Unwrap() error {
	return models.ErrInvalidRecord
}

// DecodeRows converts CSV rows into task records. Values are decoded weakly,
// so "true"/"1" become booleans and "12.5" becomes a float; the errors column
// is split on ErrorSeparator.
func DecodeRows(rows []Row) ([]models.TaskRecord, error) {
	records := make([]models.TaskRecord, 0, len(rows))
	var problems []Problem
	for i, row := range rows {
		var rec models.TaskRecord
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(ErrorSeparator),
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			Result:           &rec,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(map[string]string(row)); err != nil {
			problems = append(problems, Problem{Index: i, Message: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	if len(problems) > 0 {
		return nil, &InvalidRecordsError{Problems: problems}
	}
	return records, nil
}

// Check validates the invariants of every record and returns the violations.
func Check(records []models.TaskRecord) []Problem {
	var problems []Problem
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			problems = append(problems, Problem{Index: i, Message: strings.TrimPrefix(err.Error(), models.ErrInvalidRecord.Error()+": ")})
		}
	}
	return problems
}

func checked(path string, records []models.TaskRecord) ([]models.TaskRecord, error) {
	if problems := Check(records); len(problems) > 0 {
		return nil, &InvalidRecordsError{Path: path, Problems: problems}
	}
	return records, nil
}

func withPath(path string, err error) error {
	var ire *InvalidRecordsError
	if errors.As(err, &ire) {
		ire.Path = path
		return ire
	}
	return fmt.Errorf("%s: %w", path, err)
}

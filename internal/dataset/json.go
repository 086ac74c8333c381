package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/promptlift/internal/models"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 4 << 20

// DecodeJSON reads a JSON array of records, validating every element against
// the record schema before decoding it.
func DecodeJSON(r io.Reader) ([]models.TaskRecord, error) {
	doc, err := jsonschema.UnmarshalJSON(r)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array of records, got %T", doc)
	}

	var problems []Problem
	for i, item := range items {
		for _, msg := range ValidateRecord(item) {
			problems = append(problems, Problem{Index: i, Message: msg})
		}
	}
	if len(problems) > 0 {
		return nil, &InvalidRecordsError{Problems: problems}
	}

	records := make([]models.TaskRecord, 0, len(items))
	for i, item := range items {
		rec, err := decodeValue(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeJSONL reads one JSON record per line. Blank lines are skipped; record
// indices count non-blank lines only.
func DecodeJSONL(r io.Reader) ([]models.TaskRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		records  []models.TaskRecord
		problems []Problem
		index    int
	)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		i := index
		index++

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(line))
		if err != nil {
			problems = append(problems, Problem{Index: i, Message: fmt.Sprintf("parse: %v", err)})
			continue
		}
		if msgs := ValidateRecord(doc); len(msgs) > 0 {
			for _, msg := range msgs {
				problems = append(problems, Problem{Index: i, Message: msg})
			}
			continue
		}
		var rec models.TaskRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			problems = append(problems, Problem{Index: i, Message: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(problems) > 0 {
		return nil, &InvalidRecordsError{Problems: problems}
	}
	return records, nil
}

func decodeValue(v any) (models.TaskRecord, error) {
	var rec models.TaskRecord
	data, err := json.Marshal(v)
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal(data, &rec)
	return rec, err
}

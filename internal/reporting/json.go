package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spboyer/promptlift/internal/models"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *models.ComparisonReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadJSON loads a report previously written by WriteJSON.
func ReadJSON(path string) (*models.ComparisonReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r models.ComparisonReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}

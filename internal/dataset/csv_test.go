package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		wantRows int
		wantCols int
		wantErr  string
	}{
		{
			name:     "happy path 3 rows 3 columns",
			csv:      "task_id,task_type,method\nb-1,docs,manual\nb-2,docs,manual\ne-1,docs,generated\n",
			wantRows: 3,
			wantCols: 3,
		},
		{
			name:     "single row",
			csv:      "task_id,method\nonly-one,manual\n",
			wantRows: 1,
			wantCols: 2,
		},
		{
			name:     "empty CSV headers only",
			csv:      "task_id,task_type,method\n",
			wantRows: 0,
			wantCols: 0,
		},
		{
			name:    "mismatched column count",
			csv:     "task_id,method\nok,manual\nbad\n",
			wantErr: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeCSV(t, dir, "test.csv", tt.csv)

			rows, err := LoadCSV(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
			if tt.wantRows > 0 {
				assert.Len(t, rows[0], tt.wantCols)
			}
		})
	}
}

func TestLoadCSV_HappyPathValues(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "task_id,task_type,errors\nb-1,debugging,lint|type\nb-2, code_review,\n")

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "b-1", rows[0]["task_id"])
	assert.Equal(t, "debugging", rows[0]["task_type"])
	assert.Equal(t, "lint|type", rows[0]["errors"])

	assert.Equal(t, "b-2", rows[1]["task_id"])
	assert.Equal(t, "code_review", rows[1]["task_type"], "leading space is trimmed")
	assert.Equal(t, "", rows[1]["errors"])
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/path/data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open")
}

func TestLoadCSV_Empty(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "empty.csv", "")
	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

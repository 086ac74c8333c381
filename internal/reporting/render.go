// Package reporting renders comparison reports for people and tools: JSON,
// aligned tables, Markdown, HTML, JUnit XML and Prometheus textfiles.
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/spboyer/promptlift/internal/models"
)

// Format selects a report rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported rendering.
var Formats = []Format{FormatJSON, FormatTable, FormatMarkdown, FormatHTML}

// ParseFormat accepts a format name case-insensitively; "md" is an alias of markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTable, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown report format %q: must be json, table, markdown or html", s)
}

// Render writes r in format f.
func Render(w io.Writer, f Format, r *models.ComparisonReport) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatTable:
		return WriteTable(w, r)
	case FormatMarkdown:
		return RenderMarkdown(w, r)
	case FormatHTML:
		return RenderHTML(w, r)
	}
	return fmt.Errorf("unknown report format %q", f)
}

package searchperf

import (
	"fmt"
	"strings"
)

// Logical column names every export must carry, matched case-insensitively.
const (
	ColumnQuery       = "query"
	ColumnPosition    = "position"
	ColumnCTR         = "ctr"
	ColumnClicks      = "clicks"
	ColumnImpressions = "impressions"
)

// RequiredColumns is the resolution order used when reporting missing columns.
var RequiredColumns = []string{ColumnQuery, ColumnPosition, ColumnCTR, ColumnClicks, ColumnImpressions}

// Columns maps each logical column to the header actually present in the file.
type Columns struct {
	Query       string
	Position    string
	CTR         string
	Clicks      string
	Impressions string
}

// SchemaError reports logical columns that could not be found in the headers.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ResolveColumns finds the first header matching each required column.
func ResolveColumns(headers []string) (Columns, error) {
	found := make(map[string]string, len(RequiredColumns))
	for _, header := range headers {
		name := strings.ToLower(header)
		if _, seen := found[name]; !seen {
			found[name] = header
		}
	}

	var missing []string
	lookup := func(name string) string {
		header, ok := found[name]
		if !ok {
			missing = append(missing, name)
		}
		return header
	}

	cols := Columns{
		Query:       lookup(ColumnQuery),
		Position:    lookup(ColumnPosition),
		CTR:         lookup(ColumnCTR),
		Clicks:      lookup(ColumnClicks),
		Impressions: lookup(ColumnImpressions),
	}
	if len(missing) > 0 {
		return Columns{}, &SchemaError{Missing: missing}
	}
	return cols, nil
}

// resolveColumn finds a single logical column; used by audits that need only one field.
func resolveColumn(headers []string, name string) (string, error) {
	for _, header := range headers {
		if strings.ToLower(header) == name {
			return header, nil
		}
	}
	return "", &SchemaError{Missing: []string{name}}
}

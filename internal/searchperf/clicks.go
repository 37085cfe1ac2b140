package searchperf

import (
	"strconv"
	"strings"
)

// ClickStats is an audit of the clicks column of one export.
type ClickStats struct {
	TotalRows  int      `json:"totalRows" yaml:"totalRows"`
	Gte10      int      `json:"gte10" yaml:"gte10"`
	Gt10       int      `json:"gt10" yaml:"gt10"`
	Unparsable []string `json:"unparsable,omitempty" yaml:"unparsable,omitempty"`
}

// CountClicks counts keywords by click volume. Unlike ParseCount it is strict:
// a cell that is not a whole number once separators are removed is listed in
// Unparsable instead of being read as 0.
func CountClicks(headers []string, rows []RawRow) (ClickStats, error) {
	column, err := resolveColumn(headers, ColumnClicks)
	if err != nil {
		return ClickStats{}, err
	}

	var stats ClickStats
	for _, row := range rows {
		stats.TotalRows++

		raw := row[column]
		cleaned := strings.ReplaceAll(raw, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		clicks, err := strconv.Atoi(strings.TrimSpace(cleaned))
		if err != nil {
			stats.Unparsable = append(stats.Unparsable, raw)
			continue
		}
		if clicks >= ClicksThreshold {
			stats.Gte10++
		}
		if clicks > ClicksThreshold {
			stats.Gt10++
		}
	}
	return stats, nil
}

package searchperf

// MinImpressions is the exclusive lower bound a row needs to feed the chart.
const MinImpressions = 10

// NormalizeRow parses one raw record using the resolved columns.
// Missing cells read as empty strings and therefore as 0.
func NormalizeRow(row RawRow, cols Columns) NormalizedRow {
	return NormalizedRow{
		Query:       row[cols.Query],
		Position:    ParsePosition(row[cols.Position]),
		CTR:         ParseCTR(row[cols.CTR]),
		Clicks:      ParseCount(row[cols.Clicks]),
		Impressions: ParseCount(row[cols.Impressions]),
	}
}

// NormalizeRows parses every row without filtering.
func NormalizeRows(rows []RawRow, cols Columns) []NormalizedRow {
	normalized := make([]NormalizedRow, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, NormalizeRow(row, cols))
	}
	return normalized
}

// Retained reports whether the row takes part in position aggregation.
func (r NormalizedRow) Retained() bool {
	return r.Position > 0 && r.Impressions > MinImpressions
}

package searchperf

import (
	"fmt"
	"math"
)

// Chart positions, inclusive.
const (
	FirstPosition = 1
	LastPosition  = 10
)

// ClicksThreshold is the click count a keyword needs to be counted in KeywordsGte10.
const ClicksThreshold = 10

// Process resolves the columns of one export and summarizes it. A SchemaError
// aborts the whole dataset.
func Process(headers []string, rows []RawRow) (PeriodSummary, error) {
	cols, err := ResolveColumns(headers)
	if err != nil {
		return PeriodSummary{}, err
	}
	return Summarize(rows, cols), nil
}

// Summarize normalizes and aggregates one dataset.
func Summarize(rows []RawRow, cols Columns) PeriodSummary {
	return Aggregate(NormalizeRows(rows, cols), rows, cols)
}

// Aggregate builds the period summary. Chart data is an impressions-weighted
// CTR over retained rows, while the keyword totals look at every raw row.
func Aggregate(normalized []NormalizedRow, raw []RawRow, cols Columns) PeriodSummary {
	buckets := make(map[int]*PositionBucket)
	retained := 0
	for _, row := range normalized {
		if !row.Retained() {
			continue
		}
		retained++

		bucket, ok := buckets[row.Position]
		if !ok {
			bucket = &PositionBucket{}
			buckets[row.Position] = bucket
		}
		bucket.SumClicks += row.Clicks
		bucket.SumImpressions += row.Impressions
		bucket.Count++
	}

	chartData := make([]ChartPoint, 0, LastPosition-FirstPosition+1)
	for position := FirstPosition; position <= LastPosition; position++ {
		chartData = append(chartData, ChartPoint{
			Position: position,
			AvgCTR:   weightedCTR(buckets[position]),
		})
	}

	keywordsGte10 := 0
	for _, row := range raw {
		if ParseCount(row[cols.Clicks]) >= ClicksThreshold {
			keywordsGte10++
		}
	}

	return PeriodSummary{
		ChartData:     chartData,
		TotalQueries:  retained,
		TotalKeywords: len(raw),
		KeywordsGte10: keywordsGte10,
	}
}

func weightedCTR(bucket *PositionBucket) float64 {
	if bucket == nil || bucket.SumImpressions <= 0 {
		return 0
	}
	return float64(bucket.SumClicks) / float64(bucket.SumImpressions) * 100
}

// Validate checks that a summary has the shape Aggregate produces. Used on
// summaries that come back from storage.
func (s PeriodSummary) Validate() error {
	if len(s.ChartData) != LastPosition-FirstPosition+1 {
		return fmt.Errorf("chart data has %d positions, want %d", len(s.ChartData), LastPosition-FirstPosition+1)
	}
	for i, point := range s.ChartData {
		if point.Position != FirstPosition+i {
			return fmt.Errorf("chart data entry %d has position %d", i, point.Position)
		}
		if math.IsNaN(point.AvgCTR) || math.IsInf(point.AvgCTR, 0) || point.AvgCTR < 0 {
			return fmt.Errorf("position %d has invalid CTR %v", point.Position, point.AvgCTR)
		}
	}
	if s.TotalQueries < 0 || s.TotalKeywords < 0 || s.KeywordsGte10 < 0 {
		return fmt.Errorf("negative totals")
	}
	return nil
}

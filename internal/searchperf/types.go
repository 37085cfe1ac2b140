// Package searchperf turns search-performance exports into position-indexed CTR summaries.
package searchperf

import (
	"fmt"
	"strings"
)

// Period identifies one of the two datasets being compared.
type Period string

const (
	PeriodPre  Period = "pre"
	PeriodPost Period = "post"
)

// Periods lists both periods in presentation order.
var Periods = []Period{PeriodPre, PeriodPost}

// ParsePeriod validates a period name coming from a route or a flag.
func ParsePeriod(value string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(value))) {
	case PeriodPre:
		return PeriodPre, nil
	case PeriodPost:
		return PeriodPost, nil
	}
	return "", fmt.Errorf("invalid period %q: expected %q or %q", value, PeriodPre, PeriodPost)
}

// Title returns the capitalized period name used in chart labels.
func (p Period) Title() string {
	switch p {
	case PeriodPre:
		return "Pre"
	case PeriodPost:
		return "Post"
	}
	return string(p)
}

// RawRow is one record of an uploaded export keyed by its header names.
type RawRow map[string]string

// NormalizedRow is a RawRow with its numeric fields parsed.
type NormalizedRow struct {
	Query       string  `json:"query"`
	Position    int     `json:"position"`
	CTR         float64 `json:"ctr"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
}

// PositionBucket accumulates the retained rows that share a position.
type PositionBucket struct {
	SumClicks      int
	SumImpressions int
	Count          int
}

// ChartPoint is the weighted CTR for one position.
type ChartPoint struct {
	Position int     `json:"position" yaml:"position"`
	AvgCTR   float64 `json:"avgCtr" yaml:"avgCtr"`
}

// PeriodSummary is the aggregated result for one period. The JSON layout is the
// persisted format and must stay stable.
type PeriodSummary struct {
	ChartData     []ChartPoint `json:"chartData" yaml:"chartData"`
	TotalQueries  int          `json:"totalQueries" yaml:"totalQueries"`
	TotalKeywords int          `json:"totalKeywords" yaml:"totalKeywords"`
	KeywordsGte10 int          `json:"keywordsGte10" yaml:"keywordsGte10"`
}

// AvgCTR returns the weighted CTR recorded for position, or 0 when absent.
func (s PeriodSummary) AvgCTR(position int) float64 {
	for _, point := range s.ChartData {
		if point.Position == position {
			return point.AvgCTR
		}
	}
	return 0
}

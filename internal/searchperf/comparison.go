package searchperf

// PositionChange is the pre/post movement of the weighted CTR at one position.
type PositionChange struct {
	Position      int     `json:"position" yaml:"position"`
	PreAvgCTR     float64 `json:"preAvgCtr" yaml:"preAvgCtr"`
	PostAvgCTR    float64 `json:"postAvgCtr" yaml:"postAvgCtr"`
	Delta         float64 `json:"delta" yaml:"delta"`
	PercentChange float64 `json:"percentChange" yaml:"percentChange"`
	Improved      bool    `json:"improved" yaml:"improved"`
}

// PeriodTotals carries the scalar counts shown next to the charts.
type PeriodTotals struct {
	TotalQueries  int `json:"totalQueries" yaml:"totalQueries"`
	TotalKeywords int `json:"totalKeywords" yaml:"totalKeywords"`
	KeywordsGte10 int `json:"keywordsGte10" yaml:"keywordsGte10"`
}

// Comparison holds the per-position changes between two periods.
type Comparison struct {
	Positions []PositionChange `json:"positions" yaml:"positions"`
	Pre       PeriodTotals     `json:"pre" yaml:"pre"`
	Post      PeriodTotals     `json:"post" yaml:"post"`
}

// Totals extracts the scalar counts of a summary.
func (s PeriodSummary) Totals() PeriodTotals {
	return PeriodTotals{
		TotalQueries:  s.TotalQueries,
		TotalKeywords: s.TotalKeywords,
		KeywordsGte10: s.KeywordsGte10,
	}
}

// Compare derives the change for every chart position. A position whose pre
// CTR is 0 reports a 0 percent change rather than dividing by zero.
func Compare(pre, post PeriodSummary) Comparison {
	percentageChange := func(current, previous float64) float64 {
		if previous == 0 {
			return 0
		}
		return ((current - previous) / previous) * 100
	}

	positions := make([]PositionChange, 0, LastPosition-FirstPosition+1)
	for position := FirstPosition; position <= LastPosition; position++ {
		preCTR := pre.AvgCTR(position)
		postCTR := post.AvgCTR(position)
		delta := postCTR - preCTR

		positions = append(positions, PositionChange{
			Position:      position,
			PreAvgCTR:     preCTR,
			PostAvgCTR:    postCTR,
			Delta:         delta,
			PercentChange: percentageChange(postCTR, preCTR),
			Improved:      delta >= 0,
		})
	}

	return Comparison{
		Positions: positions,
		Pre:       pre.Totals(),
		Post:      post.Totals(),
	}
}

package searchperf

import "fmt"

// Series is one dataset of a chart.
type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Projection is the only view of a summary handed to chart renderers.
type Projection struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// PeriodProjection renders the bar chart of a single period.
func PeriodProjection(period Period, summary PeriodSummary) Projection {
	labels := make([]string, 0, len(summary.ChartData))
	data := make([]float64, 0, len(summary.ChartData))
	for _, point := range summary.ChartData {
		labels = append(labels, fmt.Sprintf("Pos %d", point.Position))
		data = append(data, point.AvgCTR)
	}
	return Projection{
		Labels: labels,
		Series: []Series{{Label: fmt.Sprintf("CTR %s (%%)", period.Title()), Data: data}},
	}
}

// ComparisonProjection renders both periods side by side on the pre period's positions.
func ComparisonProjection(pre, post PeriodSummary) Projection {
	labels := make([]string, 0, len(pre.ChartData))
	preData := make([]float64, 0, len(pre.ChartData))
	postData := make([]float64, 0, len(pre.ChartData))
	for _, point := range pre.ChartData {
		labels = append(labels, fmt.Sprintf("Posición %d", point.Position))
		preData = append(preData, point.AvgCTR)
		postData = append(postData, post.AvgCTR(point.Position))
	}
	return Projection{
		Labels: labels,
		Series: []Series{
			{Label: "Pre AI Overviews", Data: preData},
			{Label: "Post AI Overviews", Data: postData},
		},
	}
}

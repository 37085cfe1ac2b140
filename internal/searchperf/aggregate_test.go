package searchperf_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrcompare/internal/searchperf"
)

func summarize(t *testing.T, rows ...searchperf.RawRow) searchperf.PeriodSummary {
	t.Helper()
	summary, err := searchperf.Process(exportHeaders, rows)
	require.NoError(t, err)
	return summary
}

func TestAggregate(t *testing.T) {
	t.Run("always emits ten ordered positions", func(t *testing.T) {
		for _, rows := range [][]searchperf.RawRow{
			nil,
			{exportRow("a", "5", "100", "5%", "4")},
			{exportRow("a", "5", "100", "5%", "40"), exportRow("b", "1", "100", "1%", "2,2")},
		} {
			summary := summarize(t, rows...)
			require.Len(t, summary.ChartData, 10)
			for i, point := range summary.ChartData {
				assert.Equal(t, i+1, point.Position)
			}
			assert.NoError(t, summary.Validate())
		}
	})

	t.Run("weights CTR by impressions", func(t *testing.T) {
		summary := summarize(t,
			exportRow("a", "5", "100", "5%", "1"),
			exportRow("b", "15", "200", "7,5%", "1,9"),
		)
		assert.InDelta(t, 20.0/300.0*100, summary.AvgCTR(1), 1e-12)
		assert.NotEqual(t, 6.25, summary.AvgCTR(1))
	})

	t.Run("ignores the CTR column for the average", func(t *testing.T) {
		summary := summarize(t, exportRow("a", "10", "100", "99%", "2"))
		assert.InDelta(t, 10.0, summary.AvgCTR(2), 1e-12)
	})

	t.Run("applies a strict impressions boundary", func(t *testing.T) {
		summary := summarize(t,
			exportRow("ten", "5", "10", "", "1"),
			exportRow("eleven", "1", "11", "", "2"),
		)
		assert.Equal(t, 1, summary.TotalQueries)
		assert.Zero(t, summary.AvgCTR(1))
		assert.InDelta(t, 1.0/11.0*100, summary.AvgCTR(2), 1e-12)
	})

	t.Run("positions outside the chart count as queries but are not charted", func(t *testing.T) {
		summary := summarize(t,
			exportRow("deep", "50", "1000", "", "11"),
			exportRow("top", "50", "1000", "", "1"),
		)
		assert.Equal(t, 2, summary.TotalQueries)
		assert.InDelta(t, 5.0, summary.AvgCTR(1), 1e-12)
		for position := 2; position <= 10; position++ {
			assert.Zero(t, summary.AvgCTR(position))
		}
	})

	t.Run("keyword totals ignore the retention filter", func(t *testing.T) {
		summary := summarize(t,
			exportRow("kept", "12", "500", "", "1"),
			exportRow("few impressions", "10", "10", "", "1"),
			exportRow("no position", "1.500", "9.000", "", ""),
			exportRow("few clicks", "9", "100", "", "3"),
			exportRow("garbage", "lots", "", "", ""),
		)
		assert.Equal(t, 5, summary.TotalKeywords)
		assert.Equal(t, 3, summary.KeywordsGte10)
		assert.Equal(t, 2, summary.TotalQueries)
	})

	t.Run("empty dataset yields an all-zero summary", func(t *testing.T) {
		summary := summarize(t)
		assert.Zero(t, summary.TotalQueries)
		assert.Zero(t, summary.TotalKeywords)
		assert.Zero(t, summary.KeywordsGte10)
		for _, point := range summary.ChartData {
			assert.Zero(t, point.AvgCTR)
		}
	})

	t.Run("bucket with zero impressions is not possible after filtering", func(t *testing.T) {
		normalized := []searchperf.NormalizedRow{{Position: 4, Clicks: 3, Impressions: 0}}
		cols, err := searchperf.ResolveColumns(exportHeaders)
		require.NoError(t, err)

		summary := searchperf.Aggregate(normalized, nil, cols)
		assert.Zero(t, summary.AvgCTR(4))
		assert.Zero(t, summary.TotalQueries)
	})

	t.Run("re-ingesting the same rows is bit-identical", func(t *testing.T) {
		var rows []searchperf.RawRow
		for i := 0; i < 200; i++ {
			rows = append(rows, exportRow(
				fmt.Sprintf("q%d", i),
				fmt.Sprintf("%d", i%37),
				fmt.Sprintf("%d", 10+i*7),
				"",
				fmt.Sprintf("%d,%d", 1+i%12, i%10),
			))
		}
		assert.Equal(t, summarize(t, rows...), summarize(t, rows...))
	})
}

func TestProcessRejectsMissingColumns(t *testing.T) {
	_, err := searchperf.Process([]string{"Query", "Position", "CTR", "Clicks"}, []searchperf.RawRow{{"Query": "a"}})

	var schemaErr *searchperf.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"impressions"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "impressions")
}

func TestPeriodSummaryValidate(t *testing.T) {
	valid := summarize(t, exportRow("a", "5", "100", "", "1"))
	require.NoError(t, valid.Validate())

	t.Run("rejects missing positions", func(t *testing.T) {
		broken := valid
		broken.ChartData = valid.ChartData[:9]
		assert.Error(t, broken.Validate())
	})

	t.Run("rejects reordered positions", func(t *testing.T) {
		broken := valid
		broken.ChartData = append([]searchperf.ChartPoint(nil), valid.ChartData...)
		broken.ChartData[0], broken.ChartData[1] = broken.ChartData[1], broken.ChartData[0]
		assert.Error(t, broken.Validate())
	})

	t.Run("rejects negative totals", func(t *testing.T) {
		broken := valid
		broken.TotalKeywords = -1
		assert.Error(t, broken.Validate())
	})

	t.Run("rejects the zero value", func(t *testing.T) {
		assert.Error(t, searchperf.PeriodSummary{}.Validate())
	})
}

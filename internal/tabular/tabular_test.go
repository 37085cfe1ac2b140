package tabular_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/tabular"
)

func TestParse(t *testing.T) {
	t.Run("reads comma separated exports", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("Query,Clicks,Impressions,CTR,Position\nshoes,\"1,234\",45000,\"2,7%\",\"3,4\"\n"))
		require.NoError(t, err)
		assert.Equal(t, ',', table.Delimiter)
		assert.Equal(t, []string{"Query", "Clicks", "Impressions", "CTR", "Position"}, table.Headers)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, searchperf.RawRow{
			"Query": "shoes", "Clicks": "1,234", "Impressions": "45000", "CTR": "2,7%", "Position": "3,4",
		}, table.Rows[0])
	})

	t.Run("sniffs semicolon exports from european locales", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("Query;Clicks;Impressions;CTR;Position\nzapatos;1.234;45.000;2,7%;3,4\n"))
		require.NoError(t, err)
		assert.Equal(t, ';', table.Delimiter)
		assert.Equal(t, "1.234", table.Rows[0]["Clicks"])
		assert.Equal(t, "3,4", table.Rows[0]["Position"])
	})

	t.Run("sniffs tab separated exports", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("Query\tClicks\nshoes\t12\n"))
		require.NoError(t, err)
		assert.Equal(t, '\t', table.Delimiter)
		assert.Equal(t, "12", table.Rows[0]["Clicks"])
	})

	t.Run("strips the byte order mark", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("\ufeffQuery,Clicks\nshoes,1\n"))
		require.NoError(t, err)
		assert.Equal(t, "Query", table.Headers[0])
	})

	t.Run("skips blank lines and pads short rows", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("Query,Clicks,Impressions\n\nshoes,4\n\nboots,5,200,extra\n"))
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "", table.Rows[0]["Impressions"])
		assert.Equal(t, "200", table.Rows[1]["Impressions"])
		assert.Len(t, table.Rows[1], 3)
	})

	t.Run("keeps the first of duplicated headers", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("Clicks,Clicks\n1,2\n"))
		require.NoError(t, err)
		assert.Equal(t, "1", table.Rows[0]["Clicks"])
	})

	t.Run("a header without data rows is a valid empty table", func(t *testing.T) {
		table, err := tabular.Parse(strings.NewReader("Query,Clicks\n"))
		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})
}

func TestParseRejectsNonTabularInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "whitespace only", input: "  \n\n "},
		{name: "binary content", input: "PK\x03\x04\x00\x00binary"},
		{name: "invalid utf-8", input: "Query\n\xff\xfe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tabular.Parse(strings.NewReader(tt.input))
			var formatErr *tabular.SourceFormatError
			require.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("Query,Clicks\nshoes,3\n"), 0o600))

	table, err := tabular.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	_, err = tabular.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

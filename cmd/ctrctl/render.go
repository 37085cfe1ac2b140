package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"ctrcompare/internal/searchperf"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var printer = message.NewPrinter(language.English)

func validFormat(format string) bool {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

func renderComparison(w io.Writer, format string, comparison searchperf.Comparison) error {
	switch format {
	case formatJSON:
		return renderJSON(w, comparison)
	case formatYAML:
		return renderYAML(w, comparison)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Position\tPre CTR\tPost CTR\tDelta\tChange\t\t")
	for _, change := range comparison.Positions {
		trend := "▼"
		if change.Improved {
			trend = "▲"
		}
		printer.Fprintf(tw, "%d\t%.2f%%\t%.2f%%\t%+.2f\t%+.1f%%\t%s\t\n",
			change.Position, change.PreAvgCTR, change.PostAvgCTR, change.Delta, change.PercentChange, trend)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tPre\tPost\t")
	for _, row := range []struct {
		label     string
		pre, post int
	}{
		{"Queries (position 1+, >10 impressions)", comparison.Pre.TotalQueries, comparison.Post.TotalQueries},
		{"Keywords", comparison.Pre.TotalKeywords, comparison.Post.TotalKeywords},
		{"Keywords with 10+ clicks", comparison.Pre.KeywordsGte10, comparison.Post.KeywordsGte10},
	} {
		printer.Fprintf(tw, "%s\t%d\t%d\t\n", row.label, row.pre, row.post)
	}
	return tw.Flush()
}

func renderClickStats(w io.Writer, stats searchperf.ClickStats) error {
	printer.Fprintf(w, "Total rows: %d\n", stats.TotalRows)
	printer.Fprintf(w, "Keywords with >= 10 clicks: %d\n", stats.Gte10)
	printer.Fprintf(w, "Keywords with > 10 clicks: %d\n", stats.Gt10)
	if len(stats.Unparsable) > 0 {
		printer.Fprintf(w, "Unparsable click values: %d\n", len(stats.Unparsable))
		for _, value := range stats.Unparsable {
			fmt.Fprintf(w, "  %q\n", value)
		}
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

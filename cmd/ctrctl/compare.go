package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"ctrcompare/internal"
	"ctrcompare/internal/pkg/async"
	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/session"
	"ctrcompare/internal/tabular"
)

// CompareCommand ingests a pre and a post export and prints the comparison
type CompareCommand struct{}

func (c *CompareCommand) Name() string { return "compare" }
func (c *CompareCommand) Description() string {
	return "Compares two exports: compare [-format table|json|yaml] [-save] <pre.csv> <post.csv>"
}

func (c *CompareCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	format := fs.String("format", formatTable, "output format: table, json or yaml")
	save := fs.Bool("save", false, "persist the comparison so the server restores it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: %s [-format table|json|yaml] [-save] <pre.csv> <post.csv>", c.Name())
	}
	if !validFormat(*format) {
		return fmt.Errorf("unknown format %q", *format)
	}

	if err := ingestFiles(ctx, app.Session, map[searchperf.Period]string{
		searchperf.PeriodPre:  fs.Arg(0),
		searchperf.PeriodPost: fs.Arg(1),
	}); err != nil {
		return err
	}

	comparison, err := app.Session.Comparison()
	if err != nil {
		return err
	}

	if *save {
		if err := app.Session.Persist(); err != nil {
			return fmt.Errorf("failed to save comparison: %w", err)
		}
	}

	return renderComparison(os.Stdout, *format, comparison)
}

// ingestFiles parses each export on its own worker and loads it into cs.
func ingestFiles(ctx context.Context, cs *session.ComparisonSession, files map[searchperf.Period]string) error {
	pool := async.NewPool[searchperf.PeriodSummary](len(files))

	tasks := make([]async.Task[searchperf.PeriodSummary], 0, len(files))
	for _, period := range searchperf.Periods {
		path, ok := files[period]
		if !ok {
			continue
		}
		tasks = append(tasks, async.Task[searchperf.PeriodSummary]{
			Name: string(period),
			Execute: func() (searchperf.PeriodSummary, error) {
				table, err := tabular.ReadFile(path)
				if err != nil {
					return searchperf.PeriodSummary{}, err
				}
				return cs.IngestPeriod(period, table)
			},
		})
	}

	results := pool.Execute(ctx, tasks)
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error
	for _, task := range tasks {
		if result := results[task.Name]; result.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", task.Name, result.Err))
		}
	}
	return errors.Join(errs...)
}

// ShowCommand prints the comparison restored from the store
type ShowCommand struct{}

func (c *ShowCommand) Name() string        { return "show" }
func (c *ShowCommand) Description() string { return "Shows the saved comparison: show [-format table|json|yaml]" }

func (c *ShowCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	format := fs.String("format", formatTable, "output format: table, json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !validFormat(*format) {
		return fmt.Errorf("unknown format %q", *format)
	}

	app.RestoreSession()

	comparison, err := app.Session.Comparison()
	if errors.Is(err, session.ErrComparisonIncomplete) {
		fmt.Println("No saved comparison. Run `ctrctl compare -save <pre.csv> <post.csv>` first.")
		return nil
	}
	if err != nil {
		return err
	}
	return renderComparison(os.Stdout, *format, comparison)
}

// CountClicksCommand audits the clicks column of one export
type CountClicksCommand struct{}

func (c *CountClicksCommand) Name() string { return "count-clicks" }
func (c *CountClicksCommand) Description() string {
	return "Counts keywords with at least 10 clicks: count-clicks <file.csv>"
}

func (c *CountClicksCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <file.csv>", c.Name())
	}

	table, err := tabular.ReadFile(args[0])
	if err != nil {
		return err
	}
	stats, err := searchperf.CountClicks(table.Headers, table.Rows)
	if err != nil {
		return err
	}
	return renderClickStats(os.Stdout, stats)
}

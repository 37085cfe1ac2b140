// Package session holds the pre/post summaries of one comparison and mirrors
// them to a Store so the last comparison survives a restart.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/store"
	"ctrcompare/internal/tabular"
)

// Storage keys, one JSON encoded PeriodSummary each.
const (
	PreDataKey  = "ctr_pre_data"
	PostDataKey = "ctr_post_data"
)

// ErrComparisonIncomplete is returned while either period has no summary.
var ErrComparisonIncomplete = errors.New("comparison requires both pre and post data")

// StorageKey returns the key a period's summary is persisted under.
func StorageKey(period searchperf.Period) string {
	if period == searchperf.PeriodPost {
		return PostDataKey
	}
	return PreDataKey
}

// ComparisonSession owns the summaries of the two periods. Ingesting one
// period never touches the other.
type ComparisonSession struct {
	mu sync.RWMutex
	// persistMu orders Persist and Reset so a save never lands after a clear.
	persistMu sync.Mutex
	pre    *searchperf.PeriodSummary
	post   *searchperf.PeriodSummary
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) *ComparisonSession {
	return &ComparisonSession{store: s, logger: logger}
}

// IngestPeriod summarizes the table and replaces the period's summary. On
// error the previous summary is left in place.
func (cs *ComparisonSession) IngestPeriod(period searchperf.Period, table *tabular.Table) (searchperf.PeriodSummary, error) {
	if table == nil {
		return searchperf.PeriodSummary{}, &tabular.SourceFormatError{Reason: "no table"}
	}

	summary, err := searchperf.Process(table.Headers, table.Rows)
	if err != nil {
		cs.logger.Warn("Rejected period data",
			slog.String("period", string(period)),
			slog.Any("error", err))
		return searchperf.PeriodSummary{}, err
	}

	cs.mu.Lock()
	cs.set(period, &summary)
	cs.mu.Unlock()

	cs.logger.Info("Period data ingested",
		slog.String("period", string(period)),
		slog.Int("total_keywords", summary.TotalKeywords),
		slog.Int("total_queries", summary.TotalQueries))
	return summary, nil
}

// Summary returns a copy of the period's summary, if loaded.
func (cs *ComparisonSession) Summary(period searchperf.Period) (searchperf.PeriodSummary, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	current := cs.get(period)
	if current == nil {
		return searchperf.PeriodSummary{}, false
	}
	return cloneSummary(*current), true
}

// Ready reports whether both periods are loaded.
func (cs *ComparisonSession) Ready() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.pre != nil && cs.post != nil
}

// Summaries returns both summaries or ErrComparisonIncomplete.
func (cs *ComparisonSession) Summaries() (pre, post searchperf.PeriodSummary, err error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.pre == nil || cs.post == nil {
		return pre, post, ErrComparisonIncomplete
	}
	return cloneSummary(*cs.pre), cloneSummary(*cs.post), nil
}

func (cs *ComparisonSession) Comparison() (searchperf.Comparison, error) {
	pre, post, err := cs.Summaries()
	if err != nil {
		return searchperf.Comparison{}, err
	}
	return searchperf.Compare(pre, post), nil
}

// Persist mirrors both summaries to the store in one write. Nothing is
// written unless both periods are loaded.
func (cs *ComparisonSession) Persist() error {
	cs.persistMu.Lock()
	defer cs.persistMu.Unlock()

	pre, post, err := cs.Summaries()
	if err != nil {
		return err
	}

	values := make(map[string]string, 2)
	for key, summary := range map[string]searchperf.PeriodSummary{PreDataKey: pre, PostDataKey: post} {
		payload, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		values[key] = string(payload)
	}

	if err := cs.store.SaveAll(values); err != nil {
		cs.logger.Error("Failed to persist comparison", slog.Any("error", err))
		return fmt.Errorf("failed to persist comparison: %w", err)
	}

	cs.logger.Info("Comparison persisted")
	return nil
}

// Reset drops both summaries and clears both storage keys. Memory is
// cleared even when the store fails. A Persist already in flight finishes
// first and its keys are cleared here.
func (cs *ComparisonSession) Reset() error {
	cs.persistMu.Lock()
	defer cs.persistMu.Unlock()

	cs.mu.Lock()
	cs.pre = nil
	cs.post = nil
	cs.mu.Unlock()

	if err := cs.store.Clear(PreDataKey, PostDataKey); err != nil {
		cs.logger.Error("Failed to clear persisted comparison", slog.Any("error", err))
		return fmt.Errorf("failed to clear persisted comparison: %w", err)
	}

	cs.logger.Info("Comparison session reset")
	return nil
}

func (cs *ComparisonSession) get(period searchperf.Period) *searchperf.PeriodSummary {
	if period == searchperf.PeriodPost {
		return cs.post
	}
	return cs.pre
}

func (cs *ComparisonSession) set(period searchperf.Period, summary *searchperf.PeriodSummary) {
	if period == searchperf.PeriodPost {
		cs.post = summary
		return
	}
	cs.pre = summary
}

func cloneSummary(s searchperf.PeriodSummary) searchperf.PeriodSummary {
	s.ChartData = append([]searchperf.ChartPoint(nil), s.ChartData...)
	return s
}

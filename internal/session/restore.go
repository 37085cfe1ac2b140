package session

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/store"
)

// PersistedStateError means a stored summary could not be read back.
type PersistedStateError struct {
	Key string
	Err error
}

func (e *PersistedStateError) Error() string {
	return fmt.Sprintf("persisted state %s is unusable: %v", e.Key, e.Err)
}

func (e *PersistedStateError) Unwrap() error {
	return e.Err
}

// RestoreSession builds a session from the store, or reports false when
// there was nothing usable to restore.
func RestoreSession(s store.Store, logger *slog.Logger) (*ComparisonSession, bool) {
	cs := New(s, logger)
	if !cs.Restore() {
		return nil, false
	}
	return cs, true
}

// Restore loads the last comparison when both keys are present. If either
// value is unusable both keys are cleared and the session is left as is.
func (cs *ComparisonSession) Restore() bool {
	cs.persistMu.Lock()
	defer cs.persistMu.Unlock()

	pre, preErr := loadSummary(cs.store, PreDataKey)
	post, postErr := loadSummary(cs.store, PostDataKey)

	for _, err := range []error{preErr, postErr} {
		if err == nil {
			continue
		}
		cs.logger.Warn("Discarding persisted comparison", slog.Any("error", err))
		if clearErr := cs.store.Clear(PreDataKey, PostDataKey); clearErr != nil {
			cs.logger.Error("Failed to clear persisted comparison", slog.Any("error", clearErr))
		}
		return false
	}

	if pre == nil || post == nil {
		return false
	}

	cs.mu.Lock()
	cs.pre = pre
	cs.post = post
	cs.mu.Unlock()

	cs.logger.Info("Restored persisted comparison",
		slog.Int("pre_total_queries", pre.TotalQueries),
		slog.Int("post_total_queries", post.TotalQueries))
	return true
}

// loadSummary returns nil without error when the key is absent.
func loadSummary(s store.Store, key string) (*searchperf.PeriodSummary, error) {
	raw, ok, err := s.Load(key)
	if err != nil {
		return nil, &PersistedStateError{Key: key, Err: err}
	}
	if !ok {
		return nil, nil
	}

	var summary searchperf.PeriodSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, &PersistedStateError{Key: key, Err: err}
	}
	if err := summary.Validate(); err != nil {
		return nil, &PersistedStateError{Key: key, Err: err}
	}
	return &summary, nil
}

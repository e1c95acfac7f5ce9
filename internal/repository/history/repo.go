// Package history persists chat interactions to a capped Redis list. This is
// plumbing around the answer engine: the engine itself never reads history.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/db"
	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Entry is one recorded chat interaction.
type Entry struct {
	Query     string        `json:"query"`
	Response  string        `json:"response"`
	Source    domain.Source `json:"source"`
	Score     float64       `json:"score"`
	CreatedAt time.Time     `json:"created_at"`
}

// Repo stores entries newest-first under a single list key, trimmed to a
// fixed capacity.
type Repo struct {
	store      db.ListStore
	key        string
	maxEntries int64
	logger     *zap.Logger
}

// New creates a history repository. maxEntries <= 0 disables trimming.
func New(store db.ListStore, keyPrefix string, maxEntries int, logger *zap.Logger) *Repo {
	return &Repo{
		store:      store,
		key:        keyPrefix + "history",
		maxEntries: int64(maxEntries),
		logger:     logger,
	}
}

// Save appends an interaction and trims the list to capacity.
func (r *Repo) Save(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	if err := r.store.LPush(ctx, r.key, data); err != nil {
		return fmt.Errorf("push history entry: %w", err)
	}
	if r.maxEntries > 0 {
		if err := r.store.LTrim(ctx, r.key, 0, r.maxEntries-1); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first. Records that fail to
// decode are skipped with a warning rather than failing the whole read.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.store.LRange(ctx, r.key, 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		var e Entry
		if err := json.Unmarshal(row, &e); err != nil {
			r.logger.Warn("skipping corrupt history record", zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.store.LLen(ctx, r.key)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

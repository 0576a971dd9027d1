package core

// history.go exposes the import batch history and keeps it bounded.
//
// The pruner runs once at start and then on every interval tick until its
// context ends. A failed run is logged and retried on the next tick.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrHistoryUnsupported is returned when the store keeps no import history.
var ErrHistoryUnsupported = errors.New("import history not supported by this store")

// HistoryConfig controls import history retention. A zero Retention keeps
// batches forever.
type HistoryConfig struct {
	Retention time.Duration
	Interval  time.Duration // default: 24h
}

// RecentBatches returns up to limit import batches, newest first.
func (s *Service) RecentBatches(ctx context.Context, limit int) ([]ImportBatch, error) {
	h, ok := s.store.(BatchHistory)
	if !ok {
		return nil, ErrHistoryUnsupported
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return h.ListImportBatches(ctx, limit)
}

// RunHistoryPruner deletes import batches older than cfg.Retention until ctx
// is cancelled. It returns immediately when retention is disabled or the
// store keeps no history.
func (s *Service) RunHistoryPruner(ctx context.Context, cfg HistoryConfig) {
	h, ok := s.store.(BatchHistory)
	if !ok || cfg.Retention <= 0 {
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}

	slog.Info("import history pruner started",
		"retention", cfg.Retention.String(),
		"interval", cfg.Interval.String(),
	)

	s.pruneHistory(ctx, h, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("import history pruner stopped")
			return
		case <-ticker.C:
			s.pruneHistory(ctx, h, cfg.Retention)
		}
	}
}

func (s *Service) pruneHistory(ctx context.Context, h BatchHistory, retention time.Duration) {
	start := time.Now()
	removed, err := h.PruneImportBatches(ctx, s.now().Add(-retention))
	if err != nil {
		slog.Error("prune import history failed", "error", err)
		return
	}
	slog.Info("pruned import history",
		"batches_removed", removed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

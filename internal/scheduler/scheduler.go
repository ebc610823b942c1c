package scheduler

import (
	"context"
	"log/slog"
	"time"

	"genai_portfolio/internal/domain"
)

// Refresher reloads a cached content snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (*domain.RefreshStats, error)
}

const refreshTimeout = time.Minute

type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger
}

func NewScheduler(refresher Refresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// Start refreshes once immediately and then on every tick until ctx is
// cancelled. Failed refreshes are logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runRefresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runRefresh(ctx)
		}
	}
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	stats, err := s.refresher.Refresh(refreshCtx)
	if err != nil {
		s.logger.Error("content refresh failed", "error", err)
		return
	}
	s.logger.Debug("content refreshed",
		"posts", stats.Posts,
		"prompts", stats.Prompts,
		"use_cases", stats.UseCases,
		"duration", stats.Duration,
	)
}

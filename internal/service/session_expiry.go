package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/metrics"
)

// RunSessionExpiryMonitor deletes sessions idle longer than the configured TTL
// until ctx is cancelled. A non-positive TTL disables expiry.
func (s *Service) RunSessionExpiryMonitor(ctx context.Context) {
	if s.config.SessionTTL <= 0 {
		return
	}
	interval := s.config.SessionSweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepExpiredSessions(ctx)
		}
	}
}

func (s *Service) sweepExpiredSessions(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	cutoff := s.now().Add(-s.config.SessionTTL)
	n, err := s.store.DeleteExpiredSessions(sweepCtx, cutoff)
	if err != nil {
		s.logger.Warn("session expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		metrics.SessionsExpired.Add(float64(n))
		s.logger.Info("expired idle sessions", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
}

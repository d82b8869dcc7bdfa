package app

import (
	"context"
	"time"

	"github.com/bobmcallan/marketdesk/internal/common"
)

// sessionPurger removes expired sessions and reports their IDs.
type sessionPurger interface {
	PurgeExpired(ctx context.Context) ([]string, error)
}

// startSessionPurger removes expired sessions on a fixed interval.
func startSessionPurger(ctx context.Context, sessions sessionPurger, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	purgeSessions(ctx, sessions, logger)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Session purger: stopped")
			return
		case <-ticker.C:
			purgeSessions(ctx, sessions, logger)
		}
	}
}

func purgeSessions(ctx context.Context, sessions sessionPurger, logger *common.Logger) {
	start := time.Now()
	ids, err := sessions.PurgeExpired(ctx)
	if err != nil {
		logger.Warn().Err(err).Int("purged", len(ids)).Msg("Session purge failed")
		return
	}
	if len(ids) > 0 {
		logger.Info().
			Int("purged", len(ids)).
			Dur("elapsed", time.Since(start)).
			Msg("Session purge: complete")
	}
}

// Package jobs schedules the periodic maintenance work of the server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"hazard-route-service/internal/platform/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sessions is the part of the session registry the scheduled jobs drive.
type Sessions interface {
	RefreshTraffic(ctx context.Context) int
	PruneIdle(ttl time.Duration) int
}

const pruneSpec = "@every 1m"

// Schedule registers the traffic refresh and idle-session pruning jobs on a
// new cron scheduler. The caller starts and stops it.
func Schedule(ctx context.Context, sessions Sessions, refreshSpec string, idleTTL time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(refreshSpec, func() {
		n := sessions.RefreshTraffic(ctx)
		logger.Debug("cronjob: traffic refresh", zap.Int("sessions", n))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule traffic refresh %q: %w", refreshSpec, err)
	}

	_, err = c.AddFunc(pruneSpec, func() {
		sessions.PruneIdle(idleTTL)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session pruning: %w", err)
	}

	return c, nil
}

package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CounterStore is the slice of the repository the sweeper needs.
type CounterStore interface {
	DeleteExpiredRateLimitCounters(ctx context.Context) (int64, error)
}

// RegisterCounterSweeper schedules an hourly sweep of expired rate-limit
// counter rows. Only relevant when the SQL fallback counter store is in
// use; Redis keys expire on their own.
func RegisterCounterSweeper(c *cron.Cron, store CounterStore, log *logrus.Logger) error {
	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		deleted, err := store.DeleteExpiredRateLimitCounters(ctx)
		if err != nil {
			log.Errorf("Rate limit counter sweep failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Infof("Swept %d expired rate limit counters", deleted)
		}
	})
	return err
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/techsrow/locationhubapi/internal/repositories"
	"github.com/techsrow/locationhubapi/internal/utils"
)

const defaultSweepInterval = time.Minute

// LockExpirer periodically releases abandoned holds: every locked booking
// whose TTL has elapsed becomes expired and its slots free up. The sweep
// interval should stay well under the lock TTL so a dead hold cannot block a
// slot for long. Expiry is data-level; a hold that lapsed between sweeps is
// already ignored by the availability guard.
type LockExpirer struct {
	Bookings repositories.BookingRepo
	Interval time.Duration
}

func (e LockExpirer) interval() time.Duration {
	if e.Interval > 0 {
		return e.Interval
	}
	return defaultSweepInterval
}

// Run sweeps on a ticker until the context is cancelled.
func (e LockExpirer) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.SweepOnce(ctx); err != nil {
				utils.LogError("", "expirer", "sweep", err)
			}
		}
	}
}

// SweepOnce runs a single conditional bulk expiry and reports how many holds
// were released.
func (e LockExpirer) SweepOnce(ctx context.Context) (int64, error) {
	expired, err := e.Bookings.ExpireStale(ctx)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		utils.LogEvent("", "expirer", "sweep", fmt.Sprintf("expired=%d", expired))
	}
	return expired, nil
}

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/state"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// calculateBackoff returns the retry delay for the given number of consecutive
// failures. The delay doubles per failure and is capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// Consumer feeds daemon events into the store. It resynchronises the full task
// list after every reconnect so events missed while offline are not lost.
type Consumer struct {
	store   *state.Store
	service daemon.Service
	logger  *log.Logger
	retry   time.Duration

	malformed  rate.Sometimes
	needResync bool
}

// NewConsumer builds a consumer. A non-positive retry uses the default.
func NewConsumer(store *state.Store, service daemon.Service, logger *log.Logger, retry time.Duration) *Consumer {
	if retry <= 0 {
		retry = defaultRetryInterval
	}
	return &Consumer{
		store:      store,
		service:    service,
		logger:     logger,
		retry:      retry,
		malformed:  rate.Sometimes{First: 1, Interval: 5 * time.Second},
		needResync: true,
	}
}

// Resync replaces the store's tasks with the daemon's current list.
func (c *Consumer) Resync(ctx context.Context) error {
	tasks, err := c.service.FetchTasks(ctx)
	if err != nil {
		c.store.RecordError(err)
		return err
	}
	state.Load(c.store, tasks)
	c.store.RecordSuccess()
	c.needResync = false
	c.logger.Debug("task list synced", "tasks", len(tasks))
	return nil
}

// Run streams events until ctx is cancelled, reconnecting with exponential
// backoff. It blocks; callers start it on its own goroutine.
func (c *Consumer) Run(ctx context.Context) {
	failures := 0
	for {
		if c.needResync {
			if err := c.Resync(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Debug("task resync failed", "error", err, "failures", failures+1)
				failures++
				if !sleepCtx(ctx, calculateBackoff(failures-1, c.retry)) {
					return
				}
				continue
			}
			if failures > 0 {
				c.logger.Info("daemon reachable again", "after_failures", failures)
			}
			failures = 0
		}

		err := c.service.StreamEvents(ctx, func(ev daemon.Event) {
			state.Apply(c.store, ev)
		}, c.warnMalformed)
		if ctx.Err() != nil {
			return
		}
		if failures == 0 {
			c.logger.Warn("event stream lost", "error", err)
		}
		c.store.RecordError(err)
		c.needResync = true
		failures++
		if !sleepCtx(ctx, calculateBackoff(failures-1, c.retry)) {
			return
		}
	}
}

// sleepCtx waits for d, reporting false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Consumer) warnMalformed(err error) {
	c.malformed.Do(func() {
		c.logger.Warn("skipping malformed event", "error", err)
	})
}

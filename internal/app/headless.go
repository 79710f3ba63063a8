package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/frame"
	"github.com/five82/downlink/internal/metrics"
	"github.com/five82/downlink/internal/state"
)

const headlessFPS = 1

// reportingScheduler runs after once the wrapped frame callback completes.
type reportingScheduler struct {
	inner frame.Scheduler
	after func()
}

func (r *reportingScheduler) ScheduleOnce(fn func()) {
	r.inner.ScheduleOnce(func() {
		fn()
		if r.after != nil {
			r.after()
		}
	})
}

// watcher logs one summary line per published frame.
type watcher struct {
	store  *state.Store
	logger *log.Logger
}

func newHeadlessStore(logger *log.Logger) (*state.Store, *watcher) {
	sched := &reportingScheduler{inner: frame.NewTimer(headlessFPS)}
	store := state.NewStore(sched)
	w := &watcher{store: store, logger: logger}
	sched.after = w.report
	return store, w
}

func (w *watcher) report() {
	snap := w.store.Published()
	if snap.IsOffline() {
		w.logger.Warn("daemon offline", "failures", snap.ConsecutiveFailures, "error", snap.LastError)
		return
	}
	counts := metrics.CountByState(snap)
	w.logger.Info("progress",
		"generation", snap.Generation,
		"tasks", snap.Len(),
		"active", metrics.CountNonTerminal(snap),
		"downloading", counts[daemon.StateDownloading],
		"failed", counts[daemon.StateFailed],
		"speed", metrics.FormatRate(metrics.TotalRate(snap)),
	)
}

// runHeadless consumes events and logs progress until ctx ends.
func runHeadless(ctx context.Context, consumer *Consumer, w *watcher) error {
	if err := consumer.Resync(ctx); err != nil {
		w.logger.Warn("initial task sync failed", "error", err)
	}
	w.store.Flush()
	w.report()

	consumer.Run(ctx)
	return nil
}

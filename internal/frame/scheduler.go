package frame

import (
	"sync"
	"time"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// Interval converts a frame rate into the duration between frame boundaries.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// NextBoundary returns the first multiple of interval strictly after now.
func NextBoundary(now time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		return now
	}
	return now.Truncate(interval).Add(interval)
}

// Manual is a Scheduler advanced by hand. Callbacks armed before a Tick run
// during that Tick; callbacks armed while a Tick is running wait for the
// next one.
type Manual struct {
	mu      sync.Mutex
	pending []func()
	ticks   int
}

// ScheduleOnce implements Scheduler.
func (m *Manual) ScheduleOnce(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

// Pending reports how many callbacks are armed.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Ticks returns the number of Tick calls so far.
func (m *Manual) Ticks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// Tick runs every callback armed before the call.
func (m *Manual) Tick() {
	m.mu.Lock()
	due := m.pending
	m.pending = nil
	m.ticks++
	m.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Timer is a wall-clock Scheduler that fires callbacks on frame boundaries
// aligned to its interval. Callbacks run on timer goroutines.
type Timer struct {
	interval time.Duration
	now      func() time.Time
}

// NewTimer returns a Timer running at fps frames per second.
func NewTimer(fps int) *Timer {
	return &Timer{interval: Interval(fps), now: time.Now}
}

// ScheduleOnce implements Scheduler.
func (t *Timer) ScheduleOnce(fn func()) {
	now := t.now()
	time.AfterFunc(NextBoundary(now, t.interval).Sub(now), fn)
}

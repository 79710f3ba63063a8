package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/downlink/internal/frame"
)

// runMsg carries a scheduled callback onto the program's event loop.
type runMsg struct {
	fn func()
}

// Driver is a frame.Scheduler that runs callbacks inside Update, so frame
// work never races the renderer. Callbacks scheduled before a program is
// attached are held and delivered once it is.
type Driver struct {
	interval time.Duration // zero delivers on the next loop turn

	mu   sync.Mutex
	send func(tea.Msg)
	held []runMsg
}

var _ frame.Scheduler = (*Driver)(nil)

// NewFrameDriver returns a driver that fires on fps frame boundaries.
func NewFrameDriver(fps int) *Driver {
	return &Driver{interval: frame.Interval(fps)}
}

// newDeferDriver returns a driver that fires on the next event loop turn.
func newDeferDriver() *Driver {
	return &Driver{}
}

// ScheduleOnce implements frame.Scheduler.
func (d *Driver) ScheduleOnce(fn func()) {
	msg := runMsg{fn: fn}
	if d.interval <= 0 {
		go d.deliver(msg)
		return
	}
	wait := time.Until(frame.NextBoundary(time.Now(), d.interval))
	time.AfterFunc(wait, func() { d.deliver(msg) })
}

// Attach routes callbacks to send, typically (*tea.Program).Send. Held
// callbacks are delivered asynchronously since Send blocks until the
// program's loop is running.
func (d *Driver) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	held := d.held
	d.held = nil
	d.mu.Unlock()

	if len(held) == 0 {
		return
	}
	go func() {
		for _, msg := range held {
			send(msg)
		}
	}()
}

func (d *Driver) deliver(msg runMsg) {
	d.mu.Lock()
	send := d.send
	if send == nil {
		d.held = append(d.held, msg)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	send(msg)
}

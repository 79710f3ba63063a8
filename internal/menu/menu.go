// Package menu tracks the anchor of the task context menu.
//
// A reopen at a new position always hides the menu first and shows it one
// tick later, so the renderer sees a visibility edge for every
// presentation, never a visible menu that merely moves.
package menu

import (
	"sync"

	"github.com/five82/downlink/internal/frame"
)

// Anchor is the menu's screen position and visibility.
type Anchor struct {
	X       int
	Y       int
	Visible bool
}

// Controller owns an Anchor. It is safe for use from multiple goroutines,
// though the UI drives it from its own loop.
type Controller struct {
	deferrer frame.Scheduler

	mu       sync.Mutex
	anchor   Anchor
	seq      uint64
	onChange func(Anchor)
}

// New returns a hidden menu whose deferred shows run on scheduler.
func New(scheduler frame.Scheduler) *Controller {
	return &Controller{deferrer: scheduler}
}

// OnChange registers fn to observe every anchor transition. It replaces any
// earlier observer.
func (c *Controller) OnChange(fn func(Anchor)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Anchor returns the current anchor.
func (c *Controller) Anchor() Anchor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchor
}

// RequestShowAt hides the menu now and shows it at (x, y) on the next tick.
// A later RequestShowAt or Hide supersedes a show that has not happened yet.
func (c *Controller) RequestShowAt(x, y int) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.anchor.Visible = false
	hidden := c.anchor
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(hidden)
	}

	if c.deferrer == nil {
		return
	}
	c.deferrer.ScheduleOnce(func() {
		c.show(seq, x, y)
	})
}

// Hide hides the menu. Calling it on a hidden menu is harmless.
func (c *Controller) Hide() {
	c.mu.Lock()
	c.seq++
	wasVisible := c.anchor.Visible
	c.anchor.Visible = false
	hidden := c.anchor
	notify := c.onChange
	c.mu.Unlock()

	if wasVisible && notify != nil {
		notify(hidden)
	}
}

func (c *Controller) show(seq uint64, x, y int) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.anchor = Anchor{X: x, Y: y, Visible: true}
	shown := c.anchor
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(shown)
	}
}

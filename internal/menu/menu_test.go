package menu

import (
	"reflect"
	"testing"

	"github.com/five82/downlink/internal/frame"
)

func recordTransitions(c *Controller) *[]Anchor {
	var seen []Anchor
	c.OnChange(func(a Anchor) { seen = append(seen, a) })
	return &seen
}

func TestRequestShowAt_HidesThenShows(t *testing.T) {
	var sched frame.Manual
	c := New(&sched)
	seen := recordTransitions(c)

	c.RequestShowAt(10, 4)
	if c.Anchor().Visible {
		t.Fatal("menu visible before the deferred tick")
	}

	sched.Tick()
	want := []Anchor{{Visible: false}, {X: 10, Y: 4, Visible: true}}
	if !reflect.DeepEqual(*seen, want) {
		t.Fatalf("transitions = %v, want %v", *seen, want)
	}
}

func TestRequestShowAt_ReopenPassesThroughHidden(t *testing.T) {
	var sched frame.Manual
	c := New(&sched)
	c.RequestShowAt(1, 1)
	sched.Tick()

	seen := recordTransitions(c)
	c.RequestShowAt(20, 8)
	if a := c.Anchor(); a.Visible {
		t.Fatalf("anchor = %v immediately after reopen, want hidden", a)
	}
	sched.Tick()

	want := []Anchor{{X: 1, Y: 1, Visible: false}, {X: 20, Y: 8, Visible: true}}
	if !reflect.DeepEqual(*seen, want) {
		t.Fatalf("transitions = %v, want %v", *seen, want)
	}
}

func TestRequestShowAt_RapidRequestsNeverMoveWhileVisible(t *testing.T) {
	var sched frame.Manual
	c := New(&sched)
	seen := recordTransitions(c)

	c.RequestShowAt(1, 1)
	c.RequestShowAt(9, 9)
	sched.Tick()

	want := []Anchor{{Visible: false}, {Visible: false}, {X: 9, Y: 9, Visible: true}}
	if !reflect.DeepEqual(*seen, want) {
		t.Fatalf("transitions = %v, want %v", *seen, want)
	}

	// Every change of coordinates while visible must be preceded by a hide.
	var prev Anchor
	for i, a := range *seen {
		if i > 0 && prev.Visible && a.Visible && (prev.X != a.X || prev.Y != a.Y) {
			t.Fatalf("menu moved while visible: %v -> %v", prev, a)
		}
		prev = a
	}
}

func TestRequestShowAt_SecondRequestAfterFirstShows(t *testing.T) {
	var sched frame.Manual
	c := New(&sched)
	seen := recordTransitions(c)

	c.RequestShowAt(1, 1)
	sched.Tick()
	c.RequestShowAt(2, 2)
	c.RequestShowAt(3, 3)
	sched.Tick()

	want := []Anchor{
		{Visible: false},
		{X: 1, Y: 1, Visible: true},
		{X: 1, Y: 1, Visible: false},
		{X: 1, Y: 1, Visible: false},
		{X: 3, Y: 3, Visible: true},
	}
	if !reflect.DeepEqual(*seen, want) {
		t.Fatalf("transitions = %v, want %v", *seen, want)
	}
}

func TestHide_IdempotentAndCancelsPendingShow(t *testing.T) {
	var sched frame.Manual
	c := New(&sched)

	c.Hide()
	c.Hide()
	if c.Anchor().Visible {
		t.Fatal("hidden menu became visible")
	}

	c.RequestShowAt(5, 5)
	c.Hide()
	sched.Tick()
	if c.Anchor().Visible {
		t.Fatal("show fired after Hide superseded it")
	}

	c.RequestShowAt(6, 6)
	sched.Tick()
	c.Hide()
	if a := c.Anchor(); a.Visible || a.X != 6 || a.Y != 6 {
		t.Fatalf("anchor after hide = %v, want hidden at 6,6", a)
	}
}

func TestRequestShowAt_NoSchedulerStaysHidden(t *testing.T) {
	c := New(nil)
	c.RequestShowAt(3, 3)
	if c.Anchor().Visible {
		t.Fatal("menu visible without a scheduler")
	}
}

package frame

import "sync"

// Scheduler arms a one-shot callback for the next frame boundary.
// Implementations must not run fn synchronously inside ScheduleOnce.
type Scheduler interface {
	ScheduleOnce(fn func())
}

// Phase is the publisher's position in its two-state cycle.
type Phase int

const (
	Idle Phase = iota
	Scheduled
)

func (p Phase) String() string {
	if p == Scheduled {
		return "scheduled"
	}
	return "idle"
}

// Publisher coalesces any number of publish requests arriving between two
// frame boundaries into a single call of its action.
type Publisher struct {
	scheduler Scheduler
	action    func()

	mu        sync.Mutex
	phase     Phase
	publishes uint64
}

// NewPublisher returns an idle publisher that runs action at most once per
// frame of scheduler.
func NewPublisher(scheduler Scheduler, action func()) *Publisher {
	return &Publisher{scheduler: scheduler, action: action}
}

// Request marks a publish as owed. Only the first request after a frame
// arms the scheduler; the rest are absorbed.
func (p *Publisher) Request() {
	p.mu.Lock()
	if p.phase == Scheduled {
		p.mu.Unlock()
		return
	}
	p.phase = Scheduled
	p.mu.Unlock()

	if p.scheduler != nil {
		p.scheduler.ScheduleOnce(p.fire)
	}
}

// Phase reports whether a frame callback is currently armed.
func (p *Publisher) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Publishes returns how many times the action has run.
func (p *Publisher) Publishes() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publishes
}

func (p *Publisher) fire() {
	p.mu.Lock()
	if p.phase != Scheduled {
		p.mu.Unlock()
		return
	}
	// Back to Idle before the action so a request racing with it re-arms
	// the next frame.
	p.phase = Idle
	p.publishes++
	p.mu.Unlock()

	if p.action != nil {
		p.action()
	}
}

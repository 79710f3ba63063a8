package state

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/frame"
)

// Record is the progress of a single download task.
type Record struct {
	Key            string
	State          daemon.State
	Title          string
	Collection     string
	Filename       string
	BytesDone      int64
	BytesTotal     int64
	Rate           int64 // bytes per second
	Preparing      bool
	SleepRemaining uint64 // seconds left in the daemon's between-task pause
	CreatedAt      time.Time
	CompletedAt    time.Time
}

// Snapshot is one generation of aggregate state: every task keyed by ID plus
// the health of the event stream that feeds it.
type Snapshot struct {
	Items               map[string]Record
	Speed               int64  // aggregate bytes per second reported by the daemon
	Generation          uint64 // publish counter, zero before the first publish
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive stream failures
}

// IsOffline returns true when the daemon has been unreachable for multiple attempts.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Get returns the record stored under key.
func (s Snapshot) Get(key string) (Record, bool) {
	r, ok := s.Items[key]
	return r, ok
}

// Len returns the number of tasks.
func (s Snapshot) Len() int {
	return len(s.Items)
}

// Records returns the tasks ordered by creation time, then key.
func (s Snapshot) Records() []Record {
	out := make([]Record, 0, len(s.Items))
	for _, r := range s.Items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Put inserts or replaces a record.
func (s *Snapshot) Put(r Record) {
	if s.Items == nil {
		s.Items = make(map[string]Record)
	}
	s.Items[r.Key] = r
}

// Update modifies the record under key in place. It reports false when
// there is no such record.
func (s *Snapshot) Update(key string, fn func(*Record)) bool {
	r, ok := s.Items[key]
	if !ok {
		return false
	}
	fn(&r)
	s.Items[key] = r
	return true
}

// Delete removes key. Removing an absent key is a no-op.
func (s *Snapshot) Delete(key string) {
	delete(s.Items, key)
}

func (s Snapshot) clone() Snapshot {
	dup := s
	dup.Items = make(map[string]Record, len(s.Items))
	for k, v := range s.Items {
		dup.Items[k] = v
	}
	if s.LastError != nil {
		dup.LastError = fmt.Errorf("%w", s.LastError)
	}
	return dup
}

// Store owns the working generation of task state and publishes deep copies
// of it at most once per frame.
type Store struct {
	mu         sync.Mutex
	working    Snapshot
	generation uint64

	published atomic.Pointer[Snapshot]
	publisher *frame.Publisher
}

// NewStore returns an empty store publishing on scheduler's frames.
func NewStore(scheduler frame.Scheduler) *Store {
	s := &Store{working: Snapshot{Items: make(map[string]Record)}}
	s.published.Store(&Snapshot{Items: map[string]Record{}})
	s.publisher = frame.NewPublisher(scheduler, s.publish)
	return s
}

// Mutate runs fn against the working generation and requests a publish.
// fn must not retain the snapshot pointer.
func (s *Store) Mutate(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.working)
	s.mu.Unlock()

	s.publisher.Request()
}

// Published returns the most recently published generation. The returned
// Items map is shared with other readers and must not be modified.
func (s *Store) Published() Snapshot {
	return *s.published.Load()
}

// Flush publishes the working generation immediately, outside the frame
// cadence.
func (s *Store) Flush() {
	s.publish()
}

// Publishes returns how many frame publishes have run.
func (s *Store) Publishes() uint64 {
	return s.publisher.Publishes()
}

// Pending reports whether a publish is owed for the next frame.
func (s *Store) Pending() bool {
	return s.publisher.Phase() == frame.Scheduled
}

// RecordError notes a failed attempt to reach the daemon. Task data is kept.
func (s *Store) RecordError(err error) {
	s.Mutate(func(w *Snapshot) {
		w.LastError = err
		w.LastUpdated = time.Now()
		w.ConsecutiveFailures++
	})
}

// RecordSuccess clears the failure state after the daemon answered.
func (s *Store) RecordSuccess() {
	s.Mutate(func(w *Snapshot) {
		w.LastError = nil
		w.LastUpdated = time.Now()
		w.ConsecutiveFailures = 0
	})
}

func (s *Store) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	snap := s.working.clone()
	snap.Generation = s.generation
	s.published.Store(&snap)
}

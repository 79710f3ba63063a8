package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/frame"
)

func newTestStore() (*Store, *frame.Manual) {
	sched := &frame.Manual{}
	return NewStore(sched), sched
}

func TestStore_MutationsInvisibleUntilFrame(t *testing.T) {
	s, sched := newTestStore()

	s.Mutate(func(w *Snapshot) {
		w.Put(Record{Key: "a", State: daemon.StateDownloading, BytesDone: 10})
	})

	if got := s.Published(); got.Len() != 0 {
		t.Fatalf("published before frame has %d items, want 0", got.Len())
	}
	if !s.Pending() {
		t.Fatal("Pending() = false after Mutate, want true")
	}

	sched.Tick()
	got, ok := s.Published().Get("a")
	if !ok || got.BytesDone != 10 {
		t.Fatalf("published a = %#v (ok=%v), want bytesDone=10", got, ok)
	}
	if s.Pending() {
		t.Fatal("Pending() = true after frame, want false")
	}
}

func TestStore_LastWriteBeforeFrameWins(t *testing.T) {
	s, sched := newTestStore()

	s.Mutate(func(w *Snapshot) {
		w.Put(Record{Key: "a", State: daemon.StateDownloading, BytesDone: 10})
	})
	s.Mutate(func(w *Snapshot) {
		w.Put(Record{Key: "a", State: daemon.StateDownloading, BytesDone: 50})
	})
	sched.Tick()

	snap := s.Published()
	if snap.Len() != 1 {
		t.Fatalf("published has %d items, want exactly 1", snap.Len())
	}
	if got := snap.Items["a"]; got.BytesDone != 50 || got.State != daemon.StateDownloading {
		t.Fatalf("published a = %#v, want downloading bytesDone=50", got)
	}
}

func TestStore_OnePublishPerFrame(t *testing.T) {
	s, sched := newTestStore()

	const n = 250
	for i := 0; i < n; i++ {
		s.Mutate(func(w *Snapshot) {
			w.Put(Record{Key: "a", BytesDone: int64(i)})
		})
	}
	sched.Tick()

	if s.Publishes() != 1 {
		t.Fatalf("Publishes = %d after %d mutations, want 1", s.Publishes(), n)
	}
	if got := s.Published().Items["a"].BytesDone; got != n-1 {
		t.Fatalf("BytesDone = %d, want %d", got, n-1)
	}
	if gen := s.Published().Generation; gen != 1 {
		t.Fatalf("Generation = %d, want 1", gen)
	}

	sched.Tick()
	if s.Publishes() != 1 {
		t.Fatalf("Publishes = %d after idle frame, want 1", s.Publishes())
	}
}

func TestStore_MutationAfterFrameGoesToNextFrame(t *testing.T) {
	s, sched := newTestStore()

	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "a", BytesDone: 1}) })
	sched.Tick()
	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "a", BytesDone: 2}) })

	if got := s.Published().Items["a"].BytesDone; got != 1 {
		t.Fatalf("BytesDone = %d before second frame, want 1", got)
	}
	sched.Tick()
	if got := s.Published().Items["a"].BytesDone; got != 2 {
		t.Fatalf("BytesDone = %d after second frame, want 2", got)
	}
	if s.Publishes() != 2 {
		t.Fatalf("Publishes = %d, want 2", s.Publishes())
	}
}

func TestStore_PublishedIsIndependentOfWorking(t *testing.T) {
	s, sched := newTestStore()

	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "a", BytesDone: 1}) })
	sched.Tick()
	before := s.Published()

	s.Mutate(func(w *Snapshot) {
		w.Update("a", func(r *Record) { r.BytesDone = 99 })
		w.Put(Record{Key: "b"})
	})

	if before.Items["a"].BytesDone != 1 || before.Len() != 1 {
		t.Fatalf("earlier generation changed under the reader: %#v", before.Items)
	}
	if cur := s.Published(); cur.Items["a"].BytesDone != 1 {
		t.Fatalf("published changed before frame: %#v", cur.Items)
	}
}

func TestStore_DeleteRemovesKey(t *testing.T) {
	s, sched := newTestStore()

	s.Mutate(func(w *Snapshot) {
		w.Put(Record{Key: "a"})
		w.Put(Record{Key: "b"})
	})
	sched.Tick()
	s.Mutate(func(w *Snapshot) {
		w.Delete("a")
		w.Delete("missing")
	})
	sched.Tick()

	snap := s.Published()
	if _, ok := snap.Get("a"); ok {
		t.Fatal("a still published after delete")
	}
	if _, ok := snap.Get("b"); !ok {
		t.Fatal("b missing after unrelated delete")
	}
}

func TestStore_FlushPublishesImmediately(t *testing.T) {
	s, _ := newTestStore()

	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "a"}) })
	s.Flush()

	if s.Published().Len() != 1 {
		t.Fatalf("Flush did not publish working state")
	}
}

func TestStore_NoFrameDriverDefersIndefinitely(t *testing.T) {
	s := NewStore(nil)
	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "a"}) })
	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "b"}) })

	if s.Published().Len() != 0 {
		t.Fatal("published without a frame driver")
	}
	if !s.Pending() {
		t.Fatal("publish request was discarded")
	}
}

func TestStore_RecordErrorKeepsTasks(t *testing.T) {
	s, sched := newTestStore()

	s.Mutate(func(w *Snapshot) { w.Put(Record{Key: "a", BytesDone: 5}) })
	sched.Tick()

	origErr := errors.New("boom")
	s.RecordError(origErr)
	sched.Tick()

	snap := s.Published()
	if snap.Items["a"].BytesDone != 5 {
		t.Fatalf("tasks changed on error: %#v", snap.Items)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("published snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s, sched := newTestStore()

	if s.Published().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.RecordError(errors.New("fail 1"))
	sched.Tick()
	if snap := s.Published(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.RecordError(errors.New("fail 2"))
	sched.Tick()
	if snap := s.Published(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	before := time.Now()
	s.RecordSuccess()
	sched.Tick()
	snap := s.Published()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() || snap.LastError != nil {
		t.Fatalf("after success: %#v", snap)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
}

func TestStore_ConcurrentMutateAndRead(t *testing.T) {
	s := NewStore(frame.NewTimer(500))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.Mutate(func(w *Snapshot) {
					w.Put(Record{Key: string(rune('a' + g)), BytesDone: int64(i)})
				})
				_ = s.Published().Len()
			}
		}(g)
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for s.Published().Len() != 4 || s.Pending() {
		if time.Now().After(deadline) {
			t.Fatalf("published %d items, want 4", s.Published().Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, r := range s.Published().Items {
		if r.BytesDone != 199 {
			t.Fatalf("record %s BytesDone = %d, want 199", r.Key, r.BytesDone)
		}
	}
}

func TestSnapshot_RecordsOrderedByCreation(t *testing.T) {
	base := time.Unix(1700000000, 0)
	var snap Snapshot
	snap.Put(Record{Key: "c", CreatedAt: base.Add(2 * time.Second)})
	snap.Put(Record{Key: "b", CreatedAt: base})
	snap.Put(Record{Key: "a", CreatedAt: base})

	var keys []string
	for _, r := range snap.Records() {
		keys = append(keys, r.Key)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Records order = %v, want %v", keys, want)
	}
}

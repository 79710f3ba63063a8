// Package state owns downlink's view of every download task.
//
// # Overview
//
// The daemon reports progress per downloaded chunk. A busy queue easily
// produces hundreds of events per second while the terminal only redraws a
// few dozen times. Store separates the two rates: producers mutate a working
// generation as often as they like, and readers only ever see published
// generations, replaced wholesale at most once per frame.
//
// # Architecture
//
//	Producer (event stream):        Consumer (UI):
//	┌───────────────────┐          ┌────────────────────┐
//	│ state.Apply(ev)   │          │                    │
//	│      ↓            │          │                    │
//	│ store.Mutate(fn)  │          │ store.Published()  │
//	│      ↓            │  frame   │      ↓             │
//	│ publisher.Request │─────────→│  render View()     │
//	└───────────────────┘          └────────────────────┘
//
// # Generations
//
// Working:
//   - Mutated in place by Mutate, under a mutex
//   - Never handed out
//
// Published:
//   - Deep copy of the working generation taken at a frame boundary
//   - Swapped in through an atomic pointer, so Published never blocks
//   - Never modified after it is stored; readers may hold it as long as
//     they like
//
// Every mutation made strictly before a frame boundary is visible in the
// generation published at that boundary. Intermediate values of the same
// record between two frames are merged, not queued: only the last state
// of each task before the boundary reaches the UI.
//
// # Events
//
// Apply translates daemon events into mutations:
//
//	TaskCreate          → insert record
//	TaskStateUpdate     → set state (rate drops to zero outside Downloading)
//	ProgressUpdate      → merge byte counters, titles, rate
//	ProgressPreparing   → flag record as resolving media URLs
//	TaskSleeping        → seconds left in the between-task pause
//	TaskDelete          → remove record
//	Speed               → aggregate throughput
//
// Load replaces the whole task map, used after (re)connecting.
//
// # Stream Health
//
// RecordError and RecordSuccess track daemon reachability the same way task
// data is tracked: through Mutate, so health changes also publish on the
// next frame. Two consecutive failures mark the snapshot offline.
//
// # Testing Considerations
//
// Construct a store over frame.Manual and call Tick to cross a frame
// boundary:
//
//	sched := &frame.Manual{}
//	store := state.NewStore(sched)
//	store.Mutate(func(w *state.Snapshot) { ... })
//	sched.Tick()
//	snap := store.Published()
package state

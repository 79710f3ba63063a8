package state

import (
	"github.com/five82/downlink/internal/daemon"
)

// Apply folds a daemon event into the store's working generation.
// Sleeping and preparing notices for unknown tasks are dropped.
func Apply(store *Store, ev daemon.Event) {
	store.Mutate(func(w *Snapshot) {
		applyEvent(w, ev)
	})
}

// Load replaces every task with the daemon's full task list, keeping the
// aggregate speed and stream health.
func Load(store *Store, tasks []daemon.Task) {
	store.Mutate(func(w *Snapshot) {
		w.Items = make(map[string]Record, len(tasks))
		for _, t := range tasks {
			if t.Progress.TaskID == "" {
				continue
			}
			w.Put(recordFromProgress(t.Progress, t.State))
		}
	})
}

func applyEvent(w *Snapshot, ev daemon.Event) {
	switch ev.Kind {
	case daemon.EventSpeed:
		w.Speed = ev.BytesPerSec

	case daemon.EventTaskCreate:
		w.Put(recordFromProgress(ev.Progress, ev.State))

	case daemon.EventTaskStateUpdate:
		if !w.Update(ev.TaskID, func(r *Record) { setState(r, ev.State) }) {
			r := Record{Key: ev.TaskID}
			setState(&r, ev.State)
			w.Put(r)
		}

	case daemon.EventTaskSleeping:
		w.Update(ev.TaskID, func(r *Record) {
			r.SleepRemaining = ev.RemainingSec
		})

	case daemon.EventTaskDelete:
		w.Delete(ev.TaskID)

	case daemon.EventProgressPreparing:
		w.Update(ev.TaskID, func(r *Record) {
			r.Preparing = true
		})

	case daemon.EventProgressUpdate:
		if !w.Update(ev.TaskID, func(r *Record) { mergeProgress(r, ev.Progress) }) {
			w.Put(recordFromProgress(ev.Progress, daemon.StatePending))
		}
	}
}

func recordFromProgress(p daemon.Progress, st daemon.State) Record {
	r := Record{Key: p.TaskID}
	mergeProgress(&r, p)
	setState(&r, st)
	return r
}

func mergeProgress(r *Record, p daemon.Progress) {
	r.Title = p.EpisodeTitle
	r.Collection = p.CollectionTitle
	r.Filename = p.Filename
	r.BytesDone = p.BytesDone
	r.BytesTotal = p.BytesTotal
	r.Rate = p.BytesPerSec
	r.CreatedAt = p.CreatedAt()
	r.CompletedAt = p.CompletedAt()
	r.Preparing = false
	r.SleepRemaining = 0
}

func setState(r *Record, st daemon.State) {
	r.State = st
	if st != daemon.StateDownloading {
		r.Rate = 0
		r.Preparing = false
	}
	if st != daemon.StatePending && st != daemon.StateDownloading {
		r.SleepRemaining = 0
	}
}

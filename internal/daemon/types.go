package daemon

import (
	"encoding/json"
	"fmt"
	"time"
)

// State is a download task's lifecycle state as reported by the daemon.
type State string

const (
	StatePending     State = "Pending"
	StateDownloading State = "Downloading"
	StatePaused      State = "Paused"
	StateCompleted   State = "Completed"
	StateFailed      State = "Failed"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateDownloading, StatePaused, StateCompleted, StateFailed:
		return true
	}
	return false
}

// Progress mirrors the per-task progress payload.
type Progress struct {
	TaskID          string `json:"task_id"`
	CollectionTitle string `json:"collection_title"`
	EpisodeTitle    string `json:"episode_title"`
	Filename        string `json:"filename"`
	BytesDone       int64  `json:"bytes_done"`
	BytesTotal      int64  `json:"bytes_total"`
	BytesPerSec     int64  `json:"bytes_per_sec"`
	CreateTS        int64  `json:"create_ts"`
	CompletedTS     *int64 `json:"completed_ts"`
}

// CreatedAt returns CreateTS as a time, zero when unset.
func (p Progress) CreatedAt() time.Time {
	return unixOrZero(p.CreateTS)
}

// CompletedAt returns CompletedTS as a time, zero when unset.
func (p Progress) CompletedAt() time.Time {
	if p.CompletedTS == nil {
		return time.Time{}
	}
	return unixOrZero(*p.CompletedTS)
}

// Task is one entry of /api/tasks.
type Task struct {
	State    State    `json:"state"`
	Progress Progress `json:"progress"`
}

// TaskListResponse mirrors /api/tasks.
type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
}

// EventKind names a stream event.
type EventKind string

const (
	EventSpeed             EventKind = "Speed"
	EventTaskCreate        EventKind = "TaskCreate"
	EventTaskStateUpdate   EventKind = "TaskStateUpdate"
	EventTaskSleeping      EventKind = "TaskSleeping"
	EventTaskDelete        EventKind = "TaskDelete"
	EventProgressPreparing EventKind = "ProgressPreparing"
	EventProgressUpdate    EventKind = "ProgressUpdate"
)

// Event is a decoded line of the /api/events stream. Only the fields
// relevant to Kind are populated.
type Event struct {
	Kind         EventKind
	TaskID       string
	State        State
	Progress     Progress
	RemainingSec uint64
	BytesPerSec  int64
}

type eventEnvelope struct {
	Event EventKind       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type eventData struct {
	TaskID       string    `json:"task_id"`
	State        State     `json:"state"`
	Progress     *Progress `json:"progress"`
	RemainingSec uint64    `json:"remaining_sec"`
	BytesPerSec  int64     `json:"bytes_per_sec"`
}

// UnmarshalJSON decodes the {"event": ..., "data": ...} envelope.
func (e *Event) UnmarshalJSON(b []byte) error {
	var env eventEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	var data eventData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("decode %s data: %w", env.Event, err)
		}
	}

	ev := Event{
		Kind:         env.Event,
		TaskID:       data.TaskID,
		State:        data.State,
		RemainingSec: data.RemainingSec,
		BytesPerSec:  data.BytesPerSec,
	}
	if data.Progress != nil {
		ev.Progress = *data.Progress
		if ev.TaskID == "" {
			ev.TaskID = data.Progress.TaskID
		}
	}

	switch ev.Kind {
	case EventSpeed:
	case EventTaskCreate, EventTaskStateUpdate:
		if !ev.State.Valid() {
			return fmt.Errorf("%s: unknown state %q", ev.Kind, ev.State)
		}
		if ev.TaskID == "" {
			return fmt.Errorf("%s: missing task id", ev.Kind)
		}
	case EventTaskSleeping, EventTaskDelete, EventProgressPreparing, EventProgressUpdate:
		if ev.TaskID == "" {
			return fmt.Errorf("%s: missing task id", ev.Kind)
		}
	default:
		return fmt.Errorf("unknown event %q", env.Event)
	}

	*e = ev
	return nil
}

// Action is a task command accepted by the daemon.
type Action string

const (
	ActionPause   Action = "pause"
	ActionResume  Action = "resume"
	ActionDelete  Action = "delete"
	ActionRestart Action = "restart"
)

type commandRequest struct {
	TaskIDs []string `json:"taskIds"`
}

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

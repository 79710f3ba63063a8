package daemon

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEvent_UnmarshalKinds(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Event
		wantErr bool
	}{
		{
			name: "state update",
			in:   `{"event":"TaskStateUpdate","data":{"task_id":"t1","state":"Paused"}}`,
			want: Event{Kind: EventTaskStateUpdate, TaskID: "t1", State: StatePaused},
		},
		{
			name: "sleeping",
			in:   `{"event":"TaskSleeping","data":{"task_id":"t1","remaining_sec":4}}`,
			want: Event{Kind: EventTaskSleeping, TaskID: "t1", RemainingSec: 4},
		},
		{
			name: "delete",
			in:   `{"event":"TaskDelete","data":{"task_id":"t1"}}`,
			want: Event{Kind: EventTaskDelete, TaskID: "t1"},
		},
		{
			name: "preparing",
			in:   `{"event":"ProgressPreparing","data":{"task_id":"t1"}}`,
			want: Event{Kind: EventProgressPreparing, TaskID: "t1"},
		},
		{
			name: "speed",
			in:   `{"event":"Speed","data":{"bytes_per_sec":1048576}}`,
			want: Event{Kind: EventSpeed, BytesPerSec: 1048576},
		},
		{name: "unknown state", in: `{"event":"TaskStateUpdate","data":{"task_id":"t1","state":"Exploded"}}`, wantErr: true},
		{name: "missing id", in: `{"event":"TaskDelete","data":{}}`, wantErr: true},
		{name: "unknown kind", in: `{"event":"Nope"}`, wantErr: true},
		{name: "bad data", in: `{"event":"TaskDelete","data":[1,2]}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Event
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) = %#v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Unmarshal = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEvent_ProgressUpdateTakesTaskIDFromProgress(t *testing.T) {
	var ev Event
	in := `{"event":"ProgressUpdate","data":{"progress":{"task_id":"t9","bytes_done":5,"completed_ts":1700000000}}}`
	if err := json.Unmarshal([]byte(in), &ev); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if ev.TaskID != "t9" {
		t.Fatalf("TaskID = %q, want t9", ev.TaskID)
	}
	if ev.Progress.BytesDone != 5 {
		t.Fatalf("BytesDone = %d, want 5", ev.Progress.BytesDone)
	}
	if !ev.Progress.CompletedAt().Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("CompletedAt = %v", ev.Progress.CompletedAt())
	}
}

func TestProgressTimesZeroWhenUnset(t *testing.T) {
	var p Progress
	if !p.CreatedAt().IsZero() || !p.CompletedAt().IsZero() {
		t.Fatalf("unset timestamps should be zero: %v %v", p.CreatedAt(), p.CompletedAt())
	}
}

func TestStateValid(t *testing.T) {
	for _, s := range []State{StatePending, StateDownloading, StatePaused, StateCompleted, StateFailed} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if State("").Valid() || State("pending").Valid() {
		t.Error("empty and lower-case states should be invalid")
	}
}

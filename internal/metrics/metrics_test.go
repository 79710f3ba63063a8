package metrics

import (
	"testing"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/state"
)

func snapshotOf(records ...state.Record) state.Snapshot {
	var snap state.Snapshot
	for _, r := range records {
		snap.Put(r)
	}
	return snap
}

func TestCountNonTerminal_FailedIsNotTerminal(t *testing.T) {
	snap := snapshotOf(
		state.Record{Key: "a", State: daemon.StateCompleted},
		state.Record{Key: "b", State: daemon.StateDownloading},
		state.Record{Key: "c", State: daemon.StateFailed},
	)
	if got := CountNonTerminal(snap); got != 2 {
		t.Fatalf("CountNonTerminal = %d, want 2 (b downloading, c failed)", got)
	}
}

func TestCountNonTerminal_Empty(t *testing.T) {
	if got := CountNonTerminal(state.Snapshot{}); got != 0 {
		t.Fatalf("CountNonTerminal(empty) = %d, want 0", got)
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		state daemon.State
		want  bool
	}{
		{daemon.StatePending, false},
		{daemon.StateDownloading, false},
		{daemon.StatePaused, false},
		{daemon.StateFailed, false},
		{daemon.StateCompleted, true},
	}
	for _, tt := range tests {
		if got := IsTerminal(tt.state); got != tt.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestCountByState(t *testing.T) {
	snap := snapshotOf(
		state.Record{Key: "a", State: daemon.StatePaused},
		state.Record{Key: "b", State: daemon.StatePaused},
		state.Record{Key: "c", State: daemon.StateFailed},
	)
	counts := CountByState(snap)
	if counts[daemon.StatePaused] != 2 || counts[daemon.StateFailed] != 1 || counts[daemon.StateCompleted] != 0 {
		t.Fatalf("CountByState = %v", counts)
	}
}

func TestTotalRate(t *testing.T) {
	snap := snapshotOf(
		state.Record{Key: "a", State: daemon.StateDownloading, Rate: 100},
		state.Record{Key: "b", State: daemon.StateDownloading, Rate: 50},
		state.Record{Key: "c", State: daemon.StatePaused, Rate: 999},
	)
	if got := TotalRate(snap); got != 150 {
		t.Fatalf("TotalRate = %d, want 150", got)
	}
	snap.Speed = 4096
	if got := TotalRate(snap); got != 4096 {
		t.Fatalf("TotalRate with daemon speed = %d, want 4096", got)
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B/s"},
		{-1, "0 B/s"},
		{512, "512 B/s"},
		{1024, "1.0 KiB/s"},
		{1536 * 1024, "1.5 MiB/s"},
	}
	for _, tt := range tests {
		if got := FormatRate(tt.in); got != tt.want {
			t.Errorf("FormatRate(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int64
		want        float64
	}{
		{0, 100, 0},
		{50, 100, 50},
		{150, 100, 100},
		{10, 0, 0},
		{-5, 100, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	if got := FormatProgress(512, 0); got != "512 B" {
		t.Fatalf("FormatProgress unknown total = %q, want 512 B", got)
	}
	if got := FormatProgress(512, 1024); got != "512 B / 1.0 KiB (50%)" {
		t.Fatalf("FormatProgress = %q", got)
	}
}

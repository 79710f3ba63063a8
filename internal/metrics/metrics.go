// Package metrics derives display values from a published state snapshot.
// Everything here is a pure function recomputed on each read.
package metrics

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/state"
)

// IsTerminal reports whether a task in st will not change without user
// action. Failed tasks can be restarted, so only Completed counts.
func IsTerminal(st daemon.State) bool {
	return st == daemon.StateCompleted
}

// CountNonTerminal returns the number of tasks that are not finished.
func CountNonTerminal(snap state.Snapshot) int {
	n := 0
	for _, r := range snap.Items {
		if !IsTerminal(r.State) {
			n++
		}
	}
	return n
}

// CountByState tallies tasks per state.
func CountByState(snap state.Snapshot) map[daemon.State]int {
	counts := make(map[daemon.State]int, 5)
	for _, r := range snap.Items {
		counts[r.State]++
	}
	return counts
}

// TotalRate sums per-task rates of downloading tasks. The daemon's own
// Speed figure is preferred when present.
func TotalRate(snap state.Snapshot) int64 {
	if snap.Speed > 0 {
		return snap.Speed
	}
	var total int64
	for _, r := range snap.Items {
		if r.State == daemon.StateDownloading && r.Rate > 0 {
			total += r.Rate
		}
	}
	return total
}

// FormatRate renders bytes per second, e.g. "1.5 MiB/s".
func FormatRate(bytesPerSec int64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

// FormatSize renders a byte count, e.g. "700 MiB".
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// Percent returns done/total in [0, 100]. Unknown totals yield 0.
func Percent(done, total int64) float64 {
	if total <= 0 || done <= 0 {
		return 0
	}
	p := float64(done) / float64(total) * 100
	return math.Min(p, 100)
}

// FormatProgress renders "12.3 MiB / 100 MiB (12%)", or just the done
// size when the total is unknown.
func FormatProgress(done, total int64) string {
	if total <= 0 {
		return FormatSize(done)
	}
	return fmt.Sprintf("%s / %s (%.0f%%)", FormatSize(done), FormatSize(total), Percent(done, total))
}

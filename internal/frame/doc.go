// Package frame bounds redraw work to the display's own cadence.
//
// # Overview
//
// Download progress arrives per chunk, often hundreds of times a second
// across all tasks. The terminal only needs to redraw once per frame. A
// Publisher sits between the two: every mutation calls Request, and the
// publish action runs once at the next frame boundary no matter how many
// requests arrived in between.
//
// # State Machine
//
//	Idle ──Request──> Scheduled   (arms Scheduler.ScheduleOnce)
//	Scheduled ──Request──> Scheduled   (absorbed)
//	Scheduled ──frame──> Idle   (runs the action)
//
// There is no terminal state. When no frame driver is attached the
// publisher simply stays Scheduled and nothing is lost; the next frame
// publishes whatever the working state holds at that time.
//
// # Schedulers
//
//   - Manual: advanced by Tick, for tests
//   - Timer: wall-clock driver aligned to 1/fps boundaries, for headless use
//
// The terminal UI provides its own driver that delivers the callback as a
// Bubble Tea message so the action runs on the UI loop.
package frame

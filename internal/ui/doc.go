// Package ui implements downlink's Bubble Tea terminal interface.
//
// # Frames
//
// The state store publishes through a Driver, a frame.Scheduler that turns
// each frame boundary into a message on the program's event loop. Publishing
// therefore happens inside Update, and View always renders exactly the
// published generation it reads. Progress events arriving faster than the
// frame rate cost one publish and one redraw per frame.
//
// # Layout
//
//	row 0   header: daemon status, active count, aggregate speed, problems
//	row 1   command bar: row counts, filter, last command outcome
//	row 2   column headings
//	row 3+  one line per task
//	last    key help
//
// Task rows never wrap, so a screen row maps to a task by offset alone.
// Mouse handling relies on that mapping.
//
// # Mouse
//
//   - Left press on a task starts a drag region; motion grows or shrinks it
//     and each change is reported to the selection reducer as added and
//     removed keys. Ctrl keeps the existing selection.
//   - Left press on empty space clears the selection unless a modifier is
//     held.
//   - Right release opens the context menu at the pointer. The menu is hidden
//     first and shown on the next loop turn, so each opening redraws.
//
// # Preferences
//
// Theme, the hide-completed toggle and the committed filter persist to the
// prefs file as they change.
//
// # Log
//
// L shows the tail of downlink's own log file, read once when opened. Any
// key closes it.
package ui

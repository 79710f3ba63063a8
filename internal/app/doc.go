// Package app provides the orchestration layer for downlink.
//
// # Overview
//
// This package wires together configuration, logging, the daemon client, the
// frame-coalesced state store and the UI. It is the composition root: the
// store is built here and handed to its consumers, never held globally.
//
// # Startup
//
//  1. Load config from ~/.config/downlink/config.toml (defaults when absent)
//  2. Open the log file, or stderr in headless mode
//  3. Build the daemon client and a store bound to a frame scheduler
//  4. Fetch the task list once and publish it immediately
//  5. Start the stream consumer goroutine
//  6. Run the TUI (or the headless watcher) until the user exits or ctx ends
//
// # Components
//
//   - app.go: Run and logger selection
//   - stream.go: Consumer, which applies daemon events to the store and
//     reconnects with exponential backoff capped at 30s
//   - headless.go: one-frame-per-second driver that logs a summary line per
//     published frame
//
// # Data Flow
//
//	daemon /api/events ──> Consumer ──> state.Apply ──> Store.Mutate
//	                                                        │
//	                                         frame boundary │ publish
//	                                                        v
//	                                   ui.Model / watcher read Store.Published()
//
// # Error Handling
//
// Stream and fetch errors are recorded on the store (LastError and
// ConsecutiveFailures) so the header can show the daemon as offline. Task data
// from before the failure is kept. Malformed event lines are skipped and
// logged at most once every five seconds.
package app

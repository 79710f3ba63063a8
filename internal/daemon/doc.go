// Package daemon provides an HTTP client for the download daemon API.
//
// # Overview
//
// The daemon owns the actual downloads. downlink only observes them and
// forwards user commands. The package is split into two files:
//
//   - client.go: HTTP client, event stream reader, task commands
//   - types.go: Data structures mirroring the daemon's JSON schema
//
// # Client Usage
//
//	client, err := daemon.NewClient("127.0.0.1:7788")
//	if err != nil {
//		return fmt.Errorf("init daemon client: %w", err)
//	}
//
//	tasks, err := client.FetchTasks(ctx)
//
//	err = client.StreamEvents(ctx, func(ev daemon.Event) {
//		state.Apply(store, ev)
//	}, nil)
//
// # API Endpoints
//
//   - GET /api/tasks: every known task with its state and progress
//   - GET /api/events: newline-delimited event stream (see below)
//   - POST /api/tasks/{pause,resume,delete,restart}: {"taskIds": [...]}
//
// # Event Stream
//
// Each line of /api/events is one JSON object:
//
//	{"event": "ProgressUpdate", "data": {"progress": {...}}}
//
// Event names are Speed, TaskCreate, TaskStateUpdate, TaskSleeping,
// TaskDelete, ProgressPreparing and ProgressUpdate. Progress events are
// emitted per downloaded chunk, so their rate is far above anything a
// terminal can show; coalescing happens downstream in the state package.
//
// Lines that fail to decode (unknown event, unknown state, missing task
// id) are skipped and reported through the onMalformed callback. A single
// bad line never tears down the stream.
//
// # Timeouts
//
// Regular requests use a 5-second timeout. The event stream uses a client
// without timeout and ends only when its context is cancelled or the daemon
// closes the connection (ErrStreamClosed).
package daemon

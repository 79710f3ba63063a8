// Package logtail reads the end of downlink's own log file for the in-app
// log view.
//
// The UI owns the terminal, so everything downlink logs goes to a file.
// Tail reads that file backward from its end in fixed-size chunks and stops
// once it holds enough lines, so the cost depends on the lines requested and
// not on how large the log has grown.
//
// A missing file yields no lines and no error; the log is created lazily on
// the first write. Other I/O errors are returned wrapped.
package logtail

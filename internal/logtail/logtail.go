package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const chunkSize = 8 * 1024

// Tail returns the last maxLines lines of the file at path, oldest first.
// A maxLines of zero or less returns every line.
func Tail(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	end := info.Size()
	var buf []byte
	// One newline more than requested guarantees the first kept line is whole.
	for end > 0 && (maxLines <= 0 || bytes.Count(buf, []byte{'\n'}) <= maxLines) {
		n := int64(chunkSize)
		if n > end {
			n = end
		}
		end -= n
		chunk := make([]byte, n)
		if _, err := file.ReadAt(chunk, end); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		buf = append(chunk, buf...)
	}

	return lastLines(string(buf), maxLines), nil
}

func lastLines(text string, maxLines int) []string {
	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

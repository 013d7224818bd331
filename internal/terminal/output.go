package terminal

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// Sink reads the append-only log file that mirrors everything the shell in
// the terminal window prints. The shell keeps the file open and appends
// concurrently; Tail reads whatever is durable at call time and never
// blocks waiting for more.
type Sink struct {
	path         string
	defaultLines int
	maxLines     int
	closed       atomic.Bool
}

// NewSink creates a sink over the given log file path.
func NewSink(path string, defaultLines, maxLines int) *Sink {
	if defaultLines <= 0 {
		defaultLines = 100
	}
	if maxLines <= 0 {
		maxLines = 1000
	}
	return &Sink{path: path, defaultLines: defaultLines, maxLines: maxLines}
}

// Path returns the underlying log file path.
func (s *Sink) Path() string { return s.path }

// Tail returns up to maxLines of the most recent complete lines in their
// original order. Requests are clamped to [1, maxLines]; non-positive
// requests fall back to the default. A trailing partial line (a write still
// in flight) is never returned.
func (s *Sink) Tail(maxLines int) ([]string, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("%w: output sink released", ErrChannelClosed)
	}

	n := maxLines
	if n <= 0 {
		n = s.defaultLines
	}
	if n > s.maxLines {
		n = s.maxLines
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: output log removed", ErrChannelClosed)
		}
		return nil, fmt.Errorf("read output log: %w", err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}

	text := string(data)

	// Only complete lines count; drop a trailing fragment mid-append.
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	} else {
		return []string{}, nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Close marks the sink released. Subsequent Tail calls fail with
// ErrChannelClosed. The log file itself is removed by artifact cleanup.
func (s *Sink) Close() error {
	s.closed.Store(true)
	return nil
}

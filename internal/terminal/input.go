package terminal

import (
	"fmt"
	"os"
	"sync"
)

// InputChannel delivers text into the shell running inside a terminal
// window. Sends are serialized per channel so two concurrent callers can
// never interleave bytes within one command line.
type InputChannel interface {
	Send(text string) error
	Close() error
}

// fifoChannel writes commands into a named pipe whose read end is consumed
// by a `while read line < pipe` loop inside the unix agent script. Each
// send is one complete line: a trailing newline is always appended.
type fifoChannel struct {
	path string

	mu     sync.Mutex
	closed bool
}

func newFIFOChannel(path string) *fifoChannel {
	return &fifoChannel{path: path}
}

func (c *fifoChannel) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("%w: input pipe released", ErrChannelClosed)
	}
	if _, err := os.Stat(c.path); err != nil {
		return fmt.Errorf("%w: input pipe gone", ErrChannelClosed)
	}

	// Non-blocking write end: if the agent's reader vanished (window
	// closed) this fails instead of hanging the caller.
	if err := writeFIFO(c.path, text+"\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelClosed, err)
	}
	return nil
}

func (c *fifoChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// controlFileChannel appends commands to a control file polled by the
// windows agent loop. The agent atomically claims the file (move), executes
// every line in enqueued order, and deletes the claimed copy, so no entry
// is delivered twice. Delivery latency is bounded by the agent's poll
// interval plus the running command's duration.
type controlFileChannel struct {
	path       string
	markerFile string

	mu     sync.Mutex
	closed bool
}

func newControlFileChannel(path, markerFile string) *controlFileChannel {
	return &controlFileChannel{path: path, markerFile: markerFile}
}

func (c *controlFileChannel) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("%w: control file released", ErrChannelClosed)
	}
	if _, err := os.Stat(c.markerFile); err != nil {
		return fmt.Errorf("%w: agent loop stopped", ErrChannelClosed)
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChannelClosed, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text + "\r\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelClosed, err)
	}
	return nil
}

func (c *controlFileChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

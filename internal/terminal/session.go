package terminal

import (
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/monitoring"
)

// Status is a session's lifecycle state. The only transition is
// active → closed; a closed session never comes back.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Session binds one launched terminal window to its input channel and
// output sink. Channel and sink are exclusively owned: nothing outside the
// session touches them, and both are released exactly once on close.
type Session struct {
	ID         string
	Name       string
	Platform   Platform
	WorkingDir string
	CreatedAt  time.Time

	mu      sync.Mutex // guards status; serializes SendInput
	status  Status
	input   InputChannel
	sink    *Sink
	window  *Window
	metrics *monitoring.Metrics
}

// Summary is the public view of a session for list results.
type Summary struct {
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Platform   Platform  `json:"platform"`
	Status     Status    `json:"status"`
	WorkingDir string    `json:"working_dir"`
	CreatedAt  time.Time `json:"created_at"`
}

func newSession(id, name string, platform Platform, workingDir string, win *Window, in InputChannel, sink *Sink) *Session {
	return &Session{
		ID:         id,
		Name:       name,
		Platform:   platform,
		WorkingDir: workingDir,
		CreatedAt:  time.Now(),
		status:     StatusActive,
		input:      in,
		sink:       sink,
		window:     win,
	}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Summary builds the public view.
func (s *Session) Summary() Summary {
	return Summary{
		SessionID:  s.ID,
		Name:       s.Name,
		Platform:   s.Platform,
		Status:     s.Status(),
		WorkingDir: s.WorkingDir,
		CreatedAt:  s.CreatedAt,
	}
}

// SendInput delivers one command line into the window's shell. Calls on
// the same session are mutually exclusive, so two concurrent sends can
// never interleave inside a single line.
func (s *Session) SendInput(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		s.recordInput("closed")
		return fmt.Errorf("%w: session %s is closed", ErrChannelClosed, s.ID)
	}
	if err := s.input.Send(text); err != nil {
		s.recordInput("error")
		return err
	}
	s.recordInput("ok")
	return nil
}

// Output returns a bounded tail of the session's captured output. Reads
// run concurrently with sends and with each other; only the status check
// takes the session lock.
func (s *Session) Output(maxLines int) ([]string, error) {
	s.mu.Lock()
	closed := s.status != StatusActive
	sink := s.sink
	s.mu.Unlock()

	if closed {
		s.recordOutput("closed")
		return nil, fmt.Errorf("%w: session %s is closed", ErrChannelClosed, s.ID)
	}
	lines, err := sink.Tail(maxLines)
	if err != nil {
		s.recordOutput("error")
		return nil, err
	}
	s.recordOutput("ok")
	return lines, nil
}

func (s *Session) recordInput(status string) {
	if s.metrics != nil {
		s.metrics.InputsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Session) recordOutput(status string) {
	if s.metrics != nil {
		s.metrics.OutputsTotal.WithLabelValues(status).Inc()
	}
}

// close tears the session down: terminates the window, releases channel
// and sink. Idempotent; a second close is a no-op. Termination failures
// are returned for logging but the session is marked closed regardless.
func (s *Session) close(launcher Launcher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusClosed {
		return nil
	}
	s.status = StatusClosed

	err := launcher.Terminate(s.window)
	s.input.Close()
	s.sink.Close()
	return err
}

package terminal

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermBridge/internal/shared/id"
	"github.com/GriffinCanCode/TermBridge/internal/shared/validate"
)

// Registry is the process-wide source of truth for terminal sessions:
// creation, lookup by id or name, listing, and teardown all go through it.
// A single coarse lock serializes identity allocation and name claiming,
// which is cheap at the call rates an automation client produces and rules
// out duplicate-name races entirely.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session // by id

	launcher Launcher
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewRegistry creates a registry over the given launcher.
func NewRegistry(launcher Launcher, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		launcher: launcher,
		logger:   logger.Named("registry"),
	}
}

// WithMetrics adds metrics tracking to the registry.
func (r *Registry) WithMetrics(m *monitoring.Metrics) *Registry {
	r.metrics = m
	return r
}

// CreateOrGet returns the live session named name when one exists (the
// attach path, which ignores workingDir), otherwise launches a new window
// and registers a fresh session. An empty name gets an autogenerated
// unique one. The registry lock is held across the whole sequence so two
// concurrent creates with the same new name can never race into two
// sessions.
func (r *Registry) CreateOrGet(ctx context.Context, name, workingDir string) (*Session, error) {
	if err := validate.Name(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := validate.WorkingDir(workingDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if name != "" {
		if s := r.findByNameLocked(name); s != nil {
			if r.launcher.Alive(s.window) {
				return s, nil
			}
			// The window died underneath us; reap and fall through to
			// a fresh launch under the same name.
			r.closeLocked(s)
		}
	}

	sessionID := id.NewSessionID().String()
	if name == "" {
		name = r.autoNameLocked()
	}
	if workingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workingDir = wd
		}
	}

	start := time.Now()
	win, input, sink, err := r.launcher.Launch(ctx, LaunchRequest{
		SessionID:  sessionID,
		Title:      name,
		WorkingDir: workingDir,
	})
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordLaunch(string(r.launcher.Platform()), "error", time.Since(start))
		}
		return nil, err
	}

	s := newSession(sessionID, name, r.launcher.Platform(), workingDir, win, input, sink)
	s.metrics = r.metrics
	r.sessions[sessionID] = s

	if r.metrics != nil {
		r.metrics.RecordLaunch(string(r.launcher.Platform()), "ok", time.Since(start))
		r.metrics.SessionOpened()
	}
	r.logger.Info("session created",
		zap.String("session_id", sessionID),
		zap.String("name", name),
		zap.String("working_dir", workingDir),
		zap.String("platform", string(r.launcher.Platform())),
	)
	return s, nil
}

// Get returns the live session with the given id. A session whose window
// was closed by the user is reaped here and reported as not found, so no
// operation can silently succeed against a dead window.
func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if !r.launcher.Alive(s.window) {
		r.closeLocked(s)
		return nil, fmt.Errorf("%w: %s (window closed)", ErrNotFound, sessionID)
	}
	return s, nil
}

// List returns a point-in-time snapshot of live sessions ordered by
// creation time. Dead sessions discovered during the walk are reaped.
func (r *Registry) List() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dead []*Session
	summaries := make([]Summary, 0, len(r.sessions))
	for _, s := range r.sessions {
		if r.launcher.Alive(s.window) {
			summaries = append(summaries, s.Summary())
		} else {
			dead = append(dead, s)
		}
	}
	for _, s := range dead {
		r.closeLocked(s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// Close tears down one session by id.
func (r *Registry) Close(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	r.closeLocked(s)
	return nil
}

// CloseAll tears down every session. Failures are logged, never raised:
// this runs on the shutdown path and must not take the process down.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		r.closeLocked(s)
	}
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// closeLocked removes a session and releases its resources. Must hold mu.
func (r *Registry) closeLocked(s *Session) {
	if err := s.close(r.launcher); err != nil {
		r.logger.Warn("session teardown incomplete",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
	}
	if _, ok := r.sessions[s.ID]; ok {
		delete(r.sessions, s.ID)
		if r.metrics != nil {
			r.metrics.SessionClosed()
		}
	}
	r.logger.Info("session closed", zap.String("session_id", s.ID), zap.String("name", s.Name))
}

// findByNameLocked returns the session holding name, if any. Must hold mu.
func (r *Registry) findByNameLocked(name string) *Session {
	for _, s := range r.sessions {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// autoNameLocked generates a unique default name. Must hold mu.
func (r *Registry) autoNameLocked() string {
	for {
		name := "Terminal-" + uuid.NewString()[:8]
		if r.findByNameLocked(name) == nil {
			return name
		}
	}
}

package terminal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
)

// Coordinator is the process-wide shutdown hook: it closes every live
// session when the host process exits normally or receives an interrupt or
// termination signal, then removes the artifact scope directory. Both
// registration and teardown are idempotent; re-entrant signal delivery and
// double invocation are no-ops.
type Coordinator struct {
	registry *Registry
	scopeDir string
	logger   *logging.Logger

	registerOnce sync.Once
	shutdownOnce sync.Once
}

// NewCoordinator creates a coordinator for the given registry. scopeDir is
// the artifact directory removed after the last session closes; empty
// means leave the filesystem alone.
func NewCoordinator(registry *Registry, scopeDir string, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		registry: registry,
		scopeDir: scopeDir,
		logger:   logger.Named("cleanup"),
	}
}

// Register installs the signal hook. Safe to call more than once; only the
// first call has effect.
func (c *Coordinator) Register() {
	c.registerOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-ch
			c.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
			c.Shutdown()
			// Restore default disposition and re-deliver so the
			// process exits with the conventional status.
			signal.Stop(ch)
			if s, ok := sig.(syscall.Signal); ok {
				raise(s)
			} else {
				os.Exit(1)
			}
		}()
	})
}

// Shutdown closes every session and removes the artifact scope. Never
// panics and never returns an error: cleanup failures are logged and
// swallowed, since nothing useful can be done with them at exit.
func (c *Coordinator) Shutdown() {
	c.shutdownOnce.Do(func() {
		defer func() {
			if rec := recover(); rec != nil {
				c.logger.Error("panic during cleanup", zap.Any("panic", rec))
			}
		}()

		c.registry.CloseAll()

		if c.scopeDir != "" {
			if err := os.RemoveAll(c.scopeDir); err != nil {
				c.logger.Warn("artifact scope removal failed",
					zap.String("dir", c.scopeDir),
					zap.Error(err),
				)
			}
		}
		c.logger.Info("cleanup complete")
	})
}

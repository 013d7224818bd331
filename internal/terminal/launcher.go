package terminal

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/resilience"
)

// Platform identifies which launcher variant drives a session.
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformWSL     Platform = "wsl"
)

// Window is the handle to a launched terminal window. It is used only for
// liveness checks and termination, never for stdio: the window's stdio is
// human-facing and recovered through the InputChannel/Sink pair instead.
type Window struct {
	Platform Platform
	Title    string

	// PID of the agent shell on unix-like platforms, or of the launcher
	// process elsewhere. Zero when unknown.
	PID int

	proc  *os.Process
	files *artifacts
}

// LaunchRequest describes one window to open.
type LaunchRequest struct {
	SessionID  string
	Title      string
	WorkingDir string
}

// Launcher spawns visible terminal windows and wires them to an input
// channel and output sink before returning. Implementations must not return
// until the shell inside the window is redirecting output into the sink and
// reading from the channel, bounded by LauncherConfig.LaunchTimeout.
type Launcher interface {
	Platform() Platform
	Launch(ctx context.Context, req LaunchRequest) (*Window, InputChannel, *Sink, error)
	Alive(w *Window) bool
	Terminate(w *Window) error
}

// LauncherConfig carries the knobs shared by all launcher variants.
type LauncherConfig struct {
	// ScopeDir holds per-session artifacts (pipes, logs, agent scripts).
	ScopeDir string

	// LaunchTimeout bounds the readiness wait after spawning a window.
	LaunchTimeout time.Duration

	// PollInterval is the control-file polling cadence of the Windows/WSL
	// agent loop; it is the upper bound on command delivery latency there.
	PollInterval time.Duration

	// Retry is applied to flaky OS automation calls during launch.
	Retry resilience.Settings

	// DefaultLines/MaxLines bound sink tail reads.
	DefaultLines int
	MaxLines     int
}

// DefaultLauncherConfig returns production defaults with artifacts scoped
// to a per-process directory under the system temp dir.
func DefaultLauncherConfig() LauncherConfig {
	return LauncherConfig{
		ScopeDir:      filepathJoinTemp(),
		LaunchTimeout: 10 * time.Second,
		PollInterval:  time.Second,
		Retry:         resilience.DefaultSettings(),
		DefaultLines:  100,
		MaxLines:      1000,
	}
}

func filepathJoinTemp() string {
	return fmt.Sprintf("%s%ctermbridge-%d", os.TempDir(), os.PathSeparator, os.Getpid())
}

func (c LauncherConfig) withDefaults() LauncherConfig {
	d := DefaultLauncherConfig()
	if c.ScopeDir == "" {
		c.ScopeDir = d.ScopeDir
	}
	if c.LaunchTimeout <= 0 {
		c.LaunchTimeout = d.LaunchTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.Retry.Attempts <= 0 {
		c.Retry = d.Retry
	}
	if c.DefaultLines <= 0 {
		c.DefaultLines = d.DefaultLines
	}
	if c.MaxLines <= 0 {
		c.MaxLines = d.MaxLines
	}
	return c
}

// DetectPlatform returns the launcher variant for the current host.
func DetectPlatform() (Platform, error) {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS, nil
	case "windows":
		return PlatformWindows, nil
	case "linux":
		if isWSL() {
			return PlatformWSL, nil
		}
		return PlatformLinux, nil
	default:
		return "", fmt.Errorf("%w: unsupported platform %s", ErrLaunchFailure, runtime.GOOS)
	}
}

// isWSL reports whether the process runs inside Windows Subsystem for Linux.
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// NewLauncher builds the launcher variant for the given platform.
func NewLauncher(p Platform, cfg LauncherConfig, logger *logging.Logger) (Launcher, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logging.NewNop()
	}

	switch p {
	case PlatformMacOS:
		return newMacOSLauncher(cfg, logger), nil
	case PlatformLinux:
		return newLinuxLauncher(cfg, logger), nil
	case PlatformWindows:
		return newWindowsLauncher(cfg, logger), nil
	case PlatformWSL:
		return newWSLLauncher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown platform %q", ErrLaunchFailure, p)
	}
}

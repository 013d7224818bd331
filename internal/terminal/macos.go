package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/resilience"
)

// macOSLauncher drives Terminal.app through osascript. The window is
// addressed by its custom title; the agent script inside it mirrors output
// into the sink and services the input pipe.
type macOSLauncher struct {
	cfg    LauncherConfig
	logger *logging.Logger
}

func newMacOSLauncher(cfg LauncherConfig, logger *logging.Logger) *macOSLauncher {
	return &macOSLauncher{cfg: cfg, logger: logger.Named("launcher.macos")}
}

func (l *macOSLauncher) Platform() Platform { return PlatformMacOS }

func (l *macOSLauncher) Launch(ctx context.Context, req LaunchRequest) (*Window, InputChannel, *Sink, error) {
	files := newArtifacts(l.cfg.ScopeDir, req.SessionID, PlatformMacOS)
	if err := files.prepare(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}
	if err := makeFIFO(files.inputPipe); err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}

	script := unixAgentScript(req.SessionID, files, req.WorkingDir)
	if err := os.WriteFile(files.scriptFile, []byte(script), 0o755); err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: write agent script: %v", ErrLaunchFailure, err)
	}

	// The script path and title are embedded in AppleScript string
	// literals; both must be escaped so a crafted working dir or name can
	// never break out of the statement.
	osa := fmt.Sprintf(`
tell application "Terminal"
	activate
	do script "%s"
	set custom title of front window to "%s"
end tell
`, appleScriptQuote(files.scriptFile), appleScriptQuote(req.Title))

	// Scripting bridges flake under load; retry before giving up.
	err := resilience.Retry(ctx, l.cfg.Retry, func() error {
		out, err := exec.CommandContext(ctx, "osascript", "-e", osa).CombinedOutput()
		if err != nil {
			l.logger.Warn("osascript launch attempt failed",
				zap.Error(err),
				zap.String("output", strings.TrimSpace(string(out))),
			)
			return fmt.Errorf("osascript: %v: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	})
	if err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}

	if err := waitForFile(ctx, files.readyFile, l.cfg.LaunchTimeout); err != nil {
		l.terminateByTitle(req.Title)
		files.remove()
		return nil, nil, nil, err
	}

	win := &Window{
		Platform: PlatformMacOS,
		Title:    req.Title,
		PID:      readPIDFile(files.readyFile),
		files:    files,
	}
	return win, newFIFOChannel(files.inputPipe), NewSink(files.outputLog, l.cfg.DefaultLines, l.cfg.MaxLines), nil
}

func (l *macOSLauncher) Alive(w *Window) bool {
	// Terminal.app windows have no pipe to probe; the agent shell's pid
	// (captured during the readiness handshake) is the liveness token.
	if w.PID > 0 {
		return processAlive(w.PID)
	}
	_, err := os.Stat(w.files.inputPipe)
	return err == nil
}

func (l *macOSLauncher) Terminate(w *Window) error {
	l.terminateByTitle(w.Title)
	if w.PID > 0 {
		terminateProcess(w.PID)
	}
	w.files.remove()
	return nil
}

// terminateByTitle closes every Terminal.app window carrying the session
// title. Best-effort: the window may already be gone.
func (l *macOSLauncher) terminateByTitle(title string) {
	osa := fmt.Sprintf(`
tell application "Terminal"
	close (every window whose custom title is "%s")
end tell
`, appleScriptQuote(title))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if out, err := exec.CommandContext(ctx, "osascript", "-e", osa).CombinedOutput(); err != nil {
		l.logger.Debug("close window by title failed",
			zap.String("title", title),
			zap.Error(err),
			zap.String("output", strings.TrimSpace(string(out))),
		)
	}
}

// readPIDFile parses the agent PID written into the ready file.
func readPIDFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

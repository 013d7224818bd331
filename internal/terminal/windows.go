package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/resilience"
)

// windowsLauncher opens a Windows Terminal (or legacy console) window
// running the batch agent loop. No kernel pipe reaches the visible console,
// so input travels through a polled control file and liveness hangs on a
// marker file: removing the marker stops the loop.
type windowsLauncher struct {
	cfg    LauncherConfig
	logger *logging.Logger
}

func newWindowsLauncher(cfg LauncherConfig, logger *logging.Logger) *windowsLauncher {
	return &windowsLauncher{cfg: cfg, logger: logger.Named("launcher.windows")}
}

func (l *windowsLauncher) Platform() Platform { return PlatformWindows }

// hasWindowsTerminal reports whether wt.exe is installed.
func hasWindowsTerminal() bool {
	_, err := exec.LookPath("wt.exe")
	return err == nil
}

func (l *windowsLauncher) Launch(ctx context.Context, req LaunchRequest) (*Window, InputChannel, *Sink, error) {
	files := newArtifacts(l.cfg.ScopeDir, req.SessionID, PlatformWindows)
	if err := l.prepareAgent(req, files, batchAgentPaths{
		controlFile: files.controlFile,
		workFile:    files.controlFile + ".work",
		outputLog:   files.outputLog,
		readyFile:   files.readyFile,
		markerFile:  files.markerFile,
		workingDir:  req.WorkingDir,
	}); err != nil {
		return nil, nil, nil, err
	}

	var proc *os.Process
	err := resilience.Retry(ctx, l.cfg.Retry, func() error {
		var cmd *exec.Cmd
		if hasWindowsTerminal() {
			cmd = exec.CommandContext(ctx, "wt.exe",
				"-w", "0", "nt", "--title", req.Title, "cmd.exe", "/k", files.scriptFile)
		} else {
			cmd = exec.CommandContext(ctx, "cmd.exe",
				"/c", "start", req.Title, "cmd.exe", "/k", files.scriptFile)
		}
		detachProcess(cmd)
		if err := cmd.Start(); err != nil {
			l.logger.Warn("terminal start failed", zap.Error(err))
			return err
		}
		proc = cmd.Process
		go cmd.Wait()
		return nil
	})
	if err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}

	if err := waitForFile(ctx, files.readyFile, l.cfg.LaunchTimeout); err != nil {
		os.Remove(files.markerFile) // stop the loop if it started late
		files.remove()
		return nil, nil, nil, err
	}

	win := &Window{
		Platform: PlatformWindows,
		Title:    req.Title,
		files:    files,
	}
	if proc != nil {
		win.PID = proc.Pid
		win.proc = proc
	}
	return win, newControlFileChannel(files.controlFile, files.markerFile),
		NewSink(files.outputLog, l.cfg.DefaultLines, l.cfg.MaxLines), nil
}

// prepareAgent lays down the artifacts and the batch script. The marker
// file is created before launch: its presence keeps the agent loop running
// and its removal is the teardown signal.
func (l *windowsLauncher) prepareAgent(req LaunchRequest, files *artifacts, paths batchAgentPaths) error {
	if err := files.prepare(); err != nil {
		return fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}
	if err := os.WriteFile(files.markerFile, []byte("1"), 0o644); err != nil {
		files.remove()
		return fmt.Errorf("%w: create marker: %v", ErrLaunchFailure, err)
	}

	pollSeconds := int(l.cfg.PollInterval.Seconds())
	script := batchAgentScript(req.SessionID, paths, pollSeconds)
	if err := os.WriteFile(files.scriptFile, []byte(script), 0o755); err != nil {
		files.remove()
		return fmt.Errorf("%w: write agent script: %v", ErrLaunchFailure, err)
	}
	return nil
}

func (l *windowsLauncher) Alive(w *Window) bool {
	_, err := os.Stat(w.files.markerFile)
	return err == nil
}

func (l *windowsLauncher) Terminate(w *Window) error {
	// Removing the marker asks the agent loop to exit on its next poll;
	// give it one cycle before deleting the rest out from under it.
	os.Remove(w.files.markerFile)
	waitForFileGone(w.files.readyFile, 2*l.cfg.PollInterval)
	w.files.remove()
	return nil
}

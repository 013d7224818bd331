package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/resilience"
)

// wslLauncher opens a terminal window on the Windows side from inside WSL.
// It reuses the windows batch agent, but every path baked into the script
// must be translated into the Windows namespace, and the artifact scope
// must live on a Windows-visible volume (under /mnt/...).
type wslLauncher struct {
	cfg    LauncherConfig
	logger *logging.Logger

	scopeDir string // resolved Windows-visible scope, lazy
}

func newWSLLauncher(cfg LauncherConfig, logger *logging.Logger) *wslLauncher {
	return &wslLauncher{cfg: cfg, logger: logger.Named("launcher.wsl")}
}

func (l *wslLauncher) Platform() Platform { return PlatformWSL }

// resolveScope picks an artifact directory both sides can see: the
// configured scope when it is already under /mnt, otherwise the Windows
// %TEMP% directory translated into WSL form.
func (l *wslLauncher) resolveScope() (string, error) {
	if l.scopeDir != "" {
		return l.scopeDir, nil
	}
	if strings.HasPrefix(l.cfg.ScopeDir, "/mnt/") {
		l.scopeDir = l.cfg.ScopeDir
		return l.scopeDir, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), wslpathTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "cmd.exe", "/c", "echo %TEMP%").Output()
	if err == nil {
		winTemp := strings.TrimSpace(string(out))
		if winTemp != "" && !strings.Contains(winTemp, "%") {
			l.scopeDir = filepath.Join(windowsToWSLPath(winTemp), filepath.Base(l.cfg.ScopeDir))
			return l.scopeDir, nil
		}
	}

	// Last resort, matches the common default drive mount.
	l.scopeDir = filepath.Join("/mnt/c/temp", filepath.Base(l.cfg.ScopeDir))
	return l.scopeDir, nil
}

func (l *wslLauncher) Launch(ctx context.Context, req LaunchRequest) (*Window, InputChannel, *Sink, error) {
	scope, err := l.resolveScope()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}

	files := newArtifacts(scope, req.SessionID, PlatformWSL)
	if err := files.prepare(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}
	if err := os.WriteFile(files.markerFile, []byte("1"), 0o644); err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: create marker: %v", ErrLaunchFailure, err)
	}

	workingDir := req.WorkingDir
	if workingDir != "" {
		workingDir = wslToWindowsPath(workingDir)
	}
	paths := batchAgentPaths{
		controlFile: wslToWindowsPath(files.controlFile),
		workFile:    wslToWindowsPath(files.controlFile + ".work"),
		outputLog:   wslToWindowsPath(files.outputLog),
		readyFile:   wslToWindowsPath(files.readyFile),
		markerFile:  wslToWindowsPath(files.markerFile),
		workingDir:  workingDir,
	}

	script := batchAgentScript(req.SessionID, paths, int(l.cfg.PollInterval.Seconds()))
	if err := os.WriteFile(files.scriptFile, []byte(script), 0o755); err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: write agent script: %v", ErrLaunchFailure, err)
	}
	winScript := wslToWindowsPath(files.scriptFile)

	var args []string
	if l.hasWindowsTerminal() {
		args = []string{"/c", "wt.exe", "-w", "0", "nt", "--title", req.Title, "cmd.exe", "/k", winScript}
	} else {
		args = []string{"/c", "start", req.Title, "cmd.exe", "/k", winScript}
	}

	err = resilience.Retry(ctx, l.cfg.Retry, func() error {
		cmd := exec.CommandContext(ctx, "cmd.exe", args...)
		if err := cmd.Start(); err != nil {
			l.logger.Warn("cmd.exe interop start failed", zap.Error(err))
			return err
		}
		go cmd.Wait()
		return nil
	})
	if err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}

	if err := waitForFile(ctx, files.readyFile, l.cfg.LaunchTimeout); err != nil {
		os.Remove(files.markerFile)
		files.remove()
		return nil, nil, nil, err
	}

	win := &Window{
		Platform: PlatformWSL,
		Title:    req.Title,
		files:    files,
	}
	return win, newControlFileChannel(files.controlFile, files.markerFile),
		NewSink(files.outputLog, l.cfg.DefaultLines, l.cfg.MaxLines), nil
}

func (l *wslLauncher) hasWindowsTerminal() bool {
	ctx, cancel := context.WithTimeout(context.Background(), wslpathTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "cmd.exe", "/c", "where wt.exe").Run() == nil
}

func (l *wslLauncher) Alive(w *Window) bool {
	_, err := os.Stat(w.files.markerFile)
	return err == nil
}

func (l *wslLauncher) Terminate(w *Window) error {
	os.Remove(w.files.markerFile)
	waitForFileGone(w.files.readyFile, 2*l.cfg.PollInterval)
	w.files.remove()
	return nil
}

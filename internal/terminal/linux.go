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

// emulator describes one supported Linux terminal emulator and how to hand
// it the agent script.
type emulator struct {
	binary string
	args   func(scriptFile string) []string
}

// emulators is the ordered preference list probed at launch. The first
// binary present on PATH wins.
var emulators = []emulator{
	{"gnome-terminal", func(s string) []string { return []string{"--", "bash", s} }},
	{"konsole", func(s string) []string { return []string{"-e", "bash", s} }},
	{"xfce4-terminal", func(s string) []string { return []string{"-e", "bash " + shQuote(s)} }},
	{"mate-terminal", func(s string) []string { return []string{"-e", "bash " + shQuote(s)} }},
	{"lxterminal", func(s string) []string { return []string{"-e", "bash " + shQuote(s)} }},
	{"xterm", func(s string) []string { return []string{"-hold", "-e", "bash", s} }},
	{"x-terminal-emulator", func(s string) []string { return []string{"-e", "bash " + shQuote(s)} }},
}

// linuxLauncher opens a window in the first available terminal emulator.
// The agent script writes its own shell PID into the ready file, which
// serves as both the readiness handshake and the liveness token.
type linuxLauncher struct {
	cfg    LauncherConfig
	logger *logging.Logger
}

func newLinuxLauncher(cfg LauncherConfig, logger *logging.Logger) *linuxLauncher {
	return &linuxLauncher{cfg: cfg, logger: logger.Named("launcher.linux")}
}

func (l *linuxLauncher) Platform() Platform { return PlatformLinux }

// detectEmulator probes the preference list and returns the first present.
func detectEmulator() (emulator, error) {
	for _, e := range emulators {
		if _, err := exec.LookPath(e.binary); err == nil {
			return e, nil
		}
	}
	names := make([]string, len(emulators))
	for i, e := range emulators {
		names[i] = e.binary
	}
	return emulator{}, fmt.Errorf("%w: no terminal emulator found (install one of: %v)", ErrLaunchFailure, names)
}

func (l *linuxLauncher) Launch(ctx context.Context, req LaunchRequest) (*Window, InputChannel, *Sink, error) {
	emu, err := detectEmulator()
	if err != nil {
		return nil, nil, nil, err
	}

	files := newArtifacts(l.cfg.ScopeDir, req.SessionID, PlatformLinux)
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

	err = resilience.Retry(ctx, l.cfg.Retry, func() error {
		cmd := exec.CommandContext(ctx, emu.binary, emu.args(files.scriptFile)...)
		detachProcess(cmd)
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Start(); err != nil {
			l.logger.Warn("emulator start failed", zap.String("emulator", emu.binary), zap.Error(err))
			return err
		}
		// Some emulators (gnome-terminal) hand off to a server process
		// and exit immediately; don't treat that as failure. Reap it.
		go cmd.Wait()
		return nil
	})
	if err != nil {
		files.remove()
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailure, err)
	}

	if err := waitForFile(ctx, files.readyFile, l.cfg.LaunchTimeout); err != nil {
		files.remove()
		return nil, nil, nil, err
	}

	win := &Window{
		Platform: PlatformLinux,
		Title:    req.Title,
		PID:      readPIDFile(files.readyFile),
		files:    files,
	}
	l.logger.Info("terminal window launched",
		zap.String("emulator", emu.binary),
		zap.Int("agent_pid", win.PID),
	)
	return win, newFIFOChannel(files.inputPipe), NewSink(files.outputLog, l.cfg.DefaultLines, l.cfg.MaxLines), nil
}

func (l *linuxLauncher) Alive(w *Window) bool {
	return processAlive(w.PID)
}

func (l *linuxLauncher) Terminate(w *Window) error {
	if err := terminateProcess(w.PID); err != nil {
		l.logger.Debug("terminate agent failed", zap.Int("pid", w.PID), zap.Error(err))
	}
	w.files.remove()
	return nil
}

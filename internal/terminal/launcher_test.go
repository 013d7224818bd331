package terminal

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatformMatchesHost(t *testing.T) {
	p, err := DetectPlatform()

	switch runtime.GOOS {
	case "darwin":
		require.NoError(t, err)
		assert.Equal(t, PlatformMacOS, p)
	case "windows":
		require.NoError(t, err)
		assert.Equal(t, PlatformWindows, p)
	case "linux":
		require.NoError(t, err)
		assert.Contains(t, []Platform{PlatformLinux, PlatformWSL}, p)
	default:
		assert.ErrorIs(t, err, ErrLaunchFailure)
	}
}

func TestLauncherConfigDefaults(t *testing.T) {
	cfg := LauncherConfig{}.withDefaults()

	assert.NotEmpty(t, cfg.ScopeDir)
	assert.Equal(t, 10*time.Second, cfg.LaunchTimeout)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 100, cfg.DefaultLines)
	assert.Equal(t, 1000, cfg.MaxLines)
}

func TestLauncherConfigKeepsExplicitValues(t *testing.T) {
	cfg := LauncherConfig{
		ScopeDir:      "/tmp/custom",
		LaunchTimeout: 3 * time.Second,
		PollInterval:  500 * time.Millisecond,
		DefaultLines:  50,
		MaxLines:      200,
	}.withDefaults()

	assert.Equal(t, "/tmp/custom", cfg.ScopeDir)
	assert.Equal(t, 3*time.Second, cfg.LaunchTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 50, cfg.DefaultLines)
	assert.Equal(t, 200, cfg.MaxLines)
}

func TestNewLauncherCoversEveryPlatform(t *testing.T) {
	for _, p := range []Platform{PlatformMacOS, PlatformLinux, PlatformWindows, PlatformWSL} {
		l, err := NewLauncher(p, LauncherConfig{}, nil)
		require.NoError(t, err, "platform %s", p)
		assert.Equal(t, p, l.Platform())
	}

	_, err := NewLauncher(Platform("plan9"), LauncherConfig{}, nil)
	assert.ErrorIs(t, err, ErrLaunchFailure)
}

func TestArtifactPathsPerPlatform(t *testing.T) {
	unix := newArtifacts("/scope", "sess_A", PlatformLinux)
	assert.Equal(t, "/scope/sess_A_input.fifo", unix.inputPipe)
	assert.Equal(t, "/scope/sess_A_agent.sh", unix.scriptFile)
	assert.Empty(t, unix.controlFile)

	win := newArtifacts("/scope", "sess_A", PlatformWindows)
	assert.Equal(t, "/scope/sess_A_input.txt", win.controlFile)
	assert.Equal(t, "/scope/sess_A_agent.bat", win.scriptFile)
	assert.Empty(t, win.inputPipe)

	assert.Equal(t, "/scope/sess_A_output.log", win.outputLog)
	assert.Equal(t, "/scope/sess_A_ready", win.readyFile)
	assert.Equal(t, "/scope/sess_A_running.marker", win.markerFile)
}

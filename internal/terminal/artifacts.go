package terminal

import (
	"fmt"
	"os"
	"path/filepath"
)

// artifacts names the per-session files through which the launched window
// communicates with this process. All live under the launcher scope dir and
// are removed on session teardown.
type artifacts struct {
	dir string

	inputPipe   string // named pipe read by the unix agent loop
	controlFile string // polled command file consumed by the windows agent
	outputLog   string // append-only mirror of everything the shell prints
	scriptFile  string // agent script handed to the terminal application
	readyFile   string // written by the agent once it is interactable
	markerFile  string // liveness token for the windows agent loop
}

func newArtifacts(scopeDir, sessionID string, platform Platform) *artifacts {
	a := &artifacts{
		dir:        scopeDir,
		outputLog:  filepath.Join(scopeDir, sessionID+"_output.log"),
		readyFile:  filepath.Join(scopeDir, sessionID+"_ready"),
		markerFile: filepath.Join(scopeDir, sessionID+"_running.marker"),
	}
	switch platform {
	case PlatformWindows, PlatformWSL:
		a.controlFile = filepath.Join(scopeDir, sessionID+"_input.txt")
		a.scriptFile = filepath.Join(scopeDir, sessionID+"_agent.bat")
	default:
		a.inputPipe = filepath.Join(scopeDir, sessionID+"_input.fifo")
		a.scriptFile = filepath.Join(scopeDir, sessionID+"_agent.sh")
	}
	return a
}

// prepare creates the scope dir and the empty output log. The log must
// exist before launch so a get_output racing the window startup reads an
// empty tail instead of failing.
func (a *artifacts) prepare() error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(a.outputLog, nil, 0o644); err != nil {
		return fmt.Errorf("create output log: %w", err)
	}
	return nil
}

// remove deletes every artifact, best-effort.
func (a *artifacts) remove() {
	for _, p := range []string{a.inputPipe, a.controlFile, a.outputLog, a.scriptFile, a.readyFile, a.markerFile} {
		if p != "" {
			os.Remove(p)
		}
	}
}

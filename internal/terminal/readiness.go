package terminal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// waitForFile blocks until path exists and is non-empty, the readiness
// handshake every launcher relies on: the agent script writes the file as
// its first action after wiring output redirection and the input loop, so
// the file's appearance means the window is interactable. A directory
// watch catches the common case instantly; a short ticker covers
// filesystems where fsnotify is unreliable (network mounts, /mnt under
// WSL). Returns ErrLaunchFailure when the timeout elapses first.
func waitForFile(ctx context.Context, path string, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var events chan fsnotify.Event
	if watcher, err := fsnotify.NewWatcher(); err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(path)); err == nil {
			events = watcher.Events
		}
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrLaunchFailure, ctx.Err())
		case <-deadline.C:
			return fmt.Errorf("%w: window not interactable after %s (no readiness handshake at %s)",
				ErrLaunchFailure, timeout, path)
		case <-events:
		case <-ticker.C:
		}
	}
}

// waitForFileGone blocks until path disappears or the timeout elapses.
// Used during teardown to give the windows agent loop one poll cycle to
// notice its marker is gone before artifacts are deleted underneath it.
func waitForFileGone(path string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err != nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

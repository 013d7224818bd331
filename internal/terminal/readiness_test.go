package terminal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForFileAlreadyPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready")
	require.NoError(t, os.WriteFile(path, []byte("12345\n"), 0o644))

	err := waitForFile(context.Background(), path, time.Second)
	assert.NoError(t, err)
}

func TestWaitForFileAppearsLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready")

	go func() {
		time.Sleep(100 * time.Millisecond)
		assert.NoError(t, os.WriteFile(path, []byte("12345\n"), 0o644))
	}()

	start := time.Now()
	err := waitForFile(context.Background(), path, 5*time.Second)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitForFileIgnoresEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	err := waitForFile(context.Background(), path, 200*time.Millisecond)
	assert.ErrorIs(t, err, ErrLaunchFailure)
}

func TestWaitForFileTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready")

	err := waitForFile(context.Background(), path, 200*time.Millisecond)
	require.ErrorIs(t, err, ErrLaunchFailure)
	assert.Contains(t, err.Error(), "readiness handshake")
}

func TestWaitForFileHonorsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForFile(ctx, path, 5*time.Second)
	assert.ErrorIs(t, err, ErrLaunchFailure)
}

func TestWaitForFileGone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ready")
	require.NoError(t, os.WriteFile(path, []byte("ok"), 0o644))

	go func() {
		time.Sleep(100 * time.Millisecond)
		assert.NoError(t, os.Remove(path))
	}()

	start := time.Now()
	waitForFileGone(path, 5*time.Second)
	assert.Less(t, time.Since(start), 2*time.Second)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	sid := NewSessionID()
	assert.True(t, strings.HasPrefix(sid.String(), "sess_"))
	assert.True(t, IsValid(strings.TrimPrefix(sid.String(), "sess_")))
}

func TestUniqueness(t *testing.T) {
	seen := make(map[SessionID]bool)
	for i := 0; i < 1000; i++ {
		sid := NewSessionID()
		require.False(t, seen[sid], "duplicate ID generated: %s", sid)
		seen[sid] = true
	}
}

func TestConcurrentGeneration(t *testing.T) {
	const workers = 8
	const perWorker = 250

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s := Default().GenerateString()
				mu.Lock()
				seen[s] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	sid := NewSessionID()
	after := time.Now().Add(time.Second)

	ts, err := Timestamp(sid.String())
	require.NoError(t, err)
	assert.True(t, ts.After(before) && ts.Before(after))
}

func TestTimestampRejectsGarbage(t *testing.T) {
	_, err := Timestamp("sess_not-a-ulid")
	assert.Error(t, err)
}

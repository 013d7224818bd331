package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTailReturnsRecentLinesInOrder(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "line-%d\n", i)
	}
	sink := NewSink(writeLog(t, b.String()), 100, 1000)

	lines, err := sink.Tail(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"line-8", "line-9", "line-10"}, lines)
}

func TestTailClampsRequest(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "line-%d\n", i)
	}
	sink := NewSink(writeLog(t, b.String()), 5, 20)

	// Non-positive falls back to the default.
	lines, err := sink.Tail(0)
	require.NoError(t, err)
	assert.Len(t, lines, 5)

	lines, err = sink.Tail(-1)
	require.NoError(t, err)
	assert.Len(t, lines, 5)

	// Oversized requests are capped.
	lines, err = sink.Tail(500)
	require.NoError(t, err)
	assert.Len(t, lines, 20)

	// Fewer lines than requested returns everything.
	lines, err = sink.Tail(15)
	require.NoError(t, err)
	assert.Len(t, lines, 15)
}

func TestTailDropsTrailingPartialLine(t *testing.T) {
	sink := NewSink(writeLog(t, "complete\npart"), 100, 1000)

	lines, err := sink.Tail(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"complete"}, lines)

	// Nothing but a fragment yields an empty result, not the fragment.
	sink = NewSink(writeLog(t, "fragment"), 100, 1000)
	lines, err = sink.Tail(10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTailEmptyLog(t *testing.T) {
	sink := NewSink(writeLog(t, ""), 100, 1000)

	lines, err := sink.Tail(10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTailStripsCarriageReturns(t *testing.T) {
	sink := NewSink(writeLog(t, "one\r\ntwo\r\n"), 100, 1000)

	lines, err := sink.Tail(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestTailMissingLog(t *testing.T) {
	sink := NewSink(filepath.Join(t.TempDir(), "gone.log"), 100, 1000)

	_, err := sink.Tail(10)
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestTailAfterClose(t *testing.T) {
	sink := NewSink(writeLog(t, "line\n"), 100, 1000)
	require.NoError(t, sink.Close())

	_, err := sink.Tail(10)
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestTailConcurrentWithAppends(t *testing.T) {
	path := writeLog(t, "")
	sink := NewSink(path, 100, 1000)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			assert.NoError(t, appendLine(path, fmt.Sprintf("line-%d", i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			lines, err := sink.Tail(1000)
			if !assert.NoError(t, err) {
				return
			}
			// Whatever snapshot we catch, the lines in it are whole
			// and ordered.
			for j := 1; j < len(lines); j++ {
				prev := lineIndex(t, lines[j-1])
				cur := lineIndex(t, lines[j])
				assert.Equal(t, prev+1, cur)
			}
		}
	}()
	wg.Wait()
}

func lineIndex(t *testing.T, line string) int {
	t.Helper()
	var n int
	_, err := fmt.Sscanf(line, "line-%d", &n)
	assert.NoError(t, err)
	return n
}

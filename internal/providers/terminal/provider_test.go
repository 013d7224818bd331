package terminal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/TermBridge/internal/shared/types"
	core "github.com/GriffinCanCode/TermBridge/internal/terminal"
)

// stubLauncher backs the registry with log-file "windows" so provider tests
// run without opening real terminals.
type stubLauncher struct {
	mu    sync.Mutex
	dir   string
	alive map[string]bool
}

func newStubLauncher(t *testing.T) *stubLauncher {
	t.Helper()
	return &stubLauncher{dir: t.TempDir(), alive: make(map[string]bool)}
}

func (l *stubLauncher) Platform() core.Platform { return core.PlatformLinux }

func (l *stubLauncher) Launch(ctx context.Context, req core.LaunchRequest) (*core.Window, core.InputChannel, *core.Sink, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	logPath := filepath.Join(l.dir, req.SessionID+"_output.log")
	if err := os.WriteFile(logPath, nil, 0o644); err != nil {
		return nil, nil, nil, err
	}
	l.alive[req.Title] = true
	return &core.Window{Platform: core.PlatformLinux, Title: req.Title}, &stubChannel{log: logPath}, core.NewSink(logPath, 100, 1000), nil
}

func (l *stubLauncher) Alive(w *core.Window) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alive[w.Title]
}

func (l *stubLauncher) Terminate(w *core.Window) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.alive, w.Title)
	return nil
}

type stubChannel struct {
	log string
}

func (c *stubChannel) Send(text string) error {
	f, err := os.OpenFile(c.log, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString("$ " + text + "\n"); err != nil {
		return err
	}
	if arg, ok := strings.CutPrefix(text, "echo "); ok {
		_, err = f.WriteString(arg + "\n")
	}
	return err
}

func (c *stubChannel) Close() error { return nil }

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(core.NewRegistry(newStubLauncher(t), nil))
}

func exec(t *testing.T, p *Provider, toolID string, params map[string]interface{}) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func requireCode(t *testing.T, result *types.Result, code string) {
	t.Helper()
	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, code, result.Data["code"])
}

func TestDefinition(t *testing.T) {
	p := newTestProvider(t)
	def := p.Definition()

	assert.Equal(t, "terminal", def.ID)
	assert.Equal(t, types.CategoryTerminal, def.Category)

	ids := make([]string, 0, len(def.Tools))
	for _, tool := range def.Tools {
		ids = append(ids, tool.ID)
	}
	assert.ElementsMatch(t, []string{
		"terminal.create_or_get",
		"terminal.send_input",
		"terminal.get_output",
		"terminal.list",
		"terminal.close",
	}, ids)
}

func TestExecuteUnknownTool(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Execute(context.Background(), "terminal.bogus", nil, nil)
	assert.Error(t, err)
}

func TestCreateOrGet(t *testing.T) {
	p := newTestProvider(t)

	result := exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "build"})
	require.True(t, result.Success)
	assert.Equal(t, "build", result.Data["name"])
	assert.Equal(t, "active", result.Data["status"])
	assert.Equal(t, "linux", result.Data["platform"])

	sessionID, ok := result.Data["session_id"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(sessionID, "sess_"))

	// Same name attaches to the same session.
	again := exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "build"})
	require.True(t, again.Success)
	assert.Equal(t, sessionID, again.Data["session_id"])
}

func TestCreateOrGetInvalidName(t *testing.T) {
	p := newTestProvider(t)

	result := exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "not valid!"})
	requireCode(t, result, "invalid_argument")
}

func TestSendInputAndGetOutput(t *testing.T) {
	p := newTestProvider(t)

	created := exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "build"})
	sessionID := created.Data["session_id"].(string)

	sent := exec(t, p, "terminal.send_input", map[string]interface{}{
		"session_id": sessionID,
		"text":       "echo hi",
	})
	require.True(t, sent.Success)

	got := exec(t, p, "terminal.get_output", map[string]interface{}{
		"session_id": sessionID,
		"lines":      float64(10),
	})
	require.True(t, got.Success)
	assert.Equal(t, []string{"$ echo hi", "hi"}, got.Data["lines"])
	assert.Equal(t, 2, got.Data["count"])
}

func TestSendInputValidation(t *testing.T) {
	p := newTestProvider(t)

	created := exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "build"})
	sessionID := created.Data["session_id"].(string)

	missing := exec(t, p, "terminal.send_input", map[string]interface{}{"text": "echo hi"})
	requireCode(t, missing, "invalid_argument")

	empty := exec(t, p, "terminal.send_input", map[string]interface{}{
		"session_id": sessionID,
		"text":       "",
	})
	requireCode(t, empty, "invalid_argument")
}

func TestSendInputUnknownSession(t *testing.T) {
	p := newTestProvider(t)

	result := exec(t, p, "terminal.send_input", map[string]interface{}{
		"session_id": "sess_missing",
		"text":       "echo hi",
	})
	requireCode(t, result, "not_found")
}

func TestGetOutputUnknownSession(t *testing.T) {
	p := newTestProvider(t)

	result := exec(t, p, "terminal.get_output", map[string]interface{}{"session_id": "sess_missing"})
	requireCode(t, result, "not_found")
}

func TestList(t *testing.T) {
	p := newTestProvider(t)

	empty := exec(t, p, "terminal.list", nil)
	require.True(t, empty.Success)
	assert.Equal(t, 0, empty.Data["count"])

	exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "one"})
	exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "two"})

	result := exec(t, p, "terminal.list", nil)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data["count"])

	sessions, ok := result.Data["sessions"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, sessions, 2)
	assert.Equal(t, "one", sessions[0]["name"])
	assert.Equal(t, "two", sessions[1]["name"])
}

func TestClose(t *testing.T) {
	p := newTestProvider(t)

	created := exec(t, p, "terminal.create_or_get", map[string]interface{}{"name": "build"})
	sessionID := created.Data["session_id"].(string)

	closed := exec(t, p, "terminal.close", map[string]interface{}{"session_id": sessionID})
	require.True(t, closed.Success)

	// A second close reports not found instead of silently succeeding.
	again := exec(t, p, "terminal.close", map[string]interface{}{"session_id": sessionID})
	requireCode(t, again, "not_found")

	// So do operations against the closed session.
	sent := exec(t, p, "terminal.send_input", map[string]interface{}{
		"session_id": sessionID,
		"text":       "echo hi",
	})
	requireCode(t, sent, "not_found")
}

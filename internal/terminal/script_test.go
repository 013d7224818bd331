package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShQuote(t *testing.T) {
	assert.Equal(t, "'plain'", shQuote("plain"))
	assert.Equal(t, "'with space'", shQuote("with space"))
	assert.Equal(t, `'it'\''s'`, shQuote("it's"))
	assert.Equal(t, "'$HOME; rm -rf /'", shQuote("$HOME; rm -rf /"))
}

func TestAppleScriptQuote(t *testing.T) {
	assert.Equal(t, "plain", appleScriptQuote("plain"))
	assert.Equal(t, `say \"hi\"`, appleScriptQuote(`say "hi"`))
	assert.Equal(t, `C:\\temp`, appleScriptQuote(`C:\temp`))
	assert.Equal(t, `\\\"`, appleScriptQuote(`\"`))
}

func TestUnixAgentScript(t *testing.T) {
	a := newArtifacts("/tmp/scope", "sess_01ABC", PlatformLinux)
	script := unixAgentScript("sess_01ABC", a, "/home/user/proj")

	assert.True(t, strings.HasPrefix(script, "#!/bin/bash\n"))
	assert.Contains(t, script, "cd '/home/user/proj' || exit 1")

	// Everything the shell prints is mirrored into the log while the
	// window stays visibly interactive.
	assert.Contains(t, script, "exec > >(tee -a '/tmp/scope/sess_01ABC_output.log') 2>&1")

	// Readiness handshake: PID written to the ready file before anything
	// else runs.
	assert.Contains(t, script, "echo $$ > '/tmp/scope/sess_01ABC_ready'")
	assert.Less(t,
		strings.Index(script, "_ready"),
		strings.Index(script, "agent started"),
	)

	// Command loop reads the pipe; interactive prompt stays in front.
	assert.Contains(t, script, "read -r cmd < '/tmp/scope/sess_01ABC_input.fifo'")
	assert.Contains(t, script, `read -r -p "> " user_cmd`)

	// Exit trap removes the pipe and the ready file so liveness probes
	// see the window as gone.
	assert.Contains(t, script, "trap cleanup EXIT INT TERM")
	assert.Contains(t, script, "rm -f '/tmp/scope/sess_01ABC_input.fifo' '/tmp/scope/sess_01ABC_ready'")
}

func TestUnixAgentScriptQuotesHostilePaths(t *testing.T) {
	a := newArtifacts("/tmp/scope", "sess_01ABC", PlatformLinux)
	script := unixAgentScript("sess_01ABC", a, "/home/it's here")

	assert.Contains(t, script, `cd '/home/it'\''s here' || exit 1`)
}

func TestBatchAgentScript(t *testing.T) {
	p := batchAgentPaths{
		controlFile: `C:\scope\sess_01ABC_input.txt`,
		workFile:    `C:\scope\sess_01ABC_input.work.txt`,
		outputLog:   `C:\scope\sess_01ABC_output.log`,
		readyFile:   `C:\scope\sess_01ABC_ready`,
		markerFile:  `C:\scope\sess_01ABC_running.marker`,
		workingDir:  `C:\proj`,
	}
	script := batchAgentScript("sess_01ABC", p, 2)

	assert.True(t, strings.HasPrefix(script, "@echo off\r\n"))
	assert.Contains(t, script, `cd /d "C:\proj"`)

	// Readiness handshake.
	assert.Contains(t, script, `echo ok > "C:\scope\sess_01ABC_ready"`)

	// Marker removal stops the loop and retracts readiness.
	assert.Contains(t, script, `if not exist "C:\scope\sess_01ABC_running.marker"`)
	assert.Contains(t, script, `del "C:\scope\sess_01ABC_ready" >nul 2>&1`)

	// Claim-execute-delete cycle: the control file is renamed away before
	// execution so nothing runs twice.
	assert.Contains(t, script, `move /y "C:\scope\sess_01ABC_input.txt" "C:\scope\sess_01ABC_input.work.txt"`)
	assert.Contains(t, script, `for /f "usebackq delims=" %%i in ("C:\scope\sess_01ABC_input.work.txt")`)
	assert.Contains(t, script, `cmd /c %%i >> "C:\scope\sess_01ABC_output.log" 2>&1`)
	assert.Contains(t, script, `del "C:\scope\sess_01ABC_input.work.txt" >nul 2>&1`)

	assert.Contains(t, script, "timeout /t 2 /nobreak >nul")

	// Batch runs with CRLF line endings throughout.
	assert.NotContains(t, strings.ReplaceAll(script, "\r\n", ""), "\n")
}

func TestBatchAgentScriptClampsPollInterval(t *testing.T) {
	script := batchAgentScript("sess_01ABC", batchAgentPaths{}, 0)
	assert.Contains(t, script, "timeout /t 1 /nobreak >nul")
}

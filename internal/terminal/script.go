package terminal

import (
	"fmt"
	"strings"
)

// shQuote single-quotes s for safe embedding in a bash script. Embedded
// single quotes become '\'' so injected text can never terminate the
// quoting and smuggle in extra statements.
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// appleScriptQuote escapes s for embedding inside an AppleScript string
// literal: backslashes first, then double quotes.
func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// unixAgentScript builds the bash script that runs inside a macOS or Linux
// terminal window. It mirrors all shell output into the log via tee (so the
// window stays visibly interactive), forks a loop that executes commands
// arriving on the named pipe, and leaves an interactive prompt for the
// human sitting at the window. The ready file doubles as the readiness
// handshake and carries the agent's PID for liveness probes.
func unixAgentScript(sessionID string, a *artifacts, workingDir string) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	if workingDir != "" {
		fmt.Fprintf(&b, "cd %s || exit 1\n", shQuote(workingDir))
	}
	fmt.Fprintf(&b, "exec > >(tee -a %s) 2>&1\n", shQuote(a.outputLog))
	fmt.Fprintf(&b, "echo $$ > %s\n", shQuote(a.readyFile))
	fmt.Fprintf(&b, "echo \"TermBridge agent started (session %s)\"\n", sessionID)
	b.WriteString("echo \"Working directory: $(pwd)\"\n")
	b.WriteString("echo \"\"\n")
	b.WriteString("(\n")
	b.WriteString("    while true; do\n")
	fmt.Fprintf(&b, "        if read -r cmd < %s; then\n", shQuote(a.inputPipe))
	b.WriteString("            if [ -n \"$cmd\" ]; then\n")
	b.WriteString("                echo \"\\$ $cmd\"\n")
	b.WriteString("                eval \"$cmd\"\n")
	b.WriteString("            fi\n")
	b.WriteString("        fi\n")
	b.WriteString("    done\n")
	b.WriteString(") &\n")
	b.WriteString("READER_PID=$!\n")
	b.WriteString("cleanup() {\n")
	b.WriteString("    kill $READER_PID 2>/dev/null\n")
	fmt.Fprintf(&b, "    rm -f %s %s 2>/dev/null\n", shQuote(a.inputPipe), shQuote(a.readyFile))
	b.WriteString("    exit 0\n")
	b.WriteString("}\n")
	b.WriteString("trap cleanup EXIT INT TERM\n")
	b.WriteString("while true; do\n")
	b.WriteString("    read -r -p \"> \" user_cmd || exit 0\n")
	b.WriteString("    if [ -n \"$user_cmd\" ]; then\n")
	b.WriteString("        echo \"\\$ $user_cmd\"\n")
	b.WriteString("        eval \"$user_cmd\"\n")
	b.WriteString("    fi\n")
	b.WriteString("done\n")

	return b.String()
}

// batchAgentPaths carries the file paths the windows agent needs, already
// translated into the namespace the batch script will run in (native
// Windows paths even when launched from WSL).
type batchAgentPaths struct {
	controlFile string
	workFile    string
	outputLog   string
	readyFile   string
	markerFile  string
	workingDir  string
}

// batchAgentScript builds the cmd.exe batch loop that runs inside a Windows
// terminal window. The visible console has no kernel pipe attached, so the
// loop polls the control file once per poll interval: it atomically claims
// the file with move, executes every claimed line in order, appends all
// output to the log, and deletes the claimed copy so nothing runs twice.
// Removing the marker file stops the loop.
func batchAgentScript(sessionID string, p batchAgentPaths, pollSeconds int) string {
	if pollSeconds < 1 {
		pollSeconds = 1
	}

	var b strings.Builder

	b.WriteString("@echo off\r\n")
	if p.workingDir != "" {
		fmt.Fprintf(&b, "cd /d \"%s\"\r\n", p.workingDir)
	}
	fmt.Fprintf(&b, "echo TermBridge agent started (session %s) >> \"%s\"\r\n", sessionID, p.outputLog)
	fmt.Fprintf(&b, "echo Working directory: %%CD%% >> \"%s\"\r\n", p.outputLog)
	fmt.Fprintf(&b, "echo TermBridge agent started (session %s)\r\n", sessionID)
	fmt.Fprintf(&b, "echo ok > \"%s\"\r\n", p.readyFile)
	b.WriteString("\r\n")
	b.WriteString(":loop\r\n")
	fmt.Fprintf(&b, "    if not exist \"%s\" (\r\n", p.markerFile)
	fmt.Fprintf(&b, "        echo Session terminated >> \"%s\"\r\n", p.outputLog)
	fmt.Fprintf(&b, "        del \"%s\" >nul 2>&1\r\n", p.readyFile)
	b.WriteString("        exit /b 0\r\n")
	b.WriteString("    )\r\n")
	fmt.Fprintf(&b, "    if exist \"%s\" (\r\n", p.controlFile)
	fmt.Fprintf(&b, "        move /y \"%s\" \"%s\" >nul 2>&1\r\n", p.controlFile, p.workFile)
	fmt.Fprintf(&b, "        if exist \"%s\" (\r\n", p.workFile)
	fmt.Fprintf(&b, "            for /f \"usebackq delims=\" %%%%i in (\"%s\") do (\r\n", p.workFile)
	b.WriteString("                echo $ %%i\r\n")
	fmt.Fprintf(&b, "                echo $ %%%%i >> \"%s\"\r\n", p.outputLog)
	fmt.Fprintf(&b, "                cmd /c %%%%i >> \"%s\" 2>&1\r\n", p.outputLog)
	b.WriteString("            )\r\n")
	fmt.Fprintf(&b, "            del \"%s\" >nul 2>&1\r\n", p.workFile)
	b.WriteString("        )\r\n")
	b.WriteString("    )\r\n")
	fmt.Fprintf(&b, "    timeout /t %d /nobreak >nul\r\n", pollSeconds)
	b.WriteString("goto loop\r\n")

	return b.String()
}

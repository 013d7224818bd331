package terminal

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// wslpathTimeout bounds the helper invocations; wslpath is local and fast,
// but a hung interop layer must not hang a launch.
const wslpathTimeout = 5 * time.Second

// wslToWindowsPath converts a WSL path (/mnt/c/...) to its Windows form
// (C:\...). It prefers the wslpath helper and falls back to a manual
// /mnt/<drive> translation when the helper is unavailable.
func wslToWindowsPath(path string) string {
	if out, err := runWSLPath("-w", path); err == nil && out != "" {
		return out
	}
	if strings.HasPrefix(path, "/mnt/") && len(path) > 5 {
		rest := path[5:]
		drive := strings.ToUpper(rest[:1])
		tail := ""
		if len(rest) > 1 {
			tail = strings.TrimPrefix(rest[1:], "/")
		}
		return drive + `:\` + strings.ReplaceAll(tail, "/", `\`)
	}
	return path
}

// windowsToWSLPath converts a Windows path (C:\...) to its WSL form
// (/mnt/c/...), with the same manual fallback.
func windowsToWSLPath(path string) string {
	if out, err := runWSLPath("-u", path); err == nil && out != "" {
		return out
	}
	p := strings.ReplaceAll(path, `\`, "/")
	if len(p) >= 2 && p[1] == ':' {
		drive := strings.ToLower(p[:1])
		return "/mnt/" + drive + p[2:]
	}
	return p
}

func runWSLPath(flag, path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), wslpathTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "wslpath", flag, path).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Package validate holds argument validation shared by the provider and
// HTTP layers: session names, working directories, and output line counts.
package validate

import (
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"
)

// Limits for caller-supplied values
const (
	MaxNameLength = 64
	MaxTextLength = 16 * 1024 // single command size limit

	DefaultLines = 100
	MaxLines     = 1000
)

// NamePattern allows alphanumeric, hyphens, underscores and dots
var NamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Name validates an optional session name. Empty is allowed (a name is
// autogenerated downstream).
func Name(name string) error {
	if name == "" {
		return nil
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", MaxNameLength)
	}
	if !NamePattern.MatchString(name) {
		return fmt.Errorf("name %q contains invalid characters (allowed: letters, digits, '.', '_', '-')", name)
	}
	return nil
}

// WorkingDir validates an optional working directory: when provided it must
// exist and be a directory.
func WorkingDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("working directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory %q is not a directory", dir)
	}
	return nil
}

// Text validates command text sent to a session.
func Text(text string) error {
	if text == "" {
		return fmt.Errorf("text must not be empty")
	}
	if len(text) > MaxTextLength {
		return fmt.Errorf("text exceeds %d bytes", MaxTextLength)
	}
	return nil
}

// Lines clamps a requested line count into [1, MaxLines]. Non-positive
// requests fall back to DefaultLines; anything above MaxLines is capped.
func Lines(requested int) int {
	if requested <= 0 {
		return DefaultLines
	}
	if requested > MaxLines {
		return MaxLines
	}
	return requested
}

// Package osa wraps the macOS osascript scripting engine. Every interaction
// with the desktop — process probes, window geometry, simulated keystrokes —
// goes through a Runner so the automation layer can be exercised in tests
// without touching a live desktop session.
package osa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an AppleScript source string and returns its result,
// which osascript prints to stdout (lists come back comma-and-space joined).
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// ErrEngineNotFound indicates the osascript binary is not on PATH,
// i.e. this is not a macOS host.
var ErrEngineNotFound = errors.New("osascript not found; askgpt requires macOS")

// OsascriptRunner shells out to /usr/bin/osascript.
type OsascriptRunner struct {
	// Binary overrides the osascript executable name. Empty means "osascript".
	Binary string
}

// NewRunner creates an OsascriptRunner using the default binary.
func NewRunner() *OsascriptRunner {
	return &OsascriptRunner{}
}

// Run executes the script via `osascript -e`. The caller's context governs
// cancellation; no additional timeout is imposed here because generation
// waits inside the scripts can legitimately run for many seconds.
func (r *OsascriptRunner) Run(ctx context.Context, script string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "osascript"
	}

	cmd := exec.CommandContext(ctx, binary, "-e", script)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return strings.TrimRight(stdout.String(), "\n"), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return "", ErrEngineNotFound
	}

	if ctx.Err() != nil {
		return "", fmt.Errorf("osascript canceled: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", exitErr.ExitCode())
		}
		return "", fmt.Errorf("osascript failed: %s", msg)
	}

	return "", fmt.Errorf("osascript failed: %w", err)
}

// Quote escapes s for embedding inside a double-quoted AppleScript string
// literal. Backslashes must be doubled before quotes are escaped.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// Package logpath resolves the askgpt log file location.
package logpath

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogName is the log file created next to the executable when no
// explicit path is configured.
const DefaultLogName = "askgpt.log"

// Resolve returns override when set, otherwise a path to DefaultLogName in
// the directory containing the running executable.
func Resolve(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("could not locate executable: %w", err)
	}

	return filepath.Join(filepath.Dir(exe), DefaultLogName), nil
}

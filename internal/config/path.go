// Package config defines the tunable surface of the pipeline: grid
// geometry, candidate filtering, and name-match thresholds, plus helpers
// for resolving user-supplied paths.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves ~ and $VAR references in a user-supplied path, so
// values like ~/.local/share/gridsense/gridsense.db work as written in
// the config file. If the home directory cannot be determined the tilde
// is left as-is.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

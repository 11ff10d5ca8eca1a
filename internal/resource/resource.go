// Package resource finds data files next to the working directory or the executable.
package resource

import (
	"os"
	"path/filepath"
)

// Candidates lists where name is looked for, in order: the working
// directory, the executable's directory, then each subdir of both.
func Candidates(name string, subdirs ...string) []string {
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	paths := []string{name}
	if exeDir != "" {
		paths = append(paths, filepath.Join(exeDir, name))
	}
	for _, sub := range subdirs {
		paths = append(paths, filepath.Join(sub, name))
		if exeDir != "" {
			paths = append(paths, filepath.Join(exeDir, sub, name))
		}
	}
	return paths
}

// Locate returns the first candidate that exists. When none do it returns
// the first candidate and false.
func Locate(candidates []string) (string, bool) {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			if abs, err := filepath.Abs(p); err == nil {
				return abs, true
			}
			return p, true
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], false
}

// Resolve uses override when set, otherwise locates name among the candidates.
func Resolve(override, name string, subdirs ...string) (string, bool) {
	if override != "" {
		_, err := os.Stat(override)
		return override, err == nil
	}
	return Locate(Candidates(name, subdirs...))
}

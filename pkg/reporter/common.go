package reporter

import (
	"path/filepath"
	"strings"
)

// displayPath makes path relative to workingDir for display, falling back
// to path unchanged if workingDir is empty or the relative path can't be
// computed (e.g. different volumes).
func displayPath(path, workingDir string) string {
	if workingDir == "" {
		return path
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil {
		return path
	}
	return rel
}

// severityLabel normalizes an empty severity string to "warning" for display.
func severityLabel(s string) string {
	if s == "" {
		return defaultSeverity
	}
	return s
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func indent(s string, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

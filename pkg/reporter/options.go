package reporter

import (
	"io"
	"os"
)

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// ShowContext includes the offending source line in plain/markdown output.
	ShowContext bool

	// Compact disables JSON/SARIF indentation.
	Compact bool

	// WorkingDir is the directory paths are made relative to for display.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatPlain,
		ShowContext: true,
	}
}

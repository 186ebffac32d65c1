// Package runner orchestrates multi-file lint/validate runs: it resolves
// the file set via pkg/enumerate, builds the repo-wide Section Index and
// Link Graph once, then lints each file concurrently through a shared
// lint.Engine so that cross-file rules (broken-links, broken-anchors) can
// resolve targets outside the file currently being linted.
package runner

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/fsutil"
)

// Options controls a multi-file run.
type Options struct {
	// Root is the project root enumeration and path resolution are
	// relative to.
	Root string

	// Paths are user-specified files or directories (the CLI's positional
	// arguments). Empty means "the whole project".
	Paths []string

	// Staged restricts the run to files staged in the git index.
	Staged bool

	// NoIgnore disables .markdown-doc-ignore filtering.
	NoIgnore bool

	// Fix applies each file's accepted edits and writes the result back,
	// honoring Backup.
	Fix bool

	// Backup controls backup file creation when Fix writes a file.
	Backup fsutil.BackupConfig

	// DryRun computes fixes and diffs without writing.
	DryRun bool

	// Jobs caps concurrent workers. 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// catalogConfig extracts the catalog include/exclude globs cfg carries,
// nil-safe so callers can pass a run with no loaded config.
func catalogConfig(cfg *config.Config) config.CatalogConfig {
	if cfg == nil {
		return config.CatalogConfig{}
	}
	return cfg.Catalog
}

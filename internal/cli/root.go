// Package cli provides the Cobra command structure for markdowndoc.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root markdowndoc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "markdowndoc",
		Short: "A documentation-management toolkit for Markdown repositories",
		Long: `markdowndoc extracts, edits, catalogs, lints, validates, and refactors
Markdown documentation at the section level.

It operates on byte-accurate heading spans rather than a full AST rewrite,
letting it extract or edit a single section, keep a repo-wide link graph and
table of contents in sync, and rewrite cross-file links when a file moves -
all through atomic, backed-up writes.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newCatalogCommand())
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newTOCCommand())
	rootCmd.AddCommand(newMoveCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

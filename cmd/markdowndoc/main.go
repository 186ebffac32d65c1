// Package main is the entry point for the markdowndoc CLI.
package main

import (
	"os"

	"github.com/wrenfold-docs/markdowndoc/internal/cli"
	"github.com/wrenfold-docs/markdowndoc/internal/logging"

	// Import rules package to register built-in rules via init().
	_ "github.com/wrenfold-docs/markdowndoc/pkg/lint/rules"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Build and execute the root command.
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		if cli.ShouldLog(err) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return 0
}

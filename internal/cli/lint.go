package cli

import (
	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
)

func newLintCommand() *cobra.Command {
	flags := &commonFlags{}
	var fix bool

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check broken links/anchors, heading hierarchy, TOC sync, and required sections",
		Long: `lint runs the rule-driven validation pipeline over a set of files:
broken-links, broken-anchors, duplicate-anchors, heading-hierarchy, toc-sync,
and required-sections. Findings are reported at the severity the config
file (or its defaults) assigns to each rule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			r := runner.New(newEngine())
			result, err := r.Run(cmd.Context(), runner.Options{
				Root:     flags.path,
				Paths:    args,
				Staged:   flags.staged,
				NoIgnore: flags.noIgnore,
				Fix:      fix,
				Backup:   flags.backupConfig(),
				DryRun:   flags.dryRun,
				Config:   cfg,
			})
			if err != nil {
				return newExitError(err, ExitGenericFailure)
			}

			rep, err := reporter.New(flags.reporterOptions(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			if _, err := rep.Report(cmd.Context(), result); err != nil {
				return err
			}

			if code := ExitCodeForLintResult(result); code != ExitSuccess {
				return newExitError(errLintFindings, code)
			}
			return nil
		},
	}

	registerCommonFlags(cmd, flags, false, true)
	cmd.Flags().BoolVar(&fix, "fix", false, "apply each finding's fix, if it has one")

	return cmd
}

// mustFormat parses a --format value, falling back to FormatPlain for a
// value reporter.ParseFormat does not recognize; it never panics.
func mustFormat(s string) reporter.Format {
	f, err := reporter.ParseFormat(s)
	if err != nil {
		return reporter.FormatPlain
	}
	return f
}

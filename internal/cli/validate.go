package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
	"github.com/wrenfold-docs/markdowndoc/pkg/enumerate"
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
	"github.com/wrenfold-docs/markdowndoc/pkg/schema"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

func newValidateCommand() *cobra.Command {
	flags := &commonFlags{}
	var schemaName string

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check files against a required-sections schema",
		Long: `validate checks each file's section structure against the schema that
applies to its path (the most-specific glob match in the config file's
[schemas.*] tables, or the schema named "default"), or against a single
named schema when --schema is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if schemaName != "" {
				if _, ok := cfg.Schemas[schemaName]; !ok {
					return newExitError(
						docerr.New(docerr.SchemaNotFound, "validate", fmt.Sprintf("schema %q not found", schemaName)),
						docerr.SchemaNotFound.ExitCode(),
					)
				}
			}

			result, err := runValidate(cmd.Context(), flags, cfg, args, schemaName)
			if err != nil {
				return newExitError(err, exitCodeForError(err))
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

	registerCommonFlags(cmd, flags, false, false)
	cmd.Flags().StringVar(&schemaName, "schema", "", "validate against this named schema instead of path-based resolution")

	return cmd
}

// runValidate enumerates files, resolves each one's schema, and builds a
// runner.Result carrying one lint.Diagnostic per schema.Violation so the
// existing reporters (which all render runner.Result) can be reused
// unchanged for validate's output.
func runValidate(ctx context.Context, flags *commonFlags, cfg *config.Config, paths []string, schemaOverride string) (*runner.Result, error) {
	files, err := enumerate.Discover(ctx, enumerate.Options{
		Root:          flags.path,
		ExplicitPaths: paths,
		Staged:        flags.staged,
		NoIgnore:      flags.noIgnore,
		Catalog:       cfg.Catalog,
	})
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	result := &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{}}}
	result.Stats.FilesDiscovered = len(files)

	for _, path := range files {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			result.Files = append(result.Files, runner.FileOutcome{Path: path, Error: readErr})
			result.Stats.FilesErrored++
			continue
		}

		_, sc, found, resolveErr := schema.Resolve(cfg, path, schemaOverride)
		if resolveErr != nil {
			return nil, resolveErr
		}
		if !found {
			result.Files = append(result.Files, runner.FileOutcome{Path: path})
			result.Stats.FilesProcessed++
			continue
		}

		spans := section.Scan(path, content)
		violations := schema.Validate(sc, spans)

		fr := &lint.FileResult{}
		for _, v := range violations {
			fr.Diagnostics = append(fr.Diagnostics, lint.Diagnostic{
				RuleID:      "required-sections",
				RuleName:    "required-sections",
				Message:     v.Message,
				Severity:    config.SeverityError,
				FilePath:    path,
				StartLine:   v.Line,
				StartColumn: 1,
			})
		}

		result.Files = append(result.Files, runner.FileOutcome{Path: path, FileResult: fr})
		result.Stats.FilesProcessed++
		result.Stats.DiagnosticsTotal += len(fr.Diagnostics)
		if len(fr.Diagnostics) > 0 {
			result.Stats.FilesWithIssues++
			result.Stats.DiagnosticsBySeverity["error"] += len(fr.Diagnostics)
		}
	}

	return result, nil
}

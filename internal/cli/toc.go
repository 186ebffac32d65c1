package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/fsutil"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
	"github.com/wrenfold-docs/markdowndoc/pkg/toc"
)

// tocJSONOutput is the toc command's --format json shape per spec §6.
type tocJSONOutput struct {
	Mode     string   `json:"mode"`
	Status   string   `json:"status"`
	Diff     string   `json:"diff,omitempty"`
	Messages []string `json:"messages"`
}

func newTOCCommand() *cobra.Command {
	flags := &commonFlags{}
	var mode string
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "toc [paths...]",
		Short: "Check, update, or diff marker-delimited tables of contents",
		Long: `toc locates <!-- toc --> ... <!-- tocstop --> marker blocks (or the
config file's configured markers) and renders them from the file's
headings. Mode check reports drift without writing, update writes the
rendered TOC back, and diff prints the would-be change without writing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "check" && mode != "update" && mode != "diff" {
				return fmt.Errorf("--mode must be one of check, update, diff")
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			files, contents, err := discoverAndRead(cmd.Context(), flags, cfg.Catalog, args)
			if err != nil {
				return newExitError(err, ExitGenericFailure)
			}

			anyChanged := false
			anyError := false
			for _, path := range files {
				result := toc.Run(path, contents[path], cfg.Lint.TOCStartMarker, cfg.Lint.TOCEndMarker, maxDepth)

				if err := reportTOCResult(cmd, flags, path, mode, result); err != nil {
					anyError = true
					continue
				}
				if result.Status == toc.StatusChanged {
					anyChanged = true
					if mode == "update" {
						if backupErr := writeTOCUpdate(cmd, flags, path, result); backupErr != nil {
							anyError = true
						}
					}
				}
			}

			if anyError {
				return newExitError(fmt.Errorf("one or more files could not be processed"), ExitGenericFailure)
			}
			if mode == "check" && anyChanged {
				return newExitError(errLintFindings, ExitGenericFailure)
			}
			return nil
		},
	}

	registerCommonFlags(cmd, flags, false, true)
	cmd.Flags().StringVar(&mode, "mode", "check", "toc mode: check, update, diff")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum heading depth included in the rendered TOC (0 = unlimited)")

	return cmd
}

func reportTOCResult(cmd *cobra.Command, flags *commonFlags, path, mode string, result *toc.Result) error {
	format := mustFormat(flags.format)

	if format == reporter.FormatJSON {
		out := tocJSONOutput{Mode: mode, Status: string(result.Status), Messages: result.Messages}
		if result.Diff != nil {
			out.Diff = result.Diff.FullString()
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	if flags.quiet {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, result.Status)
	if result.Diff != nil && result.Diff.HasChanges() && (mode == "diff" || format != reporter.FormatPlain) {
		fmt.Fprint(cmd.OutOrStdout(), result.Diff.FullString())
	}
	return nil
}

func writeTOCUpdate(cmd *cobra.Command, flags *commonFlags, path string, result *toc.Result) error {
	if flags.dryRun {
		return nil
	}
	ctx := cmd.Context()
	if _, err := fsutil.CreateBackup(ctx, path, flags.backupConfig()); err != nil {
		return err
	}
	return fsutil.WriteAtomic(ctx, path, result.Modified, 0)
}

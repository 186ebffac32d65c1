package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/edit"
)

func newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply a structural edit to one or more sections",
		Long: `edit resolves a heading pattern against a file's sections and applies
one of the six structural operations to the result: replace, delete,
append-to, prepend-to, insert-after, insert-before. The payload comes from
--with (a file path or - for stdin) or --with-string.`,
	}

	cmd.AddCommand(
		newEditVerbCommand(edit.OpReplace, "replace <pattern> <file>", "Replace a section (heading and body, or body only with --body-only)"),
		newEditVerbCommand(edit.OpDelete, "delete <pattern> <file>", "Delete a section, heading and body, entirely"),
		newEditVerbCommand(edit.OpAppendTo, "append-to <pattern> <file>", "Append the payload to the end of a section's body"),
		newEditVerbCommand(edit.OpPrependTo, "prepend-to <pattern> <file>", "Prepend the payload to the start of a section's body"),
		newEditVerbCommand(edit.OpInsertAfter, "insert-after <pattern> <file>", "Insert a new section (same depth or deeper) immediately after a section"),
		newEditVerbCommand(edit.OpInsertBefore, "insert-before <pattern> <file>", "Insert a new sibling section immediately before a section"),
	)

	return cmd
}

func newEditVerbCommand(op edit.Operation, use, short string) *cobra.Command {
	flags := &commonFlags{}
	var bodyOnly bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, path := args[0], args[1]

			payload, err := flags.loadPayload(cmd)
			if err != nil {
				return newExitError(err, exitCodeForError(err))
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return newExitError(fmt.Errorf("read %s: %w", path, err), ExitGenericFailure)
			}

			opts := flags.editOptions()
			opts.BodyOnly = bodyOnly

			result, _, err := edit.Run(cmd.Context(), op, path, content, pattern, payload, opts)
			if err != nil {
				return newExitError(err, exitCodeForError(err))
			}

			return reportEditResult(cmd, flags, result)
		},
	}

	registerCommonFlags(cmd, flags, true, true)
	if op == edit.OpReplace {
		cmd.Flags().BoolVar(&bodyOnly, "body-only", false, "replace only the section body, leaving its heading untouched")
	}

	return cmd
}

func reportEditResult(cmd *cobra.Command, flags *commonFlags, result *edit.Result) error {
	w := cmd.OutOrStdout()

	for _, msg := range result.Messages {
		fmt.Fprintln(w, msg)
	}

	if !result.Applied {
		return newExitError(fmt.Errorf("no section was changed"), result.ExitCode)
	}

	if !flags.quiet {
		if result.Diff != nil && (flags.dryRun || !flags.quiet) {
			fmt.Fprint(w, result.Diff.FullString())
		}
		if result.WrittenPath != "" {
			fmt.Fprintf(w, "wrote %s\n", result.WrittenPath)
		}
	}

	return nil
}

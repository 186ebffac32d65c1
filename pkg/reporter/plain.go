package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
)

// PlainReporter formats results as unstyled, grouped-by-file terminal text,
// in the same "file header, then one line per diagnostic" shape the
// teacher's text output used, minus styling.
type PlainReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewPlainReporter creates a new plain-text reporter.
func NewPlainReporter(opts Options) *PlainReporter {
	return &PlainReporter{
		opts: opts,
		bw:   bufio.NewWriter(opts.Writer),
	}
}

// Report implements Reporter.
func (r *PlainReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		fmt.Fprintln(r.bw, "no files checked")
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: error: %v\n", displayPath(file.Path, r.opts.WorkingDir), file.Error)
			continue
		}

		if file.FileResult == nil || len(file.FileResult.Diagnostics) == 0 {
			continue
		}

		path := displayPath(file.Path, r.opts.WorkingDir)
		fmt.Fprintf(r.bw, "%s (%d %s)\n", path, len(file.FileResult.Diagnostics),
			pluralize(len(file.FileResult.Diagnostics), "issue", "issues"))

		for _, diag := range file.FileResult.Diagnostics {
			fmt.Fprintf(r.bw, "  %d:%d  %-7s  %s  [%s]\n",
				diag.StartLine, diag.StartColumn, severityLabel(string(diag.Severity)), diag.Message, diag.RuleID)

			if r.opts.ShowContext && file.FileResult.Snapshot != nil {
				if line := file.FileResult.Snapshot.LineContent(diag.StartLine); len(line) > 0 {
					fmt.Fprintf(r.bw, "      | %s\n", line)
				}
			}
			if diag.Suggestion != "" {
				fmt.Fprintf(r.bw, "      suggestion: %s\n", diag.Suggestion)
			}
			total++
		}

		if file.Diff != nil && file.Diff.HasChanges() {
			fmt.Fprint(r.bw, indent(file.Diff.FullString(), "  "))
			fmt.Fprintln(r.bw)
		}

		fmt.Fprintln(r.bw)
	}

	fmt.Fprintf(r.bw, "%d %s, %d %s with issues, %d %s\n",
		result.Stats.DiagnosticsTotal, pluralize(result.Stats.DiagnosticsTotal, "issue", "issues"),
		result.Stats.FilesWithIssues, pluralize(result.Stats.FilesWithIssues, "file", "files"),
		result.Stats.FilesModified, pluralize(result.Stats.FilesModified, "file fixed", "files fixed"))

	return total, nil
}

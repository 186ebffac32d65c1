package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
)

// MarkdownReporter renders results as a Markdown report, suitable for
// posting as a pull request comment or CI job summary.
type MarkdownReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(opts Options) *MarkdownReporter {
	return &MarkdownReporter{
		opts: opts,
		bw:   bufio.NewWriter(opts.Writer),
	}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		fmt.Fprintln(r.bw, "No files checked.")
		return 0, nil
	}

	fmt.Fprintf(r.bw, "## markdowndoc report\n\n")
	fmt.Fprintf(r.bw, "%d file(s) checked, %d with issues, %d fixed.\n\n",
		result.Stats.FilesProcessed, result.Stats.FilesWithIssues, result.Stats.FilesModified)

	if result.Stats.DiagnosticsTotal == 0 {
		fmt.Fprintln(r.bw, "No issues found.")
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "### %s\n\n**error:** %v\n\n", displayPath(file.Path, r.opts.WorkingDir), file.Error)
			continue
		}

		if file.FileResult == nil || len(file.FileResult.Diagnostics) == 0 {
			continue
		}

		fmt.Fprintf(r.bw, "### %s\n\n", displayPath(file.Path, r.opts.WorkingDir))
		fmt.Fprintln(r.bw, "| Line | Severity | Rule | Message |")
		fmt.Fprintln(r.bw, "|---|---|---|---|")

		for _, diag := range file.FileResult.Diagnostics {
			fmt.Fprintf(r.bw, "| %d | %s | `%s` | %s |\n",
				diag.StartLine, severityLabel(string(diag.Severity)), diag.RuleID, diag.Message)
			total++
		}
		fmt.Fprintln(r.bw)

		if file.Diff != nil && file.Diff.HasChanges() {
			fmt.Fprintf(r.bw, "```diff\n%s```\n\n", file.Diff.String())
		}
	}

	return total, nil
}

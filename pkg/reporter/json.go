package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
)

const defaultSeverity = "warning"

// JSONOutput is the lint/validate JSON shape: a summary plus a flat,
// deterministically ordered findings list.
type JSONOutput struct {
	Summary  JSONSummary   `json:"summary"`
	Findings []JSONFinding `json:"findings"`
}

// JSONSummary holds the three aggregate counts the shape specifies.
type JSONSummary struct {
	FilesScanned int `json:"files_scanned"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
}

// JSONFinding is one diagnostic, flattened across every scanned file.
type JSONFinding struct {
	Rule       string `json:"rule"`
	Severity   string `json:"severity"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriter(opts.Writer),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return len(output.Findings), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{Findings: make([]JSONFinding, 0)}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		if file.Error != nil {
			continue
		}
		output.Summary.FilesScanned++

		if file.FileResult == nil {
			continue
		}
		for _, diag := range file.FileResult.Diagnostics {
			severity := severityLabel(string(diag.Severity))
			output.Findings = append(output.Findings, JSONFinding{
				Rule:       diag.RuleID,
				Severity:   severity,
				File:       displayPath(file.Path, r.opts.WorkingDir),
				Line:       diag.StartLine,
				Message:    diag.Message,
				Suggestion: diag.Suggestion,
			})
			switch severity {
			case "error":
				output.Summary.Errors++
			case "warning":
				output.Summary.Warnings++
			}
		}
	}

	return output
}

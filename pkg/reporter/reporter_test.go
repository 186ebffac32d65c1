package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
)

func sampleResult() *runner.Result {
	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "docs/guide.md",
				FileResult: &lint.FileResult{
					Diagnostics: []lint.Diagnostic{
						{
							RuleID:      "broken-links",
							Message:     "link target not found",
							Severity:    config.SeverityError,
							StartLine:   4,
							StartColumn: 1,
						},
						{
							RuleID:      "heading-hierarchy",
							Message:     "heading depth skips a level",
							Severity:    config.SeverityWarning,
							StartLine:   9,
							StartColumn: 1,
						},
					},
				},
			},
		},
		Stats: runner.Stats{
			FilesProcessed:   1,
			FilesWithIssues:  1,
			DiagnosticsTotal: 2,
			DiagnosticsBySeverity: map[string]int{
				"error":   1,
				"warning": 1,
			},
		},
	}
	return result
}

func TestJSONReporter_MatchesShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON})
	require.NoError(t, err)

	count, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 1, out.Summary.FilesScanned)
	assert.Equal(t, 1, out.Summary.Errors)
	assert.Equal(t, 1, out.Summary.Warnings)
	require.Len(t, out.Findings, 2)
	assert.Equal(t, "broken-links", out.Findings[0].Rule)
	assert.Equal(t, "docs/guide.md", out.Findings[0].File)
}

func TestSARIFReporter_MapsSeverities(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatSARIF})
	require.NoError(t, err)

	_, err = r.Report(context.Background(), sampleResult())
	require.NoError(t, err)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Runs[0].Results, 2)
	assert.Equal(t, "error", out.Runs[0].Results[0].Level)
	assert.Equal(t, "warning", out.Runs[0].Results[1].Level)
}

func TestPlainReporter_ListsDiagnosticsPerFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatPlain})
	require.NoError(t, err)

	count, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, buf.String(), "docs/guide.md")
	assert.Contains(t, buf.String(), "broken-links")
}

func TestMarkdownReporter_RendersTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatMarkdown})
	require.NoError(t, err)

	_, err = r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "| Line | Severity | Rule | Message |")
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNew_EmptyResultProducesNoFindings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON})
	require.NoError(t, err)

	count, err := r.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

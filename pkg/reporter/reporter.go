// Package reporter renders a runner.Result into one of the four output
// formats the CLI surface exposes via --format: plain, json, markdown, and
// sarif.
package reporter

import (
	"context"
	"fmt"

	"github.com/wrenfold-docs/markdowndoc/pkg/runner"
)

// Reporter formats and writes lint/validate results.
type Reporter interface {
	// Report writes formatted output for the given result and returns the
	// number of diagnostics reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatPlain
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatMarkdown:
		return NewMarkdownReporter(opts), nil
	case FormatPlain:
		return NewPlainReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

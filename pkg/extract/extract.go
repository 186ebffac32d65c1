// Package extract implements the section extractor: the read-only
// counterpart to the Edit Engine (C5) that resolves a heading pattern
// against a file's SectionSpans and renders the matched sections' raw
// bytes, per spec §6's extract(pattern, input, options) operation.
package extract

import (
	"fmt"

	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// Options controls matching and the match-count rule, mirroring the subset
// of pkg/edit.Options that applies to a read-only operation.
type Options struct {
	// CaseSensitive disables the default case-insensitive heading match.
	CaseSensitive bool

	// All extracts every matching section instead of failing on more than
	// one match.
	All bool

	// MaxMatches caps the number of sections an ambiguous pattern may
	// resolve to; 0 means "exactly one match required unless All is set".
	MaxMatches int

	// HeadingOnly renders only the heading line of each match, without its
	// body.
	HeadingOnly bool
}

// Match is one extracted section: its byte range within the source content
// and the rendered bytes the range names.
type Match struct {
	Path        string
	Title       string
	Anchor      string
	Depth       int
	StartOffset int
	EndOffset   int
	LineNumber  int
	Rendered    []byte
}

// Run resolves pattern against content's section headings and renders each
// resulting match's bytes in document order.
func Run(path string, content []byte, pattern string, opts Options) ([]Match, error) {
	spans := section.Scan(path, content)

	matches, err := section.Match(spans, pattern, opts.CaseSensitive)
	if err != nil {
		return nil, docerr.New(docerr.BadRegex, "extract", err.Error())
	}

	targets, err := resolveTargets(matches, opts)
	if err != nil {
		return nil, err
	}

	results := make([]Match, 0, len(targets))
	for _, t := range targets {
		start, end := t.HeadingStart, t.BodyEnd
		if opts.HeadingOnly {
			end = t.HeadingEnd
		}
		results = append(results, Match{
			Path:        path,
			Title:       t.NormalizedTitle,
			Anchor:      t.Anchor,
			Depth:       t.Depth,
			StartOffset: start,
			EndOffset:   end,
			LineNumber:  t.LineNumber,
			Rendered:    content[start:end],
		})
	}
	return results, nil
}

// resolveTargets applies the same match-count rules as the Edit Engine:
// zero matches always fails, a single match always succeeds, and more than
// one match requires either All or a satisfied MaxMatches.
func resolveTargets(matches []*section.SectionSpan, opts Options) ([]*section.SectionSpan, error) {
	if len(matches) == 0 {
		return nil, docerr.New(docerr.SectionNotFound, "extract", "no section heading matches pattern")
	}
	if len(matches) == 1 {
		return matches, nil
	}
	if opts.MaxMatches > 0 {
		if len(matches) > opts.MaxMatches {
			return nil, docerr.New(docerr.MaxMatchesExceeded, "extract",
				fmt.Sprintf("%d sections matched, exceeds max-matches=%d", len(matches), opts.MaxMatches))
		}
		return matches, nil
	}
	if opts.All {
		return matches, nil
	}
	return nil, docerr.New(docerr.MultipleMatches, "extract",
		fmt.Sprintf("%d sections matched the pattern; pass --all or --max-matches to extract more than one", len(matches)))
}

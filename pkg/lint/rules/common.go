package rules

import (
	"strconv"

	"github.com/agext/levenshtein"

	"github.com/wrenfold-docs/markdowndoc/pkg/mdast"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// mdastPosition converts a scanned section span's heading line into the
// single-line SourcePosition diagnostics are built from.
func mdastPosition(s *section.SectionSpan) mdast.SourcePosition {
	return mdast.SourcePosition{
		StartLine:   s.LineNumber,
		StartColumn: 1,
		EndLine:     s.LineNumber,
		EndColumn:   1,
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// mdast0LinePosition builds a single-line SourcePosition for a violation
// whose line is 0 (not anchored to a specific heading, e.g. "file has no
// sections"), falling back to line 1.
func mdast0LinePosition(line int) mdast.SourcePosition {
	if line <= 0 {
		line = 1
	}
	return mdast.SourcePosition{StartLine: line, StartColumn: 1, EndLine: line, EndColumn: 1}
}

// nearest returns the candidate closest to target by edit distance, or ""
// if candidates is empty or nothing is within a reasonable threshold. Used
// by broken-anchors to suggest the nearest existing anchor when a link
// target is missing.
func nearest(target string, candidates []string) string {
	best := ""
	bestDist := -1
	threshold := len(target)/3 + 2
	for _, c := range candidates {
		d := levenshtein.Distance(target, c, nil)
		if d > threshold {
			continue
		}
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

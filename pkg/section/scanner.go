// Package section implements the Scanner (C1): a byte-indexed forward scan
// over a Markdown file that produces an ordered, non-overlapping sequence of
// SectionSpans, tracking fenced code, indented code, and front matter so
// that headings inside any of those are never recognized.
package section

import (
	"bytes"
	"regexp"

	"github.com/wrenfold-docs/markdowndoc/pkg/anchor"
	"github.com/wrenfold-docs/markdowndoc/pkg/mdast"
)

// HeadingKind distinguishes ATX (`# Title`) from Setext (`Title\n===`) headings.
type HeadingKind int

const (
	KindATX HeadingKind = iota
	KindSetext
)

func (k HeadingKind) String() string {
	if k == KindSetext {
		return "setext"
	}
	return "atx"
}

// LineEnding is the line-ending style detected for a file.
type LineEnding int

const (
	LF LineEnding = iota
	CRLF
)

// DetectLineEnding inspects the first newline in content to classify the
// file's line-ending style. Files with no newline are treated as LF.
func DetectLineEnding(content []byte) LineEnding {
	i := bytes.IndexByte(content, '\n')
	if i > 0 && content[i-1] == '\r' {
		return CRLF
	}
	return LF
}

// SectionSpan is one heading and the bytes it owns, per spec §3.
type SectionSpan struct {
	Path            string
	Depth           int
	Kind            HeadingKind
	RawTitle        []byte
	NormalizedTitle string
	Anchor          string
	HeadingStart    int
	HeadingEnd      int
	BodyStart       int
	BodyEnd         int
	LineNumber      int
}

var (
	atxRe            = regexp.MustCompile(`^ {0,3}(#{1,6})[ \t](.*)$`)
	fenceBacktickRe  = regexp.MustCompile("^ {0,3}(`{3,})([^`]*)$")
	fenceTildeRe     = regexp.MustCompile(`^ {0,3}(~{3,})(.*)$`)
	setextEqRe       = regexp.MustCompile(`^=+[ \t]*$`)
	setextDashRe     = regexp.MustCompile(`^-+[ \t]*$`)
	frontMatterLine  = []byte("---")
	frontMatterEndLn = []byte("...")
)

type fenceState struct {
	char byte
	run  int
}

// Scan parses content into an ordered list of SectionSpans. path is recorded
// on each span for downstream consumers (Section Index, Link Graph, lint
// findings) but is not used for any I/O.
func Scan(path string, content []byte) []*SectionSpan {
	lines := mdast.BuildLines(content)
	n := len(lines)

	startLine := 0
	if fmEnd, ok := frontMatterEndLine(content, lines); ok {
		startLine = fmEnd + 1
	}

	// Exactly one section is "open" at a time: every new heading — regardless
	// of depth — closes the immediately preceding section at its own
	// heading_start. This keeps the partition invariant of spec §8 exact
	// (no gaps, no overlaps); depth only decides nesting for callers that
	// reconstruct hierarchy from the flat, depth-annotated sequence (e.g.
	// the TOC Engine, heading-hierarchy lint rule).
	var open *SectionSpan
	var spans []*SectionSpan
	alloc := anchor.NewAllocator()

	var fence *fenceState
	inIndented := false
	prevBlank := true

	lineText := func(li mdast.LineInfo) []byte {
		return content[li.StartOffset:li.NewlineStart]
	}

	push := func(span *SectionSpan) {
		if open != nil {
			open.BodyEnd = span.HeadingStart
		}
		open = span
		spans = append(spans, span)
	}

	emitHeading := func(depth int, kind HeadingKind, rawTitle []byte, headingStart, headingEnd, lineNumber int) {
		normalized := anchor.Normalize(rawTitle)
		span := &SectionSpan{
			Path:            path,
			Depth:           depth,
			Kind:            kind,
			RawTitle:        rawTitle,
			NormalizedTitle: normalized,
			Anchor:          alloc.Allocate(normalized),
			HeadingStart:    headingStart,
			HeadingEnd:      headingEnd,
			BodyStart:       headingEnd,
			BodyEnd:         headingEnd,
			LineNumber:      lineNumber,
		}
		push(span)
	}

	i := startLine
	for i < n {
		li := lines[i]
		text := lineText(li)

		if fence != nil {
			if isClosingFence(text, fence.char, fence.run) {
				fence = nil
			}
			prevBlank = len(bytes.TrimSpace(text)) == 0
			i++
			continue
		}

		if inIndented {
			if len(bytes.TrimSpace(text)) == 0 {
				i++
				continue
			}
			if hasIndent4(text) {
				i++
				continue
			}
			inIndented = false
			// fall through: re-evaluate this line normally.
		}

		if m := fenceBacktickRe.FindSubmatch(text); m != nil {
			fence = &fenceState{char: '`', run: len(m[1])}
			prevBlank = false
			i++
			continue
		}
		if m := fenceTildeRe.FindSubmatch(text); m != nil {
			fence = &fenceState{char: '~', run: len(m[1])}
			prevBlank = false
			i++
			continue
		}

		trimmedBlank := len(bytes.TrimSpace(text)) == 0
		if !trimmedBlank && prevBlank && hasIndent4(text) {
			inIndented = true
			prevBlank = false
			i++
			continue
		}

		if m := atxRe.FindSubmatch(text); m != nil {
			depth := len(m[1])
			raw := m[2]
			emitHeading(depth, KindATX, raw, li.StartOffset, li.EndOffset, i+1)
			prevBlank = false
			i++
			continue
		}

		if !trimmedBlank && i+1 < n {
			next := lineText(lines[i+1])
			if setextEqRe.Match(next) {
				emitHeading(1, KindSetext, bytes.TrimRight(text, " \t"), li.StartOffset, lines[i+1].EndOffset, i+1)
				prevBlank = false
				i += 2
				continue
			}
			if setextDashRe.Match(next) {
				emitHeading(2, KindSetext, bytes.TrimRight(text, " \t"), li.StartOffset, lines[i+1].EndOffset, i+1)
				prevBlank = false
				i += 2
				continue
			}
		}

		prevBlank = trimmedBlank
		i++
	}

	if open != nil {
		open.BodyEnd = len(content)
	}

	return spans
}

func hasIndent4(text []byte) bool {
	count := 0
	for count < len(text) && text[count] == ' ' {
		count++
	}
	return count >= 4
}

func isClosingFence(text []byte, char byte, minRun int) bool {
	trimmed := bytes.TrimRight(bytes.TrimLeft(text, " "), " \t")
	if len(trimmed) < minRun {
		return false
	}
	for _, b := range trimmed {
		if b != char {
			return false
		}
	}
	return true
}

// Match compiles pattern (case-insensitively unless caseSensitive is set)
// and returns every span in spans whose NormalizedTitle matches it, in
// document order. Shared by the Edit Engine and the section extractor, both
// of which resolve a heading pattern to a set of target sections the same
// way before diverging on what they do with the result.
func Match(spans []*SectionSpan, pattern string, caseSensitive bool) ([]*SectionSpan, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	var matches []*SectionSpan
	for _, s := range spans {
		if re.MatchString(s.NormalizedTitle) {
			matches = append(matches, s)
		}
	}
	return matches, nil
}

// frontMatterEndLine returns the 0-based index of the closing front-matter
// delimiter line, if content begins with a front-matter block per spec §4.1.
func frontMatterEndLine(content []byte, lines []mdast.LineInfo) (int, bool) {
	if len(lines) == 0 {
		return 0, false
	}
	first := content[lines[0].StartOffset:lines[0].NewlineStart]
	first = bytes.TrimPrefix(first, []byte{0xEF, 0xBB, 0xBF}) // optional BOM
	if !bytes.Equal(first, frontMatterLine) {
		return 0, false
	}
	for i := 1; i < len(lines); i++ {
		text := content[lines[i].StartOffset:lines[i].NewlineStart]
		if bytes.Equal(text, frontMatterLine) || bytes.Equal(text, frontMatterEndLn) {
			return i, true
		}
	}
	return 0, false
}

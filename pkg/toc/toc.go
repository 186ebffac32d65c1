// Package toc implements the TOC Engine (C9): locating marker-delimited
// table-of-contents blocks, rendering them from a file's headings, and
// running them in check/update/diff modes per spec §4.9.
package toc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wrenfold-docs/markdowndoc/pkg/fix"
	"github.com/wrenfold-docs/markdowndoc/pkg/mdast"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// Block is one marker-delimited region found in a file: the start marker
// line, the body between the markers, and the end marker line.
type Block struct {
	StartLineStart int // byte offset of the start marker line.
	BodyStart      int // byte offset immediately after the start marker's newline.
	BodyEnd        int // byte offset of the end marker line.
	EndLineEnd     int // byte offset immediately after the end marker's newline (or EOF).
}

// FindBlocks locates every marker pair in content. Detection matches spec
// §4.9: a line whose trimmed content equals startMarker opens a block; the
// next line whose trimmed content equals endMarker closes it. A dangling
// start marker with no matching end marker is not a block and is ignored.
func FindBlocks(content []byte, startMarker, endMarker string) []*Block {
	lines := mdast.BuildLines(content)
	var blocks []*Block

	i := 0
	for i < len(lines) {
		text := strings.TrimSpace(string(content[lines[i].StartOffset:lines[i].NewlineStart]))
		if text != startMarker {
			i++
			continue
		}
		startLineStart := lines[i].StartOffset
		bodyStart := lines[i].EndOffset

		end := -1
		for j := i + 1; j < len(lines); j++ {
			t := strings.TrimSpace(string(content[lines[j].StartOffset:lines[j].NewlineStart]))
			if t == endMarker {
				end = j
				break
			}
		}
		if end < 0 {
			i++
			continue
		}

		blocks = append(blocks, &Block{
			StartLineStart: startLineStart,
			BodyStart:      bodyStart,
			BodyEnd:        lines[end].StartOffset,
			EndLineEnd:     lines[end].EndOffset,
		})
		i = end + 1
	}
	return blocks
}

// Render produces the TOC body text for spans, one line per heading whose
// depth is within maxDepth (0 means unlimited), indented 2 spaces per level
// below the shallowest included heading. relativePrefix is prepended to the
// "#anchor" link, allowing a future cross-file TOC to point elsewhere; the
// same-file case (the only one spec §4.9 describes) passes "".
func Render(spans []*section.SectionSpan, maxDepth int, relativePrefix string) string {
	var included []*section.SectionSpan
	for _, s := range spans {
		if maxDepth > 0 && s.Depth > maxDepth {
			continue
		}
		included = append(included, s)
	}
	if len(included) == 0 {
		return ""
	}

	minDepth := included[0].Depth
	for _, s := range included {
		if s.Depth < minDepth {
			minDepth = s.Depth
		}
	}

	var b strings.Builder
	for _, s := range included {
		indent := strings.Repeat("  ", s.Depth-minDepth)
		fmt.Fprintf(&b, "%s- [%s](%s#%s)\n", indent, s.NormalizedTitle, relativePrefix, s.Anchor)
	}
	return b.String()
}

// Status classifies the outcome of running a TOC operation against a file.
type Status string

const (
	StatusValid     Status = "valid"
	StatusUnchanged Status = "unchanged"
	StatusChanged   Status = "changed"
	StatusError     Status = "error"
)

// Result is the outcome of running check/update/diff against one file.
type Result struct {
	Status   Status
	Blocks   int
	Modified []byte
	Diff     *fix.Diff
	Messages []string
}

// Run renders every block found in content against startMarker/endMarker
// and maxDepth, and reports whether the file already matches; callers decide
// what the check, update and diff modes do with the Result. It never
// mutates content; callers that want the write applied use Result.Modified
// with their own atomic-write path (pkg/fsutil), matching the rest of the
// toolkit's plan/commit separation.
func Run(path string, content []byte, startMarker, endMarker string, maxDepth int) *Result {
	blocks := FindBlocks(content, startMarker, endMarker)
	if len(blocks) == 0 {
		return &Result{Status: StatusValid, Blocks: 0}
	}

	spans := section.Scan(path, content)

	var out bytes.Buffer
	cursor := 0
	changed := false
	for _, blk := range blocks {
		out.Write(content[cursor:blk.BodyStart])
		rendered := Render(spans, maxDepth, "")
		existing := content[blk.BodyStart:blk.BodyEnd]
		if string(existing) != rendered {
			changed = true
		}
		out.WriteString(rendered)
		cursor = blk.BodyEnd
	}
	out.Write(content[cursor:])
	modified := out.Bytes()

	status := StatusUnchanged
	var diff *fix.Diff
	if changed {
		status = StatusChanged
		diff = fix.GenerateDiff(path, content, modified)
	}

	return &Result{Status: status, Blocks: len(blocks), Modified: modified, Diff: diff}
}

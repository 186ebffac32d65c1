// Package linkscan implements the Link Extractor (C3): enumerating
// inline/reference/image links with byte ranges from a parsed document.
//
// Structural discovery (which nodes are links/images, and their byte ranges)
// is delegated to goldmark via the teacher's pkg/parser/goldmark, since the
// pack already carries that grammar authority; reference-style detection
// (inline vs. full vs. collapsed vs. shortcut) reuses pkg/lint/refs, which
// already solves this exact problem by combining the AST with a raw-source
// scan — goldmark itself normalizes that distinction away during parsing.
package linkscan

import (
	"strings"

	"github.com/wrenfold-docs/markdowndoc/pkg/lint/refs"
	"github.com/wrenfold-docs/markdowndoc/pkg/mdast"
)

// Kind classifies a discovered link per spec §3.
type Kind int

const (
	KindInline Kind = iota
	KindReference
	KindImage
	KindAutolink
	KindAnchorOnly
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindImage:
		return "image"
	case KindAutolink:
		return "autolink"
	case KindAnchorOnly:
		return "anchor-only"
	default:
		return "inline"
	}
}

// Link is one discovered link or image, per spec §3.
type Link struct {
	SourcePath    string
	ByteRange     mdast.SourceRange
	Kind          Kind
	RawTarget     string
	TargetPath    string
	TargetAnchor  string
	LineNumber    int
}

// Scan discovers every link/image in root (a parsed document's AST) and
// returns them in document order with byte ranges covering the full link
// expression.
func Scan(sourcePath string, root *mdast.Node, file *mdast.FileSnapshot) []*Link {
	ctx := refs.Collect(root, file)

	links := make([]*Link, 0, len(ctx.Usages))
	for _, usage := range ctx.Usages {
		kind := classify(usage)
		rawTarget := usage.Destination
		targetPath, targetAnchor := SplitTarget(rawTarget)

		byteRange := mdast.SourceRange{}
		if usage.Node != nil {
			byteRange = usage.Node.SourceRange()
		}

		line := usage.Position.StartLine

		links = append(links, &Link{
			SourcePath:   sourcePath,
			ByteRange:    byteRange,
			Kind:         kind,
			RawTarget:    rawTarget,
			TargetPath:   targetPath,
			TargetAnchor: targetAnchor,
			LineNumber:   line,
		})
	}
	return links
}

func classify(usage *refs.ReferenceUsage) Kind {
	switch {
	case usage.Style == refs.StyleAutolink:
		return KindAutolink
	case usage.IsImage:
		return KindImage
	case usage.Destination == "" || strings.HasPrefix(usage.Destination, "#"):
		return KindAnchorOnly
	case usage.Style == refs.StyleFull || usage.Style == refs.StyleCollapsed || usage.Style == refs.StyleShortcut:
		return KindReference
	default:
		return KindInline
	}
}

// SplitTarget splits target at the first unescaped '#' into path and anchor,
// per spec §4.3. Whitespace inside the target is preserved verbatim.
func SplitTarget(target string) (path, anchorFrag string) {
	for i := 0; i < len(target); i++ {
		if target[i] == '\\' {
			i++
			continue
		}
		if target[i] == '#' {
			return target[:i], target[i+1:]
		}
	}
	return target, ""
}

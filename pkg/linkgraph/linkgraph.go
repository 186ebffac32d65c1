// Package linkgraph implements the Link Graph (C7): resolving every
// discovered link against the Section Index to build a forward index
// (source file -> resolved links) and a reverse index (target -> backrefs),
// the structure the broken-links/broken-anchors rules and the Refactor
// Planner both query.
package linkgraph

import (
	"path"
	"strings"

	"github.com/wrenfold-docs/markdowndoc/pkg/docindex"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkscan"
)

// Target identifies a resolved link destination: a file path plus an
// optional anchor within it. An anchor-only link shares the source path.
type Target struct {
	Path   string
	Anchor string // "" if the link has no anchor component.
}

// ResolvedLink pairs a discovered link with its resolution outcome.
type ResolvedLink struct {
	*linkscan.Link

	// Target is the resolved destination. Resolved is false when the
	// target path does not appear in the index (a broken link candidate);
	// anchor-only and absolute/relative resolutions always set Resolved
	// when the path is known, independent of whether the anchor itself
	// exists (that is the broken-anchors rule's job).
	Target   Target
	Resolved bool
}

// Graph holds the resolved forward/reverse link indexes for a selected
// file set.
type Graph struct {
	index   *docindex.RepoIndex
	forward map[string][]*ResolvedLink
	reverse map[Target][]*ResolvedLink
}

// Build resolves every link in links (keyed by source path) against index
// and returns the populated Graph. links should contain one entry per
// scanned file, in the same path space as index.
func Build(index *docindex.RepoIndex, links map[string][]*linkscan.Link) *Graph {
	g := &Graph{
		index:   index,
		forward: make(map[string][]*ResolvedLink),
		reverse: make(map[Target][]*ResolvedLink),
	}

	for source, fileLinks := range links {
		for _, l := range fileLinks {
			resolved := g.resolve(source, l)
			g.forward[source] = append(g.forward[source], resolved)
			if resolved.Resolved {
				g.reverse[resolved.Target] = append(g.reverse[resolved.Target], resolved)
			}
		}
	}
	return g
}

// resolve implements the four target forms from spec §4.7: anchor-only,
// relative path, root-absolute path, and extensionless verbatim lookup.
func (g *Graph) resolve(source string, l *linkscan.Link) *ResolvedLink {
	raw := l.TargetPath
	anchor := l.TargetAnchor

	// Anchor-only: no path component, just "#anchor".
	if raw == "" {
		return &ResolvedLink{Link: l, Target: Target{Path: source, Anchor: anchor}, Resolved: true}
	}

	var candidate string
	switch {
	case strings.HasPrefix(raw, "/"):
		// Absolute path, anchored at the project root.
		candidate = docindex.Canonicalize(strings.TrimPrefix(raw, "/"))
	default:
		// Relative to the referencing file's directory.
		dir := path.Dir(source)
		candidate = docindex.Canonicalize(path.Join(dir, raw))
	}

	if _, ok := g.index.Get(candidate); ok {
		return &ResolvedLink{Link: l, Target: Target{Path: candidate, Anchor: anchor}, Resolved: true}
	}

	// Extensionless, non-directory targets are still looked up verbatim
	// (e.g. a link to a renamed-but-not-yet-reindexed path); if even the
	// verbatim form is absent, the link is unresolved.
	if !strings.HasSuffix(raw, ".md") && !strings.HasSuffix(raw, "/") {
		if _, ok := g.index.Get(raw); ok {
			return &ResolvedLink{Link: l, Target: Target{Path: docindex.Canonicalize(raw), Anchor: anchor}, Resolved: true}
		}
	}

	return &ResolvedLink{Link: l, Target: Target{Path: candidate, Anchor: anchor}, Resolved: false}
}

// Forward returns the resolved links discovered in source, in document
// order.
func (g *Graph) Forward(source string) []*ResolvedLink {
	return g.forward[source]
}

// Reverse returns every resolved link that targets (path, anchor). Pass an
// empty anchor to query whole-file backrefs only.
func (g *Graph) Reverse(target Target) []*ResolvedLink {
	return g.reverse[target]
}

// Sources returns every source path with at least one discovered link.
func (g *Graph) Sources() []string {
	sources := make([]string, 0, len(g.forward))
	for s := range g.forward {
		sources = append(sources, s)
	}
	return sources
}

// Broken returns every unresolved link across all sources, anchor-only
// links and autolinks excluded per the broken-links rule's suppression rule.
func (g *Graph) Broken() []*ResolvedLink {
	var broken []*ResolvedLink
	for _, links := range g.forward {
		for _, l := range links {
			if !l.Resolved && l.Kind != linkscan.KindAnchorOnly && l.Kind != linkscan.KindAutolink {
				broken = append(broken, l)
			}
		}
	}
	return broken
}

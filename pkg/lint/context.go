package lint

import (
	"context"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/docindex"
	"github.com/wrenfold-docs/markdowndoc/pkg/fix"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkgraph"
	"github.com/wrenfold-docs/markdowndoc/pkg/lint/refs"
	"github.com/wrenfold-docs/markdowndoc/pkg/mdast"
)

// RuleContext provides all context needed by a rule to perform linting.
//
// Design note: RuleContext stores context.Context as a field (Ctx) rather than
// passing it as a method parameter. This is acceptable because RuleContext is
// a short-lived parameter object created per-rule-invocation, not a long-lived
// struct. This design simplifies the Rule interface (single Apply method) while
// still providing cancellation support via the Cancelled() helper.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the parsed FileSnapshot.
	File *mdast.FileSnapshot

	// Root is the AST root node (convenience alias for File.Root).
	Root *mdast.Node

	// Config is the resolved configuration.
	Config *config.Config

	// Builder accumulates text edits for auto-fix.
	Builder *fix.EditBuilder

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	// Index is the repo-wide Section Index, set by the Engine when a batch
	// of files is linted together. Rules that only inspect the current
	// file (duplicate-anchors, heading-hierarchy, toc-sync) never need it;
	// cross-file rules (broken-links, broken-anchors) are nil-safe and skip
	// themselves when it is unset, e.g. when linting a single file in
	// isolation.
	Index *docindex.RepoIndex

	// Graph is the repo-wide Link Graph, set alongside Index. See Index.
	Graph *linkgraph.Graph

	// refCtx is the cached reference context, lazily initialized.
	refCtx *refs.Context

	// cache holds the per-type node collections, built lazily on first access.
	cache *NodeCache
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *mdast.FileSnapshot,
	cfg *config.Config,
) *RuleContext {
	var root *mdast.Node
	if file != nil {
		root = file.Root
	}

	return &RuleContext{
		Ctx:     ctx,
		File:    file,
		Root:    root,
		Config:  cfg,
		Builder: fix.NewEditBuilder(),
	}
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// MaxHeadingDepth returns the configured maximum heading depth, falling back
// to the documented default if no configuration is attached.
func (rc *RuleContext) MaxHeadingDepth() int {
	if rc.Config == nil || rc.Config.Lint.MaxHeadingDepth == 0 {
		return config.DefaultMaxHeadingDepth
	}
	return rc.Config.Lint.MaxHeadingDepth
}

// TOCMarkers returns the configured TOC start/end markers, falling back to
// the documented defaults if no configuration is attached.
func (rc *RuleContext) TOCMarkers() (start, end string) {
	if rc.Config == nil {
		return config.DefaultTOCStartMarker, config.DefaultTOCEndMarker
	}
	start, end = rc.Config.Lint.TOCStartMarker, rc.Config.Lint.TOCEndMarker
	if start == "" {
		start = config.DefaultTOCStartMarker
	}
	if end == "" {
		end = config.DefaultTOCEndMarker
	}
	return start, end
}

// RefContext returns the reference context for this file, building it lazily.
// The reference context contains all link/image usages, reference definitions,
// and document anchors needed by reference-tracking rules.
func (rc *RuleContext) RefContext() *refs.Context {
	if rc.refCtx == nil {
		rc.refCtx = refs.Collect(rc.Root, rc.File)
	}
	return rc.refCtx
}

// nodeCache builds (once) and returns this context's NodeCache.
func (rc *RuleContext) nodeCache() *NodeCache {
	if rc.cache == nil {
		rc.cache = newNodeCache()
		rc.cache.build(rc.Root)
	}
	return rc.cache
}

// Headings returns all heading nodes in document order. Cached.
func (rc *RuleContext) Headings() []*mdast.Node { return rc.nodeCache().Headings() }

// Lists returns all list nodes in document order. Cached.
func (rc *RuleContext) Lists() []*mdast.Node { return rc.nodeCache().Lists() }

// ListItems returns all list item nodes in document order. Cached.
func (rc *RuleContext) ListItems() []*mdast.Node { return rc.nodeCache().ListItems() }

// CodeBlocks returns all code block nodes in document order. Cached.
func (rc *RuleContext) CodeBlocks() []*mdast.Node { return rc.nodeCache().CodeBlocks() }

// Paragraphs returns all paragraph nodes in document order. Cached.
func (rc *RuleContext) Paragraphs() []*mdast.Node { return rc.nodeCache().Paragraphs() }

// Blockquotes returns all blockquote nodes in document order. Cached.
func (rc *RuleContext) Blockquotes() []*mdast.Node { return rc.nodeCache().Blockquotes() }

// Tables returns all table nodes in document order. Cached.
func (rc *RuleContext) Tables() []*mdast.Node { return rc.nodeCache().Tables() }

// ThematicBreaks returns all thematic break nodes in document order. Cached.
func (rc *RuleContext) ThematicBreaks() []*mdast.Node { return rc.nodeCache().ThematicBreaks() }

// HTMLBlocks returns all HTML block nodes in document order. Cached.
func (rc *RuleContext) HTMLBlocks() []*mdast.Node { return rc.nodeCache().HTMLBlocks() }

// CodeSpans returns all code span nodes in document order. Cached.
func (rc *RuleContext) CodeSpans() []*mdast.Node { return rc.nodeCache().CodeSpans() }

// Links returns all link nodes in document order. Cached.
func (rc *RuleContext) Links() []*mdast.Node { return rc.nodeCache().Links() }

// Images returns all image nodes in document order. Cached.
func (rc *RuleContext) Images() []*mdast.Node { return rc.nodeCache().Images() }

// HTMLInlines returns all inline HTML nodes in document order. Cached.
func (rc *RuleContext) HTMLInlines() []*mdast.Node { return rc.nodeCache().HTMLInlines() }

// EmphasisNodes returns all emphasis nodes in document order. Cached.
func (rc *RuleContext) EmphasisNodes() []*mdast.Node { return rc.nodeCache().Emphasis() }

// StrongNodes returns all strong nodes in document order. Cached.
func (rc *RuleContext) StrongNodes() []*mdast.Node { return rc.nodeCache().Strong() }

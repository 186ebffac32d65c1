package rules

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/fix"
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/mdast"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
	"github.com/wrenfold-docs/markdowndoc/pkg/toc"
)

// tocSyncRule flags marker-delimited TOC blocks whose rendered body no
// longer matches the file's current headings, and proposes the fix edit
// that would bring them back into sync.
type tocSyncRule struct {
	lint.BaseRule
}

func newTOCSyncRule() *tocSyncRule {
	return &tocSyncRule{
		BaseRule: lint.NewBaseRule(
			"toc-sync",
			"toc-sync",
			"Flags table-of-contents blocks that are out of sync with the file's headings.",
			[]string{"toc"},
			true,
		),
	}
}

func (r *tocSyncRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	if rc.File == nil {
		return nil, nil
	}

	startMarker, endMarker := rc.TOCMarkers()
	blocks := toc.FindBlocks(rc.File.Content, startMarker, endMarker)
	if len(blocks) == 0 {
		return nil, nil
	}

	spans := section.Scan(rc.File.Path, rc.File.Content)
	maxDepth := rc.MaxHeadingDepth()

	var diags []lint.Diagnostic
	for _, blk := range blocks {
		rendered := toc.Render(spans, maxDepth, "")
		existing := string(rc.File.Content[blk.BodyStart:blk.BodyEnd])
		if existing == rendered {
			continue
		}

		line, _ := rc.File.LineAt(blk.BodyStart)
		pos := mdast.SourcePosition{StartLine: line, StartColumn: 1, EndLine: line, EndColumn: 1}

		builder := fix.NewEditBuilder()
		builder.ReplaceRange(blk.BodyStart, blk.BodyEnd, rendered)

		d := lint.NewDiagnosticAtWithRegistry(
			r.ID(), rc.File.Path, pos,
			"table-of-contents block is out of sync with the file's headings",
			rc.Registry,
		).WithSeverity(r.DefaultSeverity()).WithSuggestion("regenerate the table of contents").WithFix(builder).Build()
		diags = append(diags, d)
	}
	return diags, nil
}

func init() {
	lint.DefaultRegistry.Register(newTOCSyncRule())
}

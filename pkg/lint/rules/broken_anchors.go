package rules

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
)

// brokenAnchorsRule flags links that resolve to a known file but reference
// an anchor that file does not have, suggesting the nearest existing anchor
// by edit distance. Like broken-links, it is nil-safe on rc.Index/rc.Graph.
type brokenAnchorsRule struct {
	lint.BaseRule
}

func newBrokenAnchorsRule() *brokenAnchorsRule {
	return &brokenAnchorsRule{
		BaseRule: lint.NewBaseRule(
			"broken-anchors",
			"broken-anchors",
			"Flags links that resolve to a known file but reference a missing anchor within it.",
			[]string{"links", "anchors"},
			false,
		),
	}
}

func (r *brokenAnchorsRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	if rc.File == nil || rc.Graph == nil || rc.Index == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, resolved := range rc.Graph.Forward(rc.File.Path) {
		if !resolved.Resolved || resolved.Target.Anchor == "" {
			continue
		}

		targetFile, ok := rc.Index.Get(resolved.Target.Path)
		if !ok || targetFile.HasAnchor(resolved.Target.Anchor) {
			continue
		}

		candidates := make([]string, 0, len(targetFile.Sections))
		for _, s := range targetFile.Sections {
			candidates = append(candidates, s.Anchor)
		}
		suggestion := nearest(resolved.Target.Anchor, candidates)

		line, _ := rc.File.LineAt(resolved.ByteRange.StartOffset)
		pos := mdast0LinePosition(line)

		message := "anchor \"#" + resolved.Target.Anchor + "\" does not exist in " + resolved.Target.Path
		builder := lint.NewDiagnosticAtWithRegistry(r.ID(), rc.File.Path, pos, message, rc.Registry).
			WithSeverity(r.DefaultSeverity())
		if suggestion != "" {
			builder = builder.WithSuggestion("did you mean \"#" + suggestion + "\"?")
		}
		diags = append(diags, builder.Build())
	}
	return diags, nil
}

func init() {
	lint.DefaultRegistry.Register(newBrokenAnchorsRule())
}

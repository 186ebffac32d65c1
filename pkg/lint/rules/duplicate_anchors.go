// Package rules provides the fixed set of built-in lint rules backing
// config.DefaultRuleIDs(), registered against lint.DefaultRegistry on
// package init.
package rules

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/anchor"
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// duplicateAnchorsRule flags headings whose slug collides with an earlier
// heading's slug in the same file. section.Scan already disambiguates these
// with a numeric suffix so that link resolution keeps working; this rule
// surfaces the collision itself as something the author should rename.
type duplicateAnchorsRule struct {
	lint.BaseRule
}

func newDuplicateAnchorsRule() *duplicateAnchorsRule {
	return &duplicateAnchorsRule{
		BaseRule: lint.NewBaseRule(
			"duplicate-anchors",
			"duplicate-anchors",
			"Flags headings that produce the same anchor slug as an earlier heading.",
			[]string{"anchors", "headings"},
			false,
		),
	}
}

func (r *duplicateAnchorsRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	if rc.File == nil {
		return nil, nil
	}

	spans := section.Scan(rc.File.Path, rc.File.Content)
	seen := make(map[string]*section.SectionSpan, len(spans))

	var diags []lint.Diagnostic
	for _, s := range spans {
		base := anchor.Slug(s.NormalizedTitle)
		prev, ok := seen[base]
		if !ok {
			seen[base] = s
			continue
		}

		pos := mdastPosition(s)
		d := lint.NewDiagnosticAtWithRegistry(
			r.ID(),
			rc.File.Path,
			pos,
			"heading \""+s.NormalizedTitle+"\" produces the same anchor as the heading on line "+itoa(prev.LineNumber),
			rc.Registry,
		).WithSeverity(r.DefaultSeverity()).Build()
		diags = append(diags, d)
	}
	return diags, nil
}

func init() {
	lint.DefaultRegistry.Register(newDuplicateAnchorsRule())
}

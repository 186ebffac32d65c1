package rules

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
)

// headingHierarchyRule flags headings that skip a level (e.g. an H4 directly
// under an H2) and headings deeper than the configured maximum.
type headingHierarchyRule struct {
	lint.BaseRule
}

func newHeadingHierarchyRule() *headingHierarchyRule {
	return &headingHierarchyRule{
		BaseRule: lint.NewBaseRule(
			"heading-hierarchy",
			"heading-hierarchy",
			"Flags heading level jumps and headings deeper than the configured maximum.",
			[]string{"headings", "structure"},
			false,
		),
	}
}

func (r *headingHierarchyRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	maxDepth := rc.MaxHeadingDepth()

	var diags []lint.Diagnostic
	lastDepth := 0
	for _, h := range rc.Headings() {
		if h.Block == nil {
			continue
		}
		level := h.Block.HeadingLevel
		pos := h.SourcePosition()

		if level > maxDepth {
			diags = append(diags, lint.NewDiagnosticAtWithRegistry(
				r.ID(), rc.File.Path, pos,
				"heading level "+itoa(level)+" exceeds the configured maximum of "+itoa(maxDepth),
				rc.Registry,
			).WithSeverity(r.DefaultSeverity()).Build())
		}

		if lastDepth > 0 && level > lastDepth+1 {
			diags = append(diags, lint.NewDiagnosticAtWithRegistry(
				r.ID(), rc.File.Path, pos,
				"heading level jumps from "+itoa(lastDepth)+" to "+itoa(level)+" without an intermediate level",
				rc.Registry,
			).WithSeverity(r.DefaultSeverity()).Build())
		}

		lastDepth = level
	}
	return diags, nil
}

func init() {
	lint.DefaultRegistry.Register(newHeadingHierarchyRule())
}

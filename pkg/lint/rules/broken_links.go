package rules

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkscan"
)

// brokenLinksRule flags links whose target file cannot be resolved against
// the repo-wide Link Graph. It is nil-safe: when a file is linted in
// isolation (rc.Graph unset), it reports nothing, since resolving a link
// target requires the whole-repo index.
type brokenLinksRule struct {
	lint.BaseRule
}

func newBrokenLinksRule() *brokenLinksRule {
	return &brokenLinksRule{
		BaseRule: lint.NewBaseRule(
			"broken-links",
			"broken-links",
			"Flags links whose target file does not resolve against the repository's section index.",
			[]string{"links"},
			false,
		),
	}
}

func (r *brokenLinksRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	if rc.File == nil || rc.Graph == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, resolved := range rc.Graph.Forward(rc.File.Path) {
		if resolved.Resolved || resolved.Kind == linkscan.KindAnchorOnly || resolved.Kind == linkscan.KindAutolink {
			continue
		}

		line, _ := rc.File.LineAt(resolved.ByteRange.StartOffset)
		pos := mdast0LinePosition(line)

		d := lint.NewDiagnosticAtWithRegistry(
			r.ID(), rc.File.Path, pos,
			"link target \""+resolved.RawTarget+"\" does not resolve to a known file",
			rc.Registry,
		).WithSeverity(r.DefaultSeverity()).Build()
		diags = append(diags, d)
	}
	return diags, nil
}

func init() {
	lint.DefaultRegistry.Register(newBrokenLinksRule())
}

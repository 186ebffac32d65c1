package rules

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/schema"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// requiredSectionsRule consults the SchemaEngine to flag files that are
// missing a required section, declare sections out of order, carry a
// forbidden section, or violate the schema's depth/heading constraints.
type requiredSectionsRule struct {
	lint.BaseRule
}

func newRequiredSectionsRule() *requiredSectionsRule {
	return &requiredSectionsRule{
		BaseRule: lint.NewBaseRule(
			"required-sections",
			"required-sections",
			"Checks a file's sections against the schema selected for its path.",
			[]string{"schema", "structure"},
			false,
		),
	}
}

func (r *requiredSectionsRule) Apply(rc *lint.RuleContext) ([]lint.Diagnostic, error) {
	if rc.File == nil || rc.Config == nil {
		return nil, nil
	}

	_, sc, found, err := schema.Resolve(rc.Config, rc.File.Path, "")
	if err != nil || !found {
		return nil, nil
	}

	spans := section.Scan(rc.File.Path, rc.File.Content)
	violations := schema.Validate(sc, spans)

	var diags []lint.Diagnostic
	for _, v := range violations {
		pos := mdast0LinePosition(v.Line)
		d := lint.NewDiagnosticAtWithRegistry(
			r.ID(), rc.File.Path, pos, v.Message, rc.Registry,
		).WithSeverity(r.DefaultSeverity()).Build()
		diags = append(diags, d)
	}
	return diags, nil
}

func init() {
	lint.DefaultRegistry.Register(newRequiredSectionsRule())
}

package lint

import (
	"github.com/gobwas/glob"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
)

// ResolvedRule pairs a Rule with whether it is enabled for this run.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool
}

// ResolveRules determines which rules to run: a rule runs if it is listed
// in cfg.Lint.Rules (the fixed six by default, per Default()).
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	enabled := make(map[string]bool)
	if cfg != nil {
		for _, id := range cfg.Lint.Rules {
			enabled[id] = true
		}
	}

	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		if enabled[rule.ID()] {
			resolved = append(resolved, ResolvedRule{Rule: rule, Enabled: true})
		}
	}
	return resolved
}

// ResolveSeverity computes the effective severity for a diagnostic raised by
// rule against path, applying the documented override chain:
//
//  1. The rule's own default severity.
//  2. [lint.severity] overrides, keyed by rule ID.
//  3. [[lint.ignore]] entries: if path matches Path and Rules contains the
//     rule's ID (or Rules is empty, meaning "all rules"), the finding is
//     downgraded to ignore regardless of the above.
func ResolveSeverity(cfg *config.Config, rule Rule, path string) config.Severity {
	severity := rule.DefaultSeverity()
	if cfg == nil {
		return severity
	}

	if override, ok := cfg.Lint.Severity[rule.ID()]; ok && override.IsValid() {
		severity = override
	}

	for _, ig := range cfg.Lint.Ignore {
		g, err := glob.Compile(ig.Path, '/')
		if err != nil || !g.Match(path) {
			continue
		}
		if len(ig.Rules) == 0 {
			return config.SeverityIgnore
		}
		for _, id := range ig.Rules {
			if id == rule.ID() {
				return config.SeverityIgnore
			}
		}
	}

	return severity
}

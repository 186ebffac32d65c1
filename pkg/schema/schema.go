// Package schema implements the SchemaEngine consulted by the
// required-sections lint rule (C10): selecting the SchemaDefinition that
// applies to a file by most-specific glob match, and checking a file's
// section structure against it per spec §4.10.
package schema

import (
	"fmt"
	"sort"

	"github.com/gobwas/glob"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// Resolve determines the schema that applies to path: override forces a
// named schema, otherwise the most-specific matching pattern across
// cfg.Schemas wins (specificity is pattern length; ties break
// lexicographically by pattern string), falling back to the schema named
// "default" when nothing matches. Returns found=false if neither an
// override nor a match nor a "default" entry exists - callers should treat
// that as "no schema applies", not an error.
func Resolve(cfg *config.Config, path, override string) (name string, sc config.SchemaConfig, found bool, err error) {
	if cfg == nil {
		return "", config.SchemaConfig{}, false, nil
	}

	if override != "" {
		sc, ok := cfg.Schemas[override]
		if !ok {
			return "", config.SchemaConfig{}, false, docerr.New(docerr.SchemaNotFound, "validate", fmt.Sprintf("schema %q not found", override))
		}
		return override, sc, true, nil
	}

	type candidate struct {
		name    string
		pattern string
		sc      config.SchemaConfig
	}
	var best *candidate

	names := make([]string, 0, len(cfg.Schemas))
	for n := range cfg.Schemas {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		sc := cfg.Schemas[n]
		for _, pattern := range sc.Patterns {
			g, compileErr := glob.Compile(pattern, '/')
			if compileErr != nil || !g.Match(path) {
				continue
			}
			cur := candidate{name: n, pattern: pattern, sc: sc}
			if best == nil || moreSpecific(cur.pattern, best.pattern) {
				best = &cur
			}
		}
	}
	if best != nil {
		return best.name, best.sc, true, nil
	}

	if def, ok := cfg.Schemas["default"]; ok {
		return "default", def, true, nil
	}
	return "", config.SchemaConfig{}, false, nil
}

// moreSpecific reports whether a is a more specific glob than b: longer
// patterns win; ties break lexicographically per spec §4.10.
func moreSpecific(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a < b
}

// ViolationKind classifies one structural mismatch against a schema.
type ViolationKind string

const (
	ViolationMissingSection    ViolationKind = "missing_section"
	ViolationOutOfOrder        ViolationKind = "out_of_order"
	ViolationForbiddenSection  ViolationKind = "forbidden_section"
	ViolationExcessDepth       ViolationKind = "excess_depth"
	ViolationNoTopLevelHeading ViolationKind = "no_top_level_heading"
	ViolationTooFewSections    ViolationKind = "too_few_sections"
)

// Violation is one mismatch between a file's sections and its schema.
type Violation struct {
	Kind    ViolationKind
	Message string
	Section string // offending or missing section title, when applicable.
	Line    int    // 1-based line number, 0 if not applicable (e.g. a missing section).
}

// Validate checks spans (a file's scanned sections, document order) against
// sc and returns every violation found. An empty file (no spans) is only a
// violation if sc.AllowEmpty is false and sc declares required sections or
// a top-level heading requirement.
func Validate(sc config.SchemaConfig, spans []*section.SectionSpan) []Violation {
	var violations []Violation

	if len(spans) == 0 {
		if !sc.AllowEmpty && (len(sc.RequiredSections) > 0 || sc.RequireTopLevelHeading) {
			violations = append(violations, Violation{
				Kind:    ViolationTooFewSections,
				Message: "file has no sections and schema does not allow an empty document",
			})
		}
		return violations
	}

	if sc.RequireTopLevelHeading && spans[0].Depth != 1 {
		violations = append(violations, Violation{
			Kind:    ViolationNoTopLevelHeading,
			Message: "file does not begin with a top-level (depth 1) heading",
			Line:    spans[0].LineNumber,
		})
	}

	if sc.MinSections != nil && len(spans) < *sc.MinSections {
		violations = append(violations, Violation{
			Kind:    ViolationTooFewSections,
			Message: "file has fewer sections than the schema requires",
		})
	}

	byTitle := make(map[string]*section.SectionSpan, len(spans))
	for _, s := range spans {
		key := normalizeKey(s.NormalizedTitle)
		if _, exists := byTitle[key]; !exists {
			byTitle[key] = s
		}
	}

	lastRequiredLine := -1
	for _, required := range sc.RequiredSections {
		key := normalizeKey(required)
		s, ok := byTitle[key]
		if !ok {
			violations = append(violations, Violation{
				Kind:    ViolationMissingSection,
				Message: "required section " + quote(required) + " is missing",
				Section: required,
			})
			continue
		}
		if s.HeadingStart < lastRequiredLine {
			violations = append(violations, Violation{
				Kind:    ViolationOutOfOrder,
				Message: "required section " + quote(required) + " appears out of order",
				Section: required,
				Line:    s.LineNumber,
			})
		}
		lastRequiredLine = s.HeadingStart
	}

	if !sc.AllowAdditional {
		required := make(map[string]bool, len(sc.RequiredSections))
		for _, r := range sc.RequiredSections {
			required[normalizeKey(r)] = true
		}
		for _, s := range spans {
			if !required[normalizeKey(s.NormalizedTitle)] {
				violations = append(violations, Violation{
					Kind:    ViolationForbiddenSection,
					Message: "section " + quote(s.NormalizedTitle) + " is not declared by the schema and allow_additional is false",
					Section: s.NormalizedTitle,
					Line:    s.LineNumber,
				})
			}
		}
	}

	for _, s := range spans {
		if sc.MinDepth != nil && s.Depth < *sc.MinDepth {
			violations = append(violations, Violation{
				Kind:    ViolationExcessDepth,
				Message: "section " + quote(s.NormalizedTitle) + " is shallower than the schema's minimum depth",
				Section: s.NormalizedTitle,
				Line:    s.LineNumber,
			})
		}
		if sc.MaxDepth != nil && s.Depth > *sc.MaxDepth {
			violations = append(violations, Violation{
				Kind:    ViolationExcessDepth,
				Message: "section " + quote(s.NormalizedTitle) + " exceeds the schema's maximum depth",
				Section: s.NormalizedTitle,
				Line:    s.LineNumber,
			})
		}
	}

	return violations
}

func normalizeKey(title string) string {
	return title
}

func quote(s string) string {
	return "\"" + s + "\""
}

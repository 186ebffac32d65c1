// Package config defines the typed configuration structure for markdowndoc
// and loads it from a ".markdown-doc.toml" file. Loading and glob validation
// of user-supplied patterns is otherwise the CLI layer's concern; this
// package only parses the file into a typed struct and supplies defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wrenfold-docs/markdowndoc/pkg/docindex"
)

// Severity represents the severity level of a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityIgnore  Severity = "ignore"
)

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityIgnore:
		return true
	default:
		return false
	}
}

// DefaultConfigFileName is the config file name looked for at the project
// root when no explicit --config path is given.
const DefaultConfigFileName = ".markdown-doc.toml"

// DefaultMaxHeadingDepth is lint.max_heading_depth's default value.
const DefaultMaxHeadingDepth = 4

// DefaultTOCStartMarker and DefaultTOCEndMarker are the TOC Engine's default markers.
const (
	DefaultTOCStartMarker = "<!-- toc -->"
	DefaultTOCEndMarker   = "<!-- tocstop -->"
)

// ProjectConfig holds [project] settings.
type ProjectConfig struct {
	Root    string   `toml:"root"`
	Exclude []string `toml:"exclude"`

	// CaseSensitivePaths overrides the Section Index/Link Graph's default
	// path-comparison case-sensitivity (host-OS-derived: insensitive on
	// darwin/windows, sensitive elsewhere), per spec §9 open question 4's
	// "should be configurable" note. Unset leaves the OS default in place.
	CaseSensitivePaths *bool `toml:"case_sensitive_paths"`
}

// PathCaseSensitive resolves the Section Index/Link Graph's path-comparison
// case-sensitivity: the [project] case_sensitive_paths override if set,
// otherwise the host OS's native filesystem default. Nil-safe so callers
// can pass a run with no loaded config.
func (c *Config) PathCaseSensitive() bool {
	if c != nil && c.Project.CaseSensitivePaths != nil {
		return *c.Project.CaseSensitivePaths
	}
	return docindex.DefaultCaseSensitive()
}

// CatalogConfig holds [catalog] settings.
type CatalogConfig struct {
	Output          string   `toml:"output"`
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

// IgnoreRule is one entry of [[lint.ignore]]: findings for Rules at files
// matching Path are downgraded to SeverityIgnore.
type IgnoreRule struct {
	Path  string   `toml:"path"`
	Rules []string `toml:"rules"`
}

// LintConfig holds [lint] settings.
type LintConfig struct {
	Rules           []string            `toml:"rules"`
	MaxHeadingDepth int                 `toml:"max_heading_depth"`
	TOCStartMarker  string              `toml:"toc_start_marker"`
	TOCEndMarker    string              `toml:"toc_end_marker"`
	Severity        map[string]Severity `toml:"severity"`
	Ignore          []IgnoreRule        `toml:"ignore"`
}

// SchemaConfig is one entry of [schemas.<name>], mirroring the SchemaDefinition
// data type of the spec.
type SchemaConfig struct {
	Patterns               []string `toml:"patterns"`
	RequiredSections        []string `toml:"required_sections"`
	AllowAdditional         bool     `toml:"allow_additional"`
	MinSections             *int     `toml:"min_sections"`
	MinDepth                *int     `toml:"min_depth"`
	MaxDepth                *int     `toml:"max_depth"`
	RequireTopLevelHeading  bool     `toml:"require_top_level_heading"`
	AllowEmpty              bool     `toml:"allow_empty"`
}

// Config is the root of ".markdown-doc.toml".
type Config struct {
	Project ProjectConfig           `toml:"project"`
	Catalog CatalogConfig           `toml:"catalog"`
	Lint    LintConfig              `toml:"lint"`
	Schemas map[string]SchemaConfig `toml:"schemas"`
}

// Default returns a Config populated with the spec's documented defaults.
func Default() *Config {
	return &Config{
		Lint: LintConfig{
			Rules:           DefaultRuleIDs(),
			MaxHeadingDepth: DefaultMaxHeadingDepth,
			TOCStartMarker:  DefaultTOCStartMarker,
			TOCEndMarker:    DefaultTOCEndMarker,
			Severity:        map[string]Severity{},
		},
		Schemas: map[string]SchemaConfig{},
	}
}

// DefaultRuleIDs returns the fixed lint rule registry's identifiers.
func DefaultRuleIDs() []string {
	return []string{
		"broken-links",
		"broken-anchors",
		"duplicate-anchors",
		"heading-hierarchy",
		"toc-sync",
		"required-sections",
	}
}

// Load reads and parses the TOML config file at path. A missing file is not
// an error: Default() is returned instead, matching the teacher's tolerant
// "no config present" behavior for optional config files.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	loaded := Default()
	if _, err := toml.Decode(string(data), loaded); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if loaded.Lint.MaxHeadingDepth == 0 {
		loaded.Lint.MaxHeadingDepth = DefaultMaxHeadingDepth
	}
	if loaded.Lint.TOCStartMarker == "" {
		loaded.Lint.TOCStartMarker = DefaultTOCStartMarker
	}
	if loaded.Lint.TOCEndMarker == "" {
		loaded.Lint.TOCEndMarker = DefaultTOCEndMarker
	}
	if len(loaded.Lint.Rules) == 0 {
		loaded.Lint.Rules = DefaultRuleIDs()
	}
	if loaded.Lint.Severity == nil {
		loaded.Lint.Severity = map[string]Severity{}
	}
	if loaded.Schemas == nil {
		loaded.Schemas = map[string]SchemaConfig{}
	}
	return loaded, nil
}

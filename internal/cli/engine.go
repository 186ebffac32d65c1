package cli

import (
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/parser/goldmark"
)

// newEngine builds a lint.Engine over the goldmark GFM parser and the
// package-wide rule registry every built-in rule registers itself into via
// init(), per cmd/markdowndoc/main.go's blank import of pkg/lint/rules.
func newEngine() *lint.Engine {
	return lint.NewEngine(goldmark.New(goldmark.FlavorGFM), lint.DefaultRegistry)
}

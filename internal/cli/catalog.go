package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/catalog"
	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/enumerate"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
)

func newCatalogCommand() *cobra.Command {
	flags := &commonFlags{}

	cmd := &cobra.Command{
		Use:   "catalog [paths...]",
		Short: "List every file's heading outline",
		Long: `catalog enumerates the project's Markdown files and prints each one's
heading outline (level, text, anchor) in lexicographic path order, so two
runs over unchanged input are byte-identical.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			files, contents, err := discoverAndRead(cmd.Context(), flags, cfg.Catalog, args)
			if err != nil {
				return newExitError(err, ExitGenericFailure)
			}

			cat := catalog.Build(files, contents, "")

			switch mustFormat(flags.format) {
			case reporter.FormatJSON:
				return writeCatalogJSON(cmd, cat)
			case reporter.FormatMarkdown:
				return writeCatalogMarkdown(cmd, cat)
			default:
				return writeCatalogPlain(cmd, cat)
			}
		},
	}

	registerCommonFlags(cmd, flags, false, false)
	return cmd
}

// discoverAndRead enumerates files under flags.path honoring the universal
// discovery flags plus the config file's catalog include/exclude globs,
// and reads each one's content.
func discoverAndRead(ctx context.Context, flags *commonFlags, catalogCfg config.CatalogConfig, paths []string) ([]string, map[string][]byte, error) {
	files, err := enumerate.Discover(ctx, enumerate.Options{
		Root:          flags.path,
		ExplicitPaths: paths,
		Staged:        flags.staged,
		NoIgnore:      flags.noIgnore,
		Catalog:       catalogCfg,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("discover files: %w", err)
	}

	contents := make(map[string][]byte, len(files))
	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		contents[path] = data
	}
	return files, contents, nil
}

func writeCatalogJSON(cmd *cobra.Command, cat *catalog.Catalog) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(cat)
}

func writeCatalogMarkdown(cmd *cobra.Command, cat *catalog.Catalog) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# Catalog\n\n%d file(s)\n\n", cat.FileCount)
	for _, f := range cat.Files {
		fmt.Fprintf(w, "## %s\n\n", f.Path)
		if len(f.Headings) == 0 {
			fmt.Fprintln(w, "_no headings_")
			fmt.Fprintln(w)
			continue
		}
		for _, h := range f.Headings {
			fmt.Fprintf(w, "%s- [%s](#%s)\n", headingIndent(h.Level), h.Text, h.Anchor)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeCatalogPlain(cmd *cobra.Command, cat *catalog.Catalog) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d file(s)\n", cat.FileCount)
	for _, f := range cat.Files {
		fmt.Fprintf(w, "%s\n", f.Path)
		for _, h := range f.Headings {
			fmt.Fprintf(w, "%s%s  #%s\n", headingIndent(h.Level), h.Text, h.Anchor)
		}
	}
	return nil
}

func headingIndent(level int) string {
	indent := ""
	for i := 1; i < level; i++ {
		indent += "  "
	}
	return indent
}

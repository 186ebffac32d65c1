package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/enumerate"
	"github.com/wrenfold-docs/markdowndoc/pkg/extract"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
)

// extractJSONMatch is one extract.Match rendered to JSON; Rendered becomes
// a UTF-8 string rather than a base64 byte slice since section content is
// always Markdown text.
type extractJSONMatch struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Anchor      string `json:"anchor"`
	Depth       int    `json:"depth"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Line        int    `json:"line"`
	Content     string `json:"content"`
}

func newExtractCommand() *cobra.Command {
	flags := &commonFlags{}
	var headingOnly bool

	cmd := &cobra.Command{
		Use:   "extract <pattern> [paths...]",
		Short: "Print the sections whose heading matches a pattern",
		Long: `extract resolves a regular expression against every file's heading
text and renders the matched sections' raw bytes, including each section's
nested subsections unless --heading-only is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			paths := args[1:]

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			files, err := enumerate.Discover(cmd.Context(), enumerate.Options{
				Root:          flags.path,
				ExplicitPaths: paths,
				Staged:        flags.staged,
				NoIgnore:      flags.noIgnore,
				Catalog:       cfg.Catalog,
			})
			if err != nil {
				return newExitError(err, ExitGenericFailure)
			}

			opts := extract.Options{
				CaseSensitive: flags.caseSensitive,
				All:           flags.all,
				MaxMatches:    flags.maxMatches,
				HeadingOnly:   headingOnly,
			}

			var allMatches []extract.Match
			var notFound int
			for _, path := range files {
				content, readErr := os.ReadFile(path)
				if readErr != nil {
					return newExitError(fmt.Errorf("read %s: %w", path, readErr), ExitGenericFailure)
				}

				matches, runErr := extract.Run(path, content, pattern, opts)
				if runErr != nil {
					if len(files) == 1 {
						return newExitError(runErr, exitCodeForError(runErr))
					}
					notFound++
					continue
				}
				allMatches = append(allMatches, matches...)
			}

			if len(allMatches) == 0 {
				return newExitError(fmt.Errorf("pattern %q matched no sections", pattern), ExitGenericFailure)
			}
			if notFound > 0 && !flags.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "pattern matched in 0 of %d scanned file(s) that had no match\n", notFound)
			}

			return writeExtractMatches(cmd, flags, allMatches)
		},
	}

	registerCommonFlags(cmd, flags, true, false)
	cmd.Flags().BoolVar(&headingOnly, "heading-only", false, "render only the heading line, without the section body")

	return cmd
}

func writeExtractMatches(cmd *cobra.Command, flags *commonFlags, matches []extract.Match) error {
	if mustFormat(flags.format) == reporter.FormatJSON {
		out := make([]extractJSONMatch, 0, len(matches))
		for _, m := range matches {
			out = append(out, extractJSONMatch{
				Path:        m.Path,
				Title:       m.Title,
				Anchor:      m.Anchor,
				Depth:       m.Depth,
				StartOffset: m.StartOffset,
				EndOffset:   m.EndOffset,
				Line:        m.LineNumber,
				Content:     string(m.Rendered),
			})
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	w := cmd.OutOrStdout()
	for i, m := range matches {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if !flags.quiet {
			fmt.Fprintf(w, "# %s:%d #%s\n", m.Path, m.LineNumber, m.Anchor)
		}
		w.Write(m.Rendered)
	}
	return nil
}

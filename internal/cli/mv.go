package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/docindex"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkgraph"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkscan"
	"github.com/wrenfold-docs/markdowndoc/pkg/parser/goldmark"
	"github.com/wrenfold-docs/markdowndoc/pkg/refactor"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// mvJSONOutput is the mv command's --format json shape per spec §6.
type mvJSONOutput struct {
	Status       string   `json:"status"`
	Original     string   `json:"original"`
	Output       string   `json:"output"`
	FilesUpdated []string `json:"files_updated"`
	Diff         string   `json:"diff,omitempty"`
}

func newMoveCommand() *cobra.Command {
	flags := &commonFlags{}
	var force bool

	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a file and rewrite every inbound/outbound link to it",
		Long: `mv renames a file and walks the repo-wide link graph for every link
resolving to it, rewriting each raw target to the shortest relative path
from the referencing file to the new location. The rename and every
rewritten file commit as one transaction: if any write fails, already
-written files are rolled back and the rename does not happen.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			files, contents, err := discoverAndRead(cmd.Context(), flags, cfg.Catalog, nil)
			if err != nil {
				return newExitError(err, ExitGenericFailure)
			}

			index, graph, err := buildGraph(cmd.Context(), files, contents, cfg)
			if err != nil {
				return newExitError(err, ExitGenericFailure)
			}

			plan, err := refactor.Plan(index, graph, contents, []refactor.Move{{From: from, To: to}}, force)
			if err != nil {
				return newExitError(err, exitCodeForError(err))
			}

			if flags.dryRun {
				return printMovePlan(cmd, flags, plan, from, to)
			}

			if err := refactor.Commit(cmd.Context(), plan, contents, flags.path, flags.backupConfig()); err != nil {
				return newExitError(err, exitCodeForError(err))
			}

			return printMovePlan(cmd, flags, plan, from, to)
		},
	}

	registerCommonFlags(cmd, flags, false, true)
	cmd.Flags().BoolVar(&force, "force", false, "overwrite the destination path if it already exists")

	return cmd
}

// buildGraph parses every file once to build the Section Index and Link
// Graph refactor.Plan needs, the same way pkg/runner does for lint.
func buildGraph(ctx context.Context, files []string, contents map[string][]byte, cfg *config.Config) (*docindex.RepoIndex, *linkgraph.Graph, error) {
	index := docindex.NewRepoIndex(cfg.PathCaseSensitive())
	linksByPath := make(map[string][]*linkscan.Link, len(files))
	p := goldmark.New(goldmark.FlavorGFM)

	for _, path := range files {
		content := contents[path]
		spans := section.Scan(path, content)
		index.Add(docindex.NewFileIndex(path, spans))

		snapshot, err := p.Parse(ctx, path, content)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		linksByPath[path] = linkscan.Scan(path, snapshot.Root, snapshot)
	}

	return index, linkgraph.Build(index, linksByPath), nil
}

func printMovePlan(cmd *cobra.Command, flags *commonFlags, plan *refactor.RewritePlan, from, to string) error {
	updated := make([]string, 0, len(plan.Edits))
	for path := range plan.Edits {
		updated = append(updated, path)
	}

	if mustFormat(flags.format) == reporter.FormatJSON {
		out := mvJSONOutput{
			Status:       "ok",
			Original:     from,
			Output:       to,
			FilesUpdated: updated,
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	if flags.quiet {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "moved %s -> %s, updated %d file(s)\n", from, to, len(updated))
	for _, skipped := range plan.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", skipped)
	}
	return nil
}

// Package refactor implements the Refactor Planner (C8): given a list of
// file moves, walks the Link Graph for every link whose resolved target is
// one of the moved files, recomputes its raw target as the shortest
// relative path from the referencing file to the new location (preserving
// any #anchor suffix), and stages the resulting byte edits alongside the
// renames so the whole operation commits or rolls back as one unit.
package refactor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
	"github.com/wrenfold-docs/markdowndoc/pkg/docindex"
	"github.com/wrenfold-docs/markdowndoc/pkg/fix"
	"github.com/wrenfold-docs/markdowndoc/pkg/fsutil"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkgraph"
)

// Move is one requested file relocation, in canonical path space.
type Move struct {
	From string
	To   string
}

// RewritePlan is the staged output of Plan: the moves to perform plus the
// per-file byte edits needed to keep inbound links valid after the moves.
type RewritePlan struct {
	Moves []Move

	// Edits maps a canonical referencing-file path to the edits it needs.
	Edits map[string][]fix.TextEdit

	// Skipped records links that resolved to a moved file but could not be
	// rewritten (e.g. reference-style links, whose destination lives in a
	// separate definition line outside the usage's byte range).
	Skipped []string
}

// Plan validates moves against index (collision detection, unless force)
// and computes the RewritePlan against graph. contents supplies each
// referencing file's raw bytes, keyed by canonical path, so the rewriter
// can locate the exact substring to replace.
func Plan(index *docindex.RepoIndex, graph *linkgraph.Graph, contents map[string][]byte, moves []Move, force bool) (*RewritePlan, error) {
	fromSet := make(map[string]string, len(moves))
	for _, mv := range moves {
		if !force {
			if _, exists := index.Get(mv.To); exists {
				return nil, docerr.New(docerr.IOError, "mv", fmt.Sprintf("destination %q already exists; pass --force to overwrite", mv.To)).WithPath(mv.To)
			}
		}
		fromSet[docindex.Canonicalize(mv.From)] = docindex.Canonicalize(mv.To)
	}

	plan := &RewritePlan{
		Moves: moves,
		Edits: make(map[string][]fix.TextEdit),
	}

	for _, source := range graph.Sources() {
		content := contents[source]
		for _, rl := range graph.Forward(source) {
			if !rl.Resolved {
				continue
			}
			to, moved := fromSet[rl.Target.Path]
			if !moved {
				continue
			}

			newTarget := rewriteTarget(source, to, rl.Target.Anchor)
			edit, ok := buildEdit(content, rl, newTarget)
			if !ok {
				plan.Skipped = append(plan.Skipped, fmt.Sprintf("%s: link to %q could not be rewritten in place", source, rl.RawTarget))
				continue
			}
			plan.Edits[source] = append(plan.Edits[source], edit)
		}
	}

	for source, edits := range plan.Edits {
		sort.Slice(edits, func(i, j int) bool { return edits[i].StartOffset < edits[j].StartOffset })
		plan.Edits[source] = edits
	}

	return plan, nil
}

// rewriteTarget computes the new raw link target: the shortest relative
// path from source's directory to to, with the original anchor appended
// verbatim.
func rewriteTarget(source, to, anchor string) string {
	rel := relativePath(dirOf(source), to)
	if anchor != "" {
		rel += "#" + anchor
	}
	return rel
}

// buildEdit locates rl's RawTarget substring inside the link's own byte
// range and produces the TextEdit that swaps it for newTarget, preserving
// every other byte of the link's markup (delimiters, text, title).
func buildEdit(content []byte, rl *linkgraph.ResolvedLink, newTarget string) (fix.TextEdit, bool) {
	start, end := rl.ByteRange.StartOffset, rl.ByteRange.EndOffset
	if start < 0 || end > len(content) || start >= end || rl.RawTarget == "" {
		return fix.TextEdit{}, false
	}
	window := content[start:end]
	idx := bytes.Index(window, []byte(rl.RawTarget))
	if idx < 0 {
		return fix.TextEdit{}, false
	}
	absStart := start + idx
	absEnd := absStart + len(rl.RawTarget)
	return fix.TextEdit{StartOffset: absStart, EndOffset: absEnd, NewText: newTarget}, true
}

// relativePath computes the shortest POSIX-style relative path from
// directory fromDir to file path to, both already canonicalized.
func relativePath(fromDir, to string) string {
	fromParts := splitClean(fromDir)
	toParts := splitClean(to)

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)

	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitClean(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func dirOf(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// stagedWrite is one file's staged new content, pending commit.
type stagedWrite struct {
	path    string
	content []byte
}

// Commit applies a RewritePlan as one unit: each edited file is backed up
// and rewritten with fsutil.WriteAtomic, in path order, and the move renames
// run only after every content write has succeeded. If a backup, write or
// rename fails, the renames already performed are reversed and the files
// already written are restored from their backups (with backups disabled,
// those files keep their new content), per spec §4.8/§5.
func Commit(ctx context.Context, plan *RewritePlan, contents map[string][]byte, root string, backup fsutil.BackupConfig) error {
	var writes []stagedWrite
	for path, edits := range plan.Edits {
		original := contents[path]
		modified := fix.ApplyEdits(original, edits)
		writes = append(writes, stagedWrite{path: path, content: modified})
	}
	sort.Slice(writes, func(i, j int) bool { return writes[i].path < writes[j].path })

	for i, w := range writes {
		if _, err := fsutil.CreateBackup(ctx, w.path, backup); err != nil {
			return rollback(ctx, plan, writes[:i], backup, err)
		}
		if err := fsutil.WriteAtomic(ctx, w.path, w.content, 0); err != nil {
			return rollback(ctx, plan, writes[:i], backup, err)
		}
	}

	sortedMoves := append([]Move(nil), plan.Moves...)
	sort.Slice(sortedMoves, func(i, j int) bool { return sortedMoves[i].From < sortedMoves[j].From })

	for i, mv := range sortedMoves {
		if err := renamePath(mv.From, mv.To); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = os.Rename(sortedMoves[j].To, sortedMoves[j].From)
			}
			return rollback(ctx, plan, writes, backup, err)
		}
	}

	return nil
}

// rollback restores every successfully-written file from its backup after
// a mid-commit failure, so the overall operation leaves the tree as it
// found it.
func rollback(ctx context.Context, plan *RewritePlan, writes []stagedWrite, backup fsutil.BackupConfig, cause error) error {
	for _, w := range writes {
		_, _ = fsutil.RestoreBackup(ctx, w.path, backup.Mode)
	}
	return docerr.New(docerr.IOError, "mv", "commit failed, rolled back: "+cause.Error())
}

// renamePath renames a file, creating the destination's parent directory
// if needed.
func renamePath(from, to string) error {
	if dir := filepath.Dir(to); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.Rename(from, to)
}

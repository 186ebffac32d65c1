// Package enumerate implements the File Enumerator (C11): resolving the set
// of Markdown files a catalog/lint/validate/toc run should process, applying
// the filter precedence from spec §4.11 - explicit CLI paths, then --staged,
// then .markdown-doc-ignore (unless --no-ignore), then config include/exclude
// globs - and returning them in lexicographic order.
package enumerate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
)

// IgnoreFileName is the name of the gitignore-syntax ignore file consulted
// unless Options.NoIgnore is set.
const IgnoreFileName = ".markdown-doc-ignore"

// Options controls enumeration. Root is the project root all relative paths
// and ignore rules are resolved against.
type Options struct {
	Root string

	// ExplicitPaths are files or directories named directly on the command
	// line. When non-empty, they take precedence over Staged: each is
	// included (after extension filtering, for directories) without regard
	// to the ignore file or config globs.
	ExplicitPaths []string

	// Staged restricts enumeration to files staged in the git index under
	// Root. Ignored when ExplicitPaths is non-empty.
	Staged bool

	// NoIgnore disables IgnoreFileName filtering.
	NoIgnore bool

	// Extensions are the file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to [".md", ".markdown"].
	Extensions []string

	Catalog config.CatalogConfig
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return []string{".md", ".markdown"}
	}
	return o.Extensions
}

// Discover resolves opts into a lexicographically sorted list of absolute
// file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var candidates []string
	switch {
	case len(opts.ExplicitPaths) > 0:
		candidates, err = explicitCandidates(ctx, root, opts.ExplicitPaths, opts.effectiveExtensions())
		if err != nil {
			return nil, err
		}
		return sortedUnique(candidates), nil
	case opts.Staged:
		candidates, err = stagedCandidates(root, opts.effectiveExtensions())
		if err != nil {
			return nil, err
		}
	default:
		candidates, err = walkCandidates(ctx, root, opts.effectiveExtensions())
		if err != nil {
			return nil, err
		}
	}

	if !opts.NoIgnore {
		matcher, loadErr := loadIgnoreMatcher(root)
		if loadErr != nil {
			return nil, loadErr
		}
		if matcher != nil {
			candidates = filterIgnored(root, candidates, matcher)
		}
	}

	candidates = filterConfigGlobs(root, candidates, opts.Catalog)

	return sortedUnique(candidates), nil
}

func sortedUnique(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// explicitCandidates resolves user-named paths: files are included outright
// (extension permitting), directories are walked.
func explicitCandidates(ctx context.Context, root string, paths, extensions []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			sub, err := walkCandidates(ctx, abs, extensions)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		if hasMatchingExtension(abs, extensions) {
			out = append(out, abs)
		}
	}
	return out, nil
}

// walkCandidates walks root and returns every file with a matching
// extension, skipping hidden directories and the .git directory.
func walkCandidates(ctx context.Context, root string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if hasMatchingExtension(path, extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// stagedCandidates lists files staged in the git index under root, via the
// repository's worktree status, filtered to matching extensions.
func stagedCandidates(root string, extensions []string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", root, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("read git status: %w", err)
	}

	wtRoot := worktree.Filesystem.Root()
	var files []string
	for path, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified || fileStatus.Staging == git.Untracked {
			continue
		}
		abs := filepath.Join(wtRoot, path)
		if hasMatchingExtension(abs, extensions) {
			files = append(files, abs)
		}
	}
	return files, nil
}

// loadIgnoreMatcher reads .markdown-doc-ignore from root, if present, and
// compiles it with gitignore syntax. Returns a nil matcher (not an error) if
// the file does not exist.
func loadIgnoreMatcher(root string) (gitignore.Matcher, error) {
	path := filepath.Join(root, IgnoreFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", IgnoreFileName, err)
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return gitignore.NewMatcher(patterns), nil
}

func filterIgnored(root string, paths []string, matcher gitignore.Matcher) []string {
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			out = append(out, p)
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if matcher.Match(parts, false) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// filterConfigGlobs applies the catalog config's include/exclude patterns.
// Exclude wins over include. An empty include list means "include
// everything not excluded".
func filterConfigGlobs(root string, paths []string, cfg config.CatalogConfig) []string {
	if len(cfg.IncludePatterns) == 0 && len(cfg.ExcludePatterns) == 0 {
		return paths
	}

	includes := compileGlobs(cfg.IncludePatterns)
	excludes := compileGlobs(cfg.ExcludePatterns)

	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(excludes, rel) {
			continue
		}
		if len(includes) > 0 && !matchesAny(includes, rel) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func compileGlobs(patterns []string) []glob.Glob {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	return out
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

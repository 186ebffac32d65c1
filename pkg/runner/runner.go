package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/docindex"
	"github.com/wrenfold-docs/markdowndoc/pkg/enumerate"
	"github.com/wrenfold-docs/markdowndoc/pkg/fix"
	"github.com/wrenfold-docs/markdowndoc/pkg/fsutil"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkgraph"
	"github.com/wrenfold-docs/markdowndoc/pkg/linkscan"
	"github.com/wrenfold-docs/markdowndoc/pkg/lint"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// Runner orchestrates multi-file linting using a shared lint.Engine.
type Runner struct {
	// Engine performs per-file parsing and rule execution.
	Engine *lint.Engine
}

// New creates a new Runner around the given engine.
func New(engine *lint.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run discovers files under opts, builds the repo-wide Section Index and
// Link Graph across them, then lints each file concurrently through a
// shared engine so that cross-file rules can resolve targets anywhere in
// the discovered set.
//
// When opts.Fix is set, accepted edits are applied and written back
// (honoring opts.Backup); opts.DryRun computes the resulting diff without
// writing.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := enumerate.Discover(ctx, enumerate.Options{
		Root:          opts.Root,
		ExplicitPaths: opts.Paths,
		Staged:        opts.Staged,
		NoIgnore:      opts.NoIgnore,
		Catalog:       catalogConfig(opts.Config),
	})
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	contents, readErrs := readAll(files)
	for path, readErr := range readErrs {
		result.accumulate(FileOutcome{Path: path, Error: readErr})
	}
	if len(readErrs) > 0 {
		filtered := files[:0]
		for _, p := range files {
			if _, failed := readErrs[p]; !failed {
				filtered = append(filtered, p)
			}
		}
		files = filtered
	}

	index, graph, buildErrs := r.buildIndex(ctx, files, contents, opts.Config)
	result.Errors = append(result.Errors, buildErrs...)
	r.Engine.WithIndex(index, graph)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}
	if jobs < 1 {
		jobs = 1
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)
	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts, contents)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

// worker lints files from workCh, optionally applying and writing fixes.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts Options,
	contents map[string][]byte,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.processFile(ctx, path, contents[path], opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (r *Runner) processFile(ctx context.Context, path string, content []byte, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	fileResult, err := r.Engine.LintFile(ctx, path, content, opts.Config)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.FileResult = fileResult

	if len(fileResult.Edits) == 0 {
		return outcome
	}

	modified := fix.ApplyEdits(content, fileResult.Edits)
	if bytes.Equal(modified, content) {
		return outcome
	}
	outcome.Diff = fix.GenerateDiff(path, content, modified)

	if !opts.Fix || opts.DryRun {
		return outcome
	}

	if _, backupErr := fsutil.CreateBackup(ctx, path, opts.Backup); backupErr != nil {
		outcome.Error = fmt.Errorf("create backup for %s: %w", path, backupErr)
		return outcome
	}
	if writeErr := fsutil.WriteAtomic(ctx, path, modified, 0o644); writeErr != nil {
		outcome.Error = fmt.Errorf("write %s: %w", path, writeErr)
		return outcome
	}
	outcome.Written = true
	return outcome
}

// buildIndex parses every file once to build the repo-wide Section Index
// and Link Graph that cross-file rules consult. Parse failures here are
// recorded but do not abort the run; the affected file still gets its own
// LintFile parse attempt (and its own error) in the main worker pass.
func (r *Runner) buildIndex(
	ctx context.Context,
	files []string,
	contents map[string][]byte,
	cfg *config.Config,
) (*docindex.RepoIndex, *linkgraph.Graph, []error) {
	index := docindex.NewRepoIndex(cfg.PathCaseSensitive())
	linksByPath := make(map[string][]*linkscan.Link, len(files))
	var errs []error

	for _, path := range files {
		content, ok := contents[path]
		if !ok {
			continue
		}

		spans := section.Scan(path, content)
		index.Add(docindex.NewFileIndex(path, spans))

		snapshot, err := r.Engine.Parser.Parse(ctx, path, content)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}
		linksByPath[path] = linkscan.Scan(path, snapshot.Root, snapshot)
	}

	graph := linkgraph.Build(index, linksByPath)
	return index, graph, errs
}

func readAll(files []string) (map[string][]byte, map[string]error) {
	contents := make(map[string][]byte, len(files))
	errs := make(map[string]error)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			errs[path] = fmt.Errorf("read %s: %w", path, err)
			continue
		}
		contents[path] = data
	}
	return contents, errs
}

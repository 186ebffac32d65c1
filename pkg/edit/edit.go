// Package edit implements the six structural edit operations (replace,
// delete, append_to, prepend_to, insert_after, insert_before) described in
// the toolkit's Edit Engine: locate a target section by heading pattern,
// validate the payload against the operation's heading-depth rule, splice
// the edit at the right byte offset, and write the result atomically.
package edit

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
	"github.com/wrenfold-docs/markdowndoc/pkg/fix"
	"github.com/wrenfold-docs/markdowndoc/pkg/fsutil"
	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// Operation names one of the six structural edit verbs.
type Operation string

const (
	OpReplace      Operation = "replace"
	OpDelete       Operation = "delete"
	OpAppendTo     Operation = "append_to"
	OpPrependTo    Operation = "prepend_to"
	OpInsertAfter  Operation = "insert_after"
	OpInsertBefore Operation = "insert_before"
)

// Options controls matching, duplicate handling, and write behavior shared
// by all six operations.
type Options struct {
	// CaseSensitive disables the default case-insensitive heading match.
	CaseSensitive bool

	// BodyOnly applies to Replace only: the payload replaces the section
	// body without its heading, and must NOT begin with a heading.
	BodyOnly bool

	// All applies the operation to every matching section instead of
	// failing on more than one match.
	All bool

	// MaxMatches caps the number of sections an ambiguous pattern may
	// resolve to; 0 means "exactly one match required unless All is set".
	MaxMatches int

	// AllowDuplicate disables the duplicate-content guard.
	AllowDuplicate bool

	// DryRun computes the result and diff without writing to disk.
	DryRun bool

	// Backup controls whether a sidecar backup is written before the
	// atomic write.
	Backup fsutil.BackupConfig
}

// Result is the outcome of a single edit invocation.
type Result struct {
	Applied     bool
	ExitCode    int
	Diff        *fix.Diff
	Messages    []string
	WrittenPath string
}

// Run resolves pattern against the section headings in content, validates
// payload against op's rule, and applies the edit. On success it returns
// the modified content; callers that only want a dry-run diff should pass
// Options.DryRun and ignore the returned bytes (Result.Diff holds the
// preview). A DuplicatePayload condition is reported through Result, not
// through the error return, per the non-fatal duplicate contract.
func Run(ctx context.Context, op Operation, path string, content []byte, pattern string, payload []byte, opts Options) (*Result, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	spans := section.Scan(path, content)
	matches, err := matchSpans(spans, pattern, opts.CaseSensitive)
	if err != nil {
		return nil, nil, err
	}
	targets, err := resolveTargets(matches, opts)
	if err != nil {
		return nil, nil, err
	}

	// Apply highest-offset-first so earlier offsets stay valid as later
	// edits in the same pass are constructed.
	ordered := append([]*section.SectionSpan(nil), targets...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].HeadingStart > ordered[j].HeadingStart })

	builder := fix.NewEditBuilder()
	var messages []string
	anyApplied := false

	for _, target := range ordered {
		start, end, text, dup, err := buildSplice(op, content, target, payload, opts)
		if err != nil {
			return nil, nil, err
		}
		if dup && !opts.AllowDuplicate {
			messages = append(messages, fmt.Sprintf("section %q: payload is a duplicate of existing content, skipped", target.NormalizedTitle))
			continue
		}
		builder.ReplaceRange(start, end, text)
		anyApplied = true
	}

	if !anyApplied {
		return &Result{Applied: false, ExitCode: docerr.DuplicatePayload.ExitCode(), Messages: messages}, content, nil
	}

	edits := append([]fix.TextEdit(nil), builder.Edits...)
	sort.Slice(edits, func(i, j int) bool { return edits[i].StartOffset < edits[j].StartOffset })

	modified := fix.ApplyEdits(content, edits)
	if op == OpDelete || op == OpAppendTo || op == OpPrependTo || op == OpInsertAfter || op == OpInsertBefore {
		modified = collapseBlankRuns(modified)
	}

	diff := fix.GenerateDiff(path, content, modified)

	result := &Result{
		Applied:  true,
		ExitCode: 0,
		Diff:     diff,
		Messages: messages,
	}

	if opts.DryRun {
		return result, modified, nil
	}

	if _, err := fsutil.CreateBackup(ctx, path, opts.Backup); err != nil {
		return nil, nil, docerr.New(docerr.IOError, string(op), err.Error()).WithPath(path)
	}
	if err := fsutil.WriteAtomic(ctx, path, modified, 0); err != nil {
		return nil, nil, docerr.New(docerr.IOError, string(op), err.Error()).WithPath(path)
	}
	result.WrittenPath = path

	return result, modified, nil
}

// matchSpans resolves pattern against spans, wrapping a bad regex into the
// taxonomy's BadRegex code.
func matchSpans(spans []*section.SectionSpan, pattern string, caseSensitive bool) ([]*section.SectionSpan, error) {
	matches, err := section.Match(spans, pattern, caseSensitive)
	if err != nil {
		return nil, docerr.New(docerr.BadRegex, "edit", err.Error())
	}
	return matches, nil
}

// resolveTargets applies the match-count rules: zero matches is always a
// failure, a single match always succeeds, and more than one match
// requires either All or a satisfied MaxMatches.
func resolveTargets(matches []*section.SectionSpan, opts Options) ([]*section.SectionSpan, error) {
	if len(matches) == 0 {
		return nil, docerr.New(docerr.SectionNotFound, "edit", "no section heading matches pattern")
	}
	if len(matches) == 1 {
		return matches, nil
	}
	if opts.MaxMatches > 0 {
		if len(matches) > opts.MaxMatches {
			return nil, docerr.New(docerr.MaxMatchesExceeded, "edit",
				fmt.Sprintf("%d sections matched, exceeds max-matches=%d", len(matches), opts.MaxMatches))
		}
		return matches, nil
	}
	if opts.All {
		return matches, nil
	}
	return nil, docerr.New(docerr.MultipleMatches, "edit",
		fmt.Sprintf("%d sections matched the pattern; pass --all or --max-matches to apply to more than one", len(matches)))
}

// payloadHeading reports the depth of the heading payload begins with, if
// any.
func payloadHeading(payload []byte) (depth int, ok bool) {
	spans := section.Scan("", payload)
	if len(spans) == 0 || spans[0].HeadingStart != 0 {
		return 0, false
	}
	return spans[0].Depth, true
}

// block trims trailing newlines from payload and appends exactly one, so
// every splice ends in a single, predictable newline before collapse
// normalizes surrounding blank lines.
func block(payload []byte) []byte {
	return append(bytes.TrimRight(payload, "\n"), '\n')
}

// buildSplice computes the byte range and replacement text for one
// operation against one target section, along with whether the result
// would be a no-op duplicate of existing content.
func buildSplice(op Operation, content []byte, target *section.SectionSpan, payload []byte, opts Options) (start, end int, text string, duplicate bool, err error) {
	switch op {
	case OpReplace:
		return spliceReplace(content, target, payload, opts)
	case OpDelete:
		return target.HeadingStart, target.BodyEnd, "", false, nil
	case OpAppendTo:
		pos := target.BodyEnd
		ins := "\n" + string(block(payload)) + "\n"
		return pos, pos, ins, duplicateAtInsertion(content, pos, block(payload)), nil
	case OpPrependTo:
		pos := target.BodyStart
		ins := "\n" + string(block(payload)) + "\n"
		return pos, pos, ins, duplicateAtInsertion(content, pos, block(payload)), nil
	case OpInsertAfter:
		depth, ok := payloadHeading(payload)
		if !ok || depth < target.Depth {
			return 0, 0, "", false, docerr.New(docerr.HeadingDepthMismatch, "edit",
				fmt.Sprintf("insert_after payload must begin with a heading at depth >= %d", target.Depth))
		}
		pos := target.BodyEnd
		ins := "\n" + string(block(payload)) + "\n"
		return pos, pos, ins, duplicateAtInsertion(content, pos, block(payload)), nil
	case OpInsertBefore:
		depth, ok := payloadHeading(payload)
		if !ok || depth != target.Depth {
			return 0, 0, "", false, docerr.New(docerr.HeadingDepthMismatch, "edit",
				fmt.Sprintf("insert_before payload must begin with a depth-%d heading", target.Depth))
		}
		pos := target.HeadingStart
		ins := "\n" + string(block(payload)) + "\n"
		return pos, pos, ins, duplicateAtInsertion(content, pos, block(payload)), nil
	default:
		return 0, 0, "", false, docerr.New(docerr.IOError, "edit", "unknown operation "+string(op))
	}
}

// spliceReplace implements the two Replace modes: the default mode requires
// a heading of equal depth and replaces the whole section including its
// heading; BodyOnly forbids a heading and replaces only the body.
func spliceReplace(content []byte, target *section.SectionSpan, payload []byte, opts Options) (start, end int, text string, duplicate bool, err error) {
	depth, hasHeading := payloadHeading(payload)

	if opts.BodyOnly {
		if hasHeading {
			return 0, 0, "", false, docerr.New(docerr.PayloadHeadingMissing, "edit",
				"replace with --body-only requires a payload that does not begin with a heading")
		}
		existing := content[target.BodyStart:target.BodyEnd]
		text = string(payload)
		return target.BodyStart, target.BodyEnd, text, sameContent(existing, payload), nil
	}

	if !hasHeading || depth != target.Depth {
		return 0, 0, "", false, docerr.New(docerr.HeadingDepthMismatch, "edit",
			fmt.Sprintf("replace payload must begin with a depth-%d heading", target.Depth))
	}
	existing := content[target.HeadingStart:target.BodyEnd]
	text = string(payload)
	return target.HeadingStart, target.BodyEnd, text, sameContent(existing, payload), nil
}

// sameContent reports whether a and b are equal once trailing newlines are
// normalized away, the comparison the duplicate guard uses throughout.
func sameContent(a, b []byte) bool {
	return bytes.Equal(bytes.TrimRight(a, "\n"), bytes.TrimRight(b, "\n"))
}

// duplicateAtInsertion compares the bytes immediately following an
// insertion point against the block about to be inserted there. Re-running
// an insert_after whose payload heading has the target's depth is detected
// this way, since the earlier copy starts exactly at the target's body end.
// Re-runs of append_to, insert_before and prepend_to are not detected: the
// earlier copy sits before the insertion point, or after a blank line.
func duplicateAtInsertion(content []byte, pos int, blk []byte) bool {
	end := pos + len(blk)
	if end > len(content) {
		end = len(content)
	}
	window := content[pos:end]
	return sameContent(window, blk)
}

// collapseBlankRuns collapses any run of 3+ consecutive newlines (two or
// more blank lines) down to exactly one blank line (two newlines). Splices
// only ever introduce extra blank lines at a single cut point, so a
// document-wide pass is equivalent to a local one and simpler to reason
// about.
func collapseBlankRuns(content []byte) []byte {
	return blankRunRe.ReplaceAll(content, []byte("\n\n"))
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Package docindex implements the Section Index (C4): per-file ordered
// section lists with heading-text and anchor lookup, plus a repo-wide
// path-canonicalized index.
package docindex

import (
	"path"
	"runtime"
	"strings"

	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// FileIndex holds one file's SectionSpans in document order plus lookup maps.
type FileIndex struct {
	Path     string
	Sections []*section.SectionSpan

	byAnchor map[string]*section.SectionSpan
	byTitle  map[string]*section.SectionSpan // first match, normalized-title keyed
}

// NewFileIndex builds a FileIndex from a scanned section list.
func NewFileIndex(path string, spans []*section.SectionSpan) *FileIndex {
	fi := &FileIndex{
		Path:     path,
		Sections: spans,
		byAnchor: make(map[string]*section.SectionSpan, len(spans)),
		byTitle:  make(map[string]*section.SectionSpan, len(spans)),
	}
	for _, s := range spans {
		if _, exists := fi.byAnchor[s.Anchor]; !exists {
			fi.byAnchor[s.Anchor] = s
		}
		key := strings.ToLower(s.NormalizedTitle)
		if _, exists := fi.byTitle[key]; !exists {
			fi.byTitle[key] = s
		}
	}
	return fi
}

// ByAnchor returns the section with the given anchor, or nil.
func (fi *FileIndex) ByAnchor(anchor string) *section.SectionSpan {
	return fi.byAnchor[anchor]
}

// ByTitle returns the first section whose normalized title matches (case-insensitive).
func (fi *FileIndex) ByTitle(title string) *section.SectionSpan {
	return fi.byTitle[strings.ToLower(title)]
}

// HasAnchor reports whether anchor exists in this file.
func (fi *FileIndex) HasAnchor(anchor string) bool {
	_, ok := fi.byAnchor[anchor]
	return ok
}

// RepoIndex is a path-canonicalized, repo-wide map of FileIndex.
type RepoIndex struct {
	CaseSensitive bool
	byPath        map[string]*FileIndex
}

// NewRepoIndex creates an empty RepoIndex. caseSensitive controls path
// comparison semantics per spec §4.4/§9 open question 4; when false, lookups
// are done on a lowercased canonical path.
func NewRepoIndex(caseSensitive bool) *RepoIndex {
	return &RepoIndex{CaseSensitive: caseSensitive, byPath: make(map[string]*FileIndex)}
}

// DefaultCaseSensitive computes the default case-sensitivity for the host OS.
func DefaultCaseSensitive() bool {
	return runtime.GOOS != "darwin" && runtime.GOOS != "windows"
}

// Add registers a FileIndex under its canonical path.
func (ri *RepoIndex) Add(fi *FileIndex) {
	ri.byPath[ri.key(fi.Path)] = fi
}

// Get looks up a FileIndex by (possibly relative, possibly dotted) path.
func (ri *RepoIndex) Get(p string) (*FileIndex, bool) {
	fi, ok := ri.byPath[ri.key(p)]
	return fi, ok
}

// Paths returns all canonical paths in the index.
func (ri *RepoIndex) Paths() []string {
	paths := make([]string, 0, len(ri.byPath))
	for p := range ri.byPath {
		paths = append(paths, p)
	}
	return paths
}

func (ri *RepoIndex) key(p string) string {
	c := Canonicalize(p)
	if !ri.CaseSensitive {
		return strings.ToLower(c)
	}
	return c
}

// Canonicalize normalizes a path per spec §4.4: POSIX separators, collapse
// "./", resolve ".." textually without touching the filesystem.
func Canonicalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

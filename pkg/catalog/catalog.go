// Package catalog builds the repository-wide documentation catalog: for
// each enumerated file, its heading outline (level, text, anchor), per spec
// §6's catalog(paths, options) operation and its JSON output shape.
package catalog

import (
	"sort"

	"github.com/wrenfold-docs/markdowndoc/pkg/section"
)

// Heading is one entry of a file's outline.
type Heading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// File is one catalog entry: a path and its heading outline. A file with no
// headings still appears, with an empty Headings slice, per spec §8.
type File struct {
	Path     string    `json:"path"`
	Headings []Heading `json:"headings"`
}

// Catalog is the full repository catalog, ordered lexicographically by path
// so that two runs over the same input produce byte-identical output.
type Catalog struct {
	LastUpdated string `json:"last_updated"`
	FileCount   int    `json:"file_count"`
	Files       []File `json:"files"`
}

// Build constructs a Catalog from a set of files and their contents.
// lastUpdated is supplied by the caller (typically the current time,
// formatted RFC 3339) rather than computed here, keeping this package free
// of wall-clock dependencies.
func Build(files []string, contents map[string][]byte, lastUpdated string) *Catalog {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	cat := &Catalog{
		LastUpdated: lastUpdated,
		FileCount:   len(sorted),
		Files:       make([]File, 0, len(sorted)),
	}

	for _, path := range sorted {
		spans := section.Scan(path, contents[path])
		headings := make([]Heading, 0, len(spans))
		for _, s := range spans {
			headings = append(headings, Heading{
				Level:  s.Depth,
				Text:   s.NormalizedTitle,
				Anchor: s.Anchor,
			})
		}
		cat.Files = append(cat.Files, File{Path: path, Headings: headings})
	}

	return cat
}

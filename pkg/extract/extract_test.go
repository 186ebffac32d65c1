package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
)

const doc = "# Title\nintro\n\n## Install\nsteps\n\n## Installed\ndone\n"

func TestRun_SingleMatch(t *testing.T) {
	matches, err := Run("doc.md", []byte(doc), "^Install$", Options{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Install", matches[0].Title)
	assert.Contains(t, string(matches[0].Rendered), "steps")
}

func TestRun_HeadingOnlyExcludesBody(t *testing.T) {
	matches, err := Run("doc.md", []byte(doc), "^Install$", Options{HeadingOnly: true})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.NotContains(t, string(matches[0].Rendered), "steps")
	assert.Contains(t, string(matches[0].Rendered), "Install")
}

func TestRun_NoMatchIsSectionNotFound(t *testing.T) {
	_, err := Run("doc.md", []byte(doc), "^Nope$", Options{})
	de, ok := docerr.As(err)
	require.True(t, ok)
	assert.Equal(t, docerr.SectionNotFound, de.Code)
}

func TestRun_AmbiguousWithoutAllIsMultipleMatches(t *testing.T) {
	_, err := Run("doc.md", []byte(doc), "^Install", Options{})
	de, ok := docerr.As(err)
	require.True(t, ok)
	assert.Equal(t, docerr.MultipleMatches, de.Code)
}

func TestRun_AllReturnsEveryMatch(t *testing.T) {
	matches, err := Run("doc.md", []byte(doc), "^Install", Options{All: true})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRun_MaxMatchesExceeded(t *testing.T) {
	_, err := Run("doc.md", []byte(doc), "^Install", Options{MaxMatches: 1})
	de, ok := docerr.As(err)
	require.True(t, ok)
	assert.Equal(t, docerr.MaxMatchesExceeded, de.Code)
}

func TestRun_BadRegexIsBadRegex(t *testing.T) {
	_, err := Run("doc.md", []byte(doc), "[", Options{})
	de, ok := docerr.As(err)
	require.True(t, ok)
	assert.Equal(t, docerr.BadRegex, de.Code)
}

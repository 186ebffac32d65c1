package linkscan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold-docs/markdowndoc/pkg/parser/goldmark"
)

func TestScan_InlineImageAndAnchorOnly(t *testing.T) {
	p := goldmark.New(goldmark.FlavorGFM)
	content := []byte("[see](../README.md#install) and ![alt](img.png) and [local](#top)\n")
	snap, err := p.Parse(context.Background(), "docs/guide.md", content)
	require.NoError(t, err)

	links := Scan("docs/guide.md", snap.Root, snap)
	require.Len(t, links, 3)

	assert.Equal(t, KindInline, links[0].Kind)
	assert.Equal(t, "../README.md", links[0].TargetPath)
	assert.Equal(t, "install", links[0].TargetAnchor)

	assert.Equal(t, KindImage, links[1].Kind)

	assert.Equal(t, KindAnchorOnly, links[2].Kind)
	assert.Equal(t, "top", links[2].TargetAnchor)
}

func TestSplitTarget(t *testing.T) {
	path, frag := SplitTarget("a/b.md#heading")
	assert.Equal(t, "a/b.md", path)
	assert.Equal(t, "heading", frag)

	path2, frag2 := SplitTarget("a/b.md")
	assert.Equal(t, "a/b.md", path2)
	assert.Empty(t, frag2)
}

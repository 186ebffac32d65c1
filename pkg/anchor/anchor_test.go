package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Install", "Install"},
		{"trailing atx run", "Install ###", "Install"},
		{"link", "[Install](./install.md)", "Install"},
		{"image", "![alt](img.png) gallery", "alt gallery"},
		{"emphasis", "*Install* now", "Install now"},
		{"strong", "**Install** now", "Install now"},
		{"code span", "Run `go build`", "Run go build"},
		{"html tag", "Install <b>now</b>", "Install now"},
		{"collapses whitespace", "Install   the   thing", "Install the thing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize([]byte(tc.in)))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "installation-guide", Slug("Installation Guide"))
	assert.Equal(t, "a-b", Slug("a b"))
	assert.Equal(t, "c-x", Slug("C (x!)"))
	assert.False(t, len(Slug("-leading-")) > 0 && Slug("-leading-")[0] == '-')
}

func TestAllocator_DuplicateSuffixing(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, "a-b", a.Allocate("a b"))
	assert.Equal(t, "a-b-2", a.Allocate("a b"))
	assert.Equal(t, "a-b-3", a.Allocate("a b"))
}

func TestAllocator_IndependentAllocators(t *testing.T) {
	a1 := NewAllocator()
	a2 := NewAllocator()
	assert.Equal(t, "x", a1.Allocate("x"))
	assert.Equal(t, "x", a2.Allocate("x"))
}

// Copyright © 2024 The ELPS authors

package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections(t *testing.T) {
	names := SectionNames()
	assert.Contains(t, names, "Menu")
	assert.Contains(t, names, "ExtFileFilter")
	for _, name := range names {
		s, ok := Section(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, s, name)
		assert.NotContains(t, s, "## ", name)
	}
	_, ok := Section("Nope")
	assert.False(t, ok)
}

func TestWrap(t *testing.T) {
	text := strings.Repeat("word ", 40) + "\n\nsecond   paragraph"
	out := Wrap(text, 20)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.True(t, strings.HasSuffix(out, "\n\nsecond paragraph"))

	ind := Indent("alpha beta", 80, 4)
	assert.Equal(t, "    alpha beta", ind)

	assert.Equal(t, "title", Hover("title", ""))
	assert.Equal(t, "title\n\nbody", Hover("title", "body"))
}

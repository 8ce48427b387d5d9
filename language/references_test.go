// Copyright © 2024 The ELPS authors

package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/blueprint/typeres"
)

const refSource = `using Gtk 4.0;

Label title {}

Button {
  clicked => $f(title);
}

Window {
  child: title;
}

SizeGroup {
  widgets [title]
}
`

func TestIDAt(t *testing.T) {
	doc, errs := check(t, refSource)
	require.Empty(t, messages(errs))
	cat := typeres.MustDefault()

	id, rng, ok := IDAt(doc, cat, offsetOf(refSource, "title {}")+1)
	require.True(t, ok)
	assert.Equal(t, "title", id)
	assert.Equal(t, 3, rng.StartPos().Line)

	id, rng, ok = IDAt(doc, cat, offsetOf(refSource, "(title)")+2)
	require.True(t, ok)
	assert.Equal(t, "title", id)
	assert.Equal(t, "title", rng.Text())
	assert.Equal(t, 6, rng.StartPos().Line)

	_, _, ok = IDAt(doc, cat, offsetOf(refSource, "Button"))
	assert.False(t, ok)
}

func TestReferences(t *testing.T) {
	doc, _ := check(t, refSource)
	cat := typeres.MustDefault()

	refs := References(doc, cat, "title", true)
	var lines []int
	for _, r := range refs {
		assert.Equal(t, "title", r.Text())
		lines = append(lines, r.StartPos().Line)
	}
	assert.Equal(t, []int{3, 6, 10, 14}, lines)

	assert.Len(t, References(doc, cat, "title", false), 3)
	assert.Empty(t, References(doc, cat, "missing", true))
}

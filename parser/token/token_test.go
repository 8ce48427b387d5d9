// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	used := make(map[string]bool)
	for k := Kind(0); k < numKinds; k++ {
		str := k.String()
		if str == "" {
			t.Errorf("token kind %x has empty string value", k)
			continue
		}
		if used[str] {
			t.Errorf("token kind string used twice: %v", k)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", Kind(200).String())
}

func TestSourcePos(t *testing.T) {
	src := NewSource("test.blp", "using Gtk 4.0;\n\tBox {\n\t\tx: 1;\n}")
	require.Equal(t, 4, src.LineCount())

	tests := []struct {
		offset int
		line   int
		col    int
		disp   int
	}{
		{0, 1, 1, 1},
		{6, 1, 7, 7},
		{15, 2, 1, 1},
		{16, 2, 2, 5},
		{24, 3, 3, 9},
		{len(src.Text), 4, 2, 2},
		{-5, 1, 1, 1},
	}
	for _, test := range tests {
		pos := src.Pos(test.offset)
		assert.Equal(t, test.line, pos.Line, "line of offset %d", test.offset)
		assert.Equal(t, test.col, pos.Col, "col of offset %d", test.offset)
		assert.Equal(t, test.disp, pos.DisplayCol, "display col of offset %d", test.offset)
	}
}

func TestSourceLine(t *testing.T) {
	src := NewSource("x", "a\r\nbb\n\nccc")
	assert.Equal(t, "a", src.Line(1))
	assert.Equal(t, "bb", src.Line(2))
	assert.Equal(t, "", src.Line(3))
	assert.Equal(t, "ccc", src.Line(4))
	assert.Equal(t, "", src.Line(5))
	assert.Equal(t, 3, src.LineStart(2))
}

func TestRange(t *testing.T) {
	src := NewSource("x", "hello world")
	r := NewRange(src, 6, 11)
	assert.Equal(t, "world", r.Text())
	assert.Equal(t, 5, r.Len())
	assert.True(t, r.Contains(11))
	assert.False(t, r.Contains(5))
	assert.Equal(t, "x:1:7", r.String())

	j := Join(NewRange(src, 0, 5), r)
	assert.Equal(t, "hello world", j.Text())
	assert.Equal(t, r, Join(Range{}, r))
	assert.True(t, j.Covers(r))
	assert.True(t, j.Overlaps(r))
	assert.False(t, NewRange(src, 0, 5).Overlaps(r))

	assert.Equal(t, 3, NewRange(src, 3, 1).Start)
	assert.Equal(t, 3, NewRange(src, 3, 1).End)
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 0, DisplayWidth(""))
	assert.Equal(t, 4, DisplayWidth("\t"))
	assert.Equal(t, 6, DisplayWidth("\tab"))
	assert.Equal(t, 4, DisplayWidth("日本"))
	assert.Equal(t, 4, DisplayWidthTabs("\t日", 2))

	src := NewSource("x", "日本 x")
	pos := src.Pos(len("日本 "))
	assert.Equal(t, 4, pos.Col)
	assert.Equal(t, 6, pos.DisplayCol)
}

// Copyright © 2024 The ELPS authors

package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/lexer"
	"github.com/luthersystems/blueprint/parser/token"
)

type testList struct {
	ast.Base
	Name string
}

type testItem struct {
	ast.Base
	Name  string
	Value string
}

func setItemName(n *testItem, s string)  { n.Name = s }
func setItemValue(n *testItem, s string) { n.Value = s }

var (
	testItemRule = Group[testItem](Statement(
		UseIdent("name", setItemName),
		Match(":"),
		Expect(UseNumber("value", setItemValue), "a number"),
	))
	testListRule = Group[testList](
		Keyword("list"),
		UseIdent("name", func(n *testList, s string) { n.Name = s }),
		Match("{").Expected(),
		Until(testItemRule, Match("}")),
	)
	testDoc = Until(testListRule, Eof())
)

func parse(rule Rule, text string) ([]ast.Node, diagnostic.List) {
	src := token.NewSource("test", text)
	return Parse(src, lexer.Significant(lexer.Tokenize(src)), rule)
}

func parseList(t *testing.T, text string) (*testList, []*testItem, diagnostic.List) {
	t.Helper()
	nodes, errs := parse(testDoc, text)
	require.Len(t, nodes, 1)
	list, ok := nodes[0].(*testList)
	require.True(t, ok)
	return list, ast.ChildrenOf[*testItem](list), errs
}

func messages(errs diagnostic.List) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func TestGroup(t *testing.T) {
	list, items, errs := parseList(t, "list a { x: 1; y: 2; }")
	assert.Empty(t, errs)
	assert.Equal(t, "a", list.Name)
	assert.Equal(t, "list a { x: 1; y: 2; }", list.Range().Text())
	assert.Equal(t, "list", list.Capture("list").Text())
	assert.Equal(t, "a", list.Capture("name").Text())
	require.Len(t, items, 2)
	assert.Equal(t, "x", items[0].Name)
	assert.Equal(t, "1", items[0].Value)
	assert.Equal(t, "y: 2;", items[1].Range().Text())
	assert.Equal(t, ast.Node(list), items[1].Parent())
	for _, it := range items {
		assert.True(t, list.Range().Covers(it.Range()))
	}
}

func TestStatementRecovery(t *testing.T) {
	_, items, errs := parseList(t, "list a { x: 1; y: ; z: 3; }")
	assert.Equal(t, []string{"Expected a number"}, messages(errs))
	require.Len(t, items, 3)
	assert.False(t, items[0].Incomplete())
	assert.True(t, items[1].Incomplete())
	assert.False(t, items[2].Incomplete())
	assert.Equal(t, "3", items[2].Value)
}

func TestStatementResyncSkipsNestedBlocks(t *testing.T) {
	_, items, errs := parseList(t, "list a { x: { ; } 1; z: 3; }")
	assert.Equal(t, []string{"Expected a number"}, messages(errs))
	require.Len(t, items, 2)
	assert.Equal(t, "z", items[1].Name)
}

func TestMissingSemicolon(t *testing.T) {
	_, items, errs := parseList(t, "list a { x: 1 y: 2; }")
	require.Len(t, errs, 1)
	assert.Equal(t, "Expected `;`", errs[0].Message)
	assert.Equal(t, 13, errs[0].Range.Start)
	assert.Equal(t, 0, errs[0].Range.Len())
	require.Len(t, errs[0].Actions, 1)
	assert.Equal(t, ";", errs[0].Actions[0].Replace)
	assert.Len(t, items, 2)
}

func TestUnexpectedTokensMerge(t *testing.T) {
	_, items, errs := parseList(t, "list a { x: 1; 5 6 7 z: 2; }")
	require.Len(t, errs, 1)
	assert.Equal(t, "Unexpected tokens", errs[0].Message)
	assert.Equal(t, "5 6 7", errs[0].Range.Text())
	assert.Len(t, items, 2)
}

func TestUntilEOF(t *testing.T) {
	list, items, errs := parseList(t, "list a { x: 1;")
	assert.Equal(t, []string{"Expected `}`"}, messages(errs))
	assert.False(t, errs[0].Fatal)
	assert.False(t, list.Incomplete())
	assert.Len(t, items, 1)
}

func TestExpectedMatch(t *testing.T) {
	nodes, errs := parse(testDoc, "list a x: 1; }")
	assert.Equal(t, []string{"Expected `{`", "Unexpected tokens"}, messages(errs))
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].Incomplete())
	assert.Equal(t, 7, errs[0].Range.Start)
	assert.Equal(t, "x: 1; }", errs[1].Range.Text())
}

func TestLexicalErrors(t *testing.T) {
	_, items, errs := parseList(t, "list a { x: 1; @ }")
	assert.Equal(t, []string{`Unexpected character "@"`}, messages(errs))
	assert.Len(t, items, 1)
}

func TestAnyOfHardFailure(t *testing.T) {
	tried := false
	rule := AnyOf(
		Seq(Keyword("a"), Match("x").Expected()),
		RuleFunc(func(*Context) (bool, error) {
			tried = true
			return true, nil
		}),
	)
	_, errs := parse(rule, "a b")
	assert.Equal(t, []string{"Expected `x`"}, messages(errs))
	assert.False(t, tried)
}

func TestAnyOfBacktracks(t *testing.T) {
	rule := Until(AnyOf(
		Group[testItem](Keyword("a"), Match("x")),
		Group[testItem](Keyword("a"), UseIdent("name", setItemName)),
	), Eof())
	nodes, errs := parse(rule, "a y")
	assert.Empty(t, errs)
	require.Len(t, nodes, 1)
	assert.Equal(t, "y", nodes[0].(*testItem).Name)
}

func TestOptionalDiscardsCaptures(t *testing.T) {
	rule := Group[testItem](
		Optional(UseIdent("name", setItemName), Match(":")),
		UseIdent("value", setItemValue),
	)
	nodes, errs := parse(rule, "a")
	assert.Empty(t, errs)
	require.Len(t, nodes, 1)
	item := nodes[0].(*testItem)
	assert.Equal(t, "", item.Name)
	assert.Equal(t, "a", item.Value)
	assert.True(t, item.Capture("name").IsZero())
}

func TestZeroOrMore(t *testing.T) {
	rule := Seq(ZeroOrMore(Group[testItem](UseIdent("name", setItemName))), Eof())
	nodes, errs := parse(rule, "a b c")
	assert.Empty(t, errs)
	assert.Len(t, nodes, 3)

	nodes, errs = parse(rule, "")
	assert.Empty(t, errs)
	assert.Empty(t, nodes)
}

func TestDelimited(t *testing.T) {
	rule := Group[testList](
		Match("["),
		Optional(Delimited(Group[testItem](UseIdent("name", setItemName)), Match(","))),
		Match("]").Expected(),
	)

	nodes, errs := parse(rule, "[a, b, c]")
	assert.Empty(t, errs)
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Children(), 3)

	nodes, errs = parse(rule, "[]")
	assert.Empty(t, errs)
	assert.Empty(t, nodes[0].Children())

	nodes, errs = parse(rule, "[a, b,]")
	require.Len(t, errs, 1)
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Children(), 2)
	assert.True(t, nodes[0].Incomplete())
	assert.Equal(t, "Expected another item after `,`", errs[0].Message)
	assert.Equal(t, ",", errs[0].Range.Text())
	require.Len(t, errs[0].Actions, 1)
	assert.Equal(t, "", errs[0].Actions[0].Replace)
}

func TestFail(t *testing.T) {
	rule := Until(AnyOf(
		testItemRule,
		Fail(Group[testList](Keyword("bad")), "bad is not allowed here"),
	), Eof())
	nodes, errs := parse(rule, "x: 1; bad y: 2;")
	require.Len(t, errs, 1)
	assert.Equal(t, "bad is not allowed here", errs[0].Message)
	assert.Equal(t, "bad", errs[0].Range.Text())
	assert.Len(t, nodes, 2)
}

func TestForward(t *testing.T) {
	fwd := NewForward()
	nested := Group[testList](Match("("), Optional(fwd), Match(")").Expected())
	fwd.Set(nested)
	nodes, errs := parse(nested, "((()))")
	assert.Empty(t, errs)
	require.Len(t, nodes, 1)
	depth := 0
	for n := nodes[0]; ; depth++ {
		c := n.Children()
		if len(c) == 0 {
			break
		}
		n = c[0]
	}
	assert.Equal(t, 2, depth)
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in  string
		out string
		ok  bool
	}{
		{`"abc"`, "abc", true},
		{`'a\'b'`, "a'b", true},
		{`"a\"b\n"`, "a\"b\n", true},
		{`"a\\b"`, `a\b`, true},
		{`"abc`, "", false},
		{`x`, "", false},
	}
	for _, test := range tests {
		out, ok := Unquote(test.in)
		assert.Equal(t, test.ok, ok, test.in)
		assert.Equal(t, test.out, out, test.in)
	}
	s, ok := Unquote(Quote("say \"hi\"\n\\"))
	assert.True(t, ok)
	assert.Equal(t, "say \"hi\"\n\\", s)
}

func TestParseInteger(t *testing.T) {
	for text, want := range map[string]string{
		"10":                   "10",
		"-3":                   "-3",
		"0x1f":                 "31",
		"1_000":                "1000",
		"9007199254740993":     "9007199254740993",
		"18446744073709551615": "18446744073709551615",
	} {
		got, ok := ParseInteger(text)
		require.True(t, ok, text)
		assert.Equal(t, want, got.String(), text)
	}
	_, ok := ParseInteger("0.5")
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	for text, want := range map[string]float64{"10": 10, "0x1f": 31, "1_000": 1000, "0.5": 0.5, "-3": -3} {
		got, ok := ParseNumber(text)
		assert.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}
}

// Copyright © 2024 The ELPS authors

package grammar

import (
	"fmt"

	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/token"
)

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(*Context) (bool, error)

func (f RuleFunc) Parse(ctx *Context) (bool, error) { return f(ctx) }

type seq []Rule

// Seq matches each rule in order.  A soft failure of any rule is a soft
// failure of the sequence; Seq never promotes failures on its own.
func Seq(rules ...Rule) Rule {
	if len(rules) == 1 {
		return rules[0]
	}
	return seq(rules)
}

func (s seq) Parse(ctx *Context) (bool, error) {
	for _, r := range s {
		if ok, err := r.Parse(ctx); !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

type anyOf []Rule

// AnyOf tries each alternative in order and succeeds with the first one
// that does.  A hard failure in an alternative is returned immediately
// without trying the rest.
func AnyOf(rules ...Rule) Rule {
	return anyOf(rules)
}

func (a anyOf) Parse(ctx *Context) (bool, error) {
	m := ctx.mark()
	for _, r := range a {
		ok, err := r.Parse(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		ctx.reset(m)
	}
	return false, nil
}

type optional struct{ rule Rule }

// Optional matches rule zero or one time.
func Optional(rules ...Rule) Rule {
	return optional{Seq(rules...)}
}

func (o optional) Parse(ctx *Context) (bool, error) {
	m := ctx.mark()
	ok, err := o.rule.Parse(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		ctx.reset(m)
	}
	return true, nil
}

type zeroOrMore struct{ rule Rule }

// ZeroOrMore matches rule as many times as possible.
func ZeroOrMore(rules ...Rule) Rule {
	return zeroOrMore{Seq(rules...)}
}

func (z zeroOrMore) Parse(ctx *Context) (bool, error) {
	for {
		m := ctx.mark()
		ok, err := z.rule.Parse(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			ctx.reset(m)
			return true, nil
		}
		if ctx.pos == m.pos {
			return true, nil
		}
	}
}

type delimited struct{ rule, sep Rule }

// Delimited matches one or more occurrences of rule separated by sep.  A
// separator that is not followed by another rule is recorded as an error
// with a fix removing it, the node being built is marked incomplete, and
// the list ends after the separator.
func Delimited(rule, sep Rule) Rule {
	return delimited{rule, sep}
}

func (d delimited) Parse(ctx *Context) (bool, error) {
	if ok, err := d.rule.Parse(ctx); !ok || err != nil {
		return false, err
	}
	for {
		m := ctx.mark()
		ok, err := d.sep.Parse(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			ctx.reset(m)
			return true, nil
		}
		sepRange := ctx.span(m.pos)
		after := ctx.mark()
		ok, err = d.rule.Parse(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			ctx.reset(after)
			ctx.record(diagnostic.Errorf("Expected another item after `%s`", sepRange.Text()).
				At(sepRange).
				Action("Remove trailing `"+sepRange.Text()+"`", "", sepRange))
			ctx.frame.incomplete = true
			return true, nil
		}
	}
}

type until struct{ rule, term Rule }

// Until matches rule repeatedly until term matches.  Tokens that rule
// cannot match are skipped and reported.  Hard failures are recorded and
// parsing continues.  Reaching the end of input before term is reported but
// does not fail the rule.
func Until(rule, term Rule) Rule {
	return until{rule, term}
}

func (u until) Parse(ctx *Context) (bool, error) {
	for {
		m := ctx.mark()
		ok, err := u.term.Parse(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		ctx.reset(m)
		if ctx.AtEOF() {
			ctx.record(diagnostic.Errorf("Expected %s", describe(u.term)).At(ctx.here()))
			return true, nil
		}
		ok, err = u.rule.Parse(ctx)
		switch {
		case err != nil:
			ctx.record(err)
			if ctx.pos == m.pos {
				ctx.Next()
			}
		case !ok:
			ctx.reset(m)
			ctx.skipUnexpected()
		}
	}
}

type statement []Rule

// Statement matches its rules in order followed by a `;`.  A soft failure
// of any rule is a soft failure of the statement.  A hard failure is
// recorded, the node being built is marked incomplete, and the parser skips
// to the end of the statement.  A missing `;` is reported with a fix but
// does not stop the statement from matching.
func Statement(rules ...Rule) Rule {
	return statement(rules)
}

func (s statement) Parse(ctx *Context) (bool, error) {
	for _, r := range s {
		ok, err := r.Parse(ctx)
		if err != nil {
			ctx.record(err)
			ctx.frame.incomplete = true
			ctx.resync()
			return true, nil
		}
		if !ok {
			return false, nil
		}
	}
	if tok := ctx.Peek(); tok.Is(token.Punct, ";") {
		ctx.Next()
		return true, nil
	}
	at := ctx.afterPrev()
	ctx.record(diagnostic.Errorf("Expected `;`").At(at).Action("Insert `;`", ";", at))
	return true, nil
}

type errRule struct {
	rule Rule
	msg  string
}

// Err promotes a soft failure of rule to a hard failure with message msg.
func Err(rule Rule, msg string) Rule {
	return errRule{rule, msg}
}

// Expect is Err with the message "Expected <what>".
func Expect(rule Rule, what string) Rule {
	return errRule{rule, "Expected " + what}
}

func (e errRule) Parse(ctx *Context) (bool, error) {
	m := ctx.mark()
	ok, err := e.rule.Parse(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		ctx.reset(m)
		return false, diagnostic.Errorf("%s", e.msg).At(ctx.here())
	}
	return true, nil
}

type failRule struct {
	rule Rule
	msg  string
}

// Fail matches rule but turns a match into a hard failure covering the
// matched tokens.  Nodes built by rule are discarded.  It is used to give a
// pointed message for constructs that are valid elsewhere.
func Fail(rule Rule, msg string) Rule {
	return failRule{rule, msg}
}

func (f failRule) Parse(ctx *Context) (bool, error) {
	m := ctx.mark()
	ok, err := f.rule.Parse(ctx)
	if err != nil || !ok {
		return false, err
	}
	rng := ctx.span(m.pos)
	pos := ctx.pos
	ctx.reset(m)
	ctx.pos = pos
	return false, diagnostic.Errorf("%s", f.msg).At(rng)
}

type eof struct{}

// Eof matches the end of input.
func Eof() Rule { return eof{} }

func (eof) Parse(ctx *Context) (bool, error) {
	return ctx.AtEOF(), nil
}

// Forward is a placeholder for a rule defined later, for recursive
// grammars.
type Forward struct {
	rule Rule
}

// NewForward returns an undefined forward rule.
func NewForward() *Forward {
	return &Forward{}
}

// Set defines the rule.
func (f *Forward) Set(r Rule) {
	f.rule = r
}

func (f *Forward) Parse(ctx *Context) (bool, error) {
	diagnostic.Assert(f.rule != nil, "forward grammar rule used before it was defined")
	return f.rule.Parse(ctx)
}

// describe names a terminator for "Expected" messages.
func describe(r Rule) string {
	switch r := r.(type) {
	case *match:
		return fmt.Sprintf("`%s`", r.text)
	case eof:
		return "end of file"
	}
	return "end of block"
}

// Copyright © 2024 The ELPS authors

package ast

import (
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/token"
)

// UniqueInParent reports n when an earlier sibling of the same type
// satisfies same.  Only the later of two duplicates is reported, and the
// diagnostic references the earlier one, so each duplicate pair yields
// exactly one diagnostic.  A nil same treats every sibling of the type as a
// duplicate.
func UniqueInParent[N Node](p *Pass, n N, msg string, same func(other N) bool) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	for _, c := range parent.Children() {
		if Node(n) == c {
			return
		}
		other, ok := c.(N)
		if !ok || (same != nil && !same(other)) {
			continue
		}
		p.Report(diagnostic.Errorf("%s", msg).Ref(selection(other, p.capture), "previous declaration was here"))
		return
	}
}

// selection returns the capture range of n, or its full range.
func selection(n Node, capture string) token.Range {
	if r := n.Capture(capture); !r.IsZero() {
		return r
	}
	return n.Range()
}

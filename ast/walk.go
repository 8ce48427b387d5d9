// Copyright © 2024 The ELPS authors

package ast

import (
	"iter"
	"slices"
)

// All returns a pre-order sequence of root and every node below it.  The
// traversal uses an explicit stack, so arbitrarily deep trees are safe, and
// the sequence may be iterated any number of times.
func All(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if root == nil {
			return
		}
		stack := []Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			children := n.Children()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// OfType filters a node sequence down to nodes of type N.
func OfType[N Node](seq iter.Seq[Node]) iter.Seq[N] {
	return func(yield func(N) bool) {
		for n := range seq {
			if nn, ok := n.(N); ok && !yield(nn) {
				return
			}
		}
	}
}

// NodeAt returns the deepest node whose range contains offset, treating
// range ends as exclusive so a cursor after a closing token belongs to the
// enclosing node.  The root is returned when no node does.
func NodeAt(root Node, offset int) Node {
	n := root
	for {
		var next Node
		for _, c := range n.Children() {
			if r := c.Range(); r.Start <= offset && offset < r.End {
				next = c
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

// Path returns the nodes from the root down to n, inclusive.
func Path(n Node) []Node {
	var path []Node
	for ; n != nil; n = n.Parent() {
		path = append(path, n)
	}
	slices.Reverse(path)
	return path
}

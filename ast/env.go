// Copyright © 2024 The ELPS authors

package ast

import (
	"reflect"

	"github.com/luthersystems/blueprint/diagnostic"
)

// Env is a stack of typed context values.  Lookups are keyed by type and
// the most recently pushed value wins, so a node sees the values provided by
// its nearest ancestors.
type Env struct {
	frames []envFrame
}

type envFrame struct {
	typ reflect.Type
	val any
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{}
}

// Clone returns a copy of the environment that can be extended
// independently.
func (e *Env) Clone() *Env {
	return &Env{frames: append([]envFrame(nil), e.frames...)}
}

// Depth returns the number of values on the stack.
func (e *Env) Depth() int {
	return len(e.frames)
}

func (e *Env) push(typ reflect.Type, val any) {
	e.frames = append(e.frames, envFrame{typ: typ, val: val})
}

// truncate pops values until depth values remain.
func (e *Env) truncate(depth int) {
	clear(e.frames[depth:])
	e.frames = e.frames[:depth]
}

// Provide pushes a value of type C onto the environment.
func Provide[C any](e *Env, v C) {
	e.push(reflect.TypeFor[C](), v)
}

// LookupContext returns the nearest value of type C.
func LookupContext[C any](e *Env) (C, bool) {
	typ := reflect.TypeFor[C]()
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].typ == typ {
			return e.frames[i].val.(C), true
		}
	}
	var zero C
	return zero, false
}

// Context returns the nearest value of type C.  Requesting a context that
// no enclosing node provides is a compiler bug.
func Context[C any](e *Env) C {
	v, ok := LookupContext[C](e)
	if !ok {
		panic(diagnostic.NewBug("no %v context in scope", reflect.TypeFor[C]()))
	}
	return v
}

package lang

import (
	"iter"
	"maps"
	"slices"
)

// maxFrameDepth bounds the length of a frame chain before it is compacted
// into a single frame.
const maxFrameDepth = 32

// Env maps names to values.
//
// An Env is a mutable frame of local bindings on top of an immutable chain of
// frozen frames. [Env.Snapshot] freezes the local frame and returns a new Env
// sharing the chain, so taking a snapshot costs O(1) and later bindings in
// either Env are invisible to the other.
//
// An Env is not safe for concurrent use.
type Env struct {
	local map[string]Value
	base  *frame
}

// frame is an immutable set of bindings. Lookups consult vars, then over, then
// parent, so a frame created by [Env.Extend] with nil vars resolves names
// against the caller (over) before the captured scope (parent).
type frame struct {
	vars   map[string]Value
	parent *frame
	over   *frame
	depth  int
}

// NewEnv returns an empty environment.
func NewEnv() *Env { return new(Env) }

// NewEnvFrom returns an environment holding a copy of vars.
func NewEnvFrom(vars map[string]Value) *Env {
	return &Env{local: maps.Clone(vars)}
}

// Get returns the value bound to name.
func (e *Env) Get(name string) (Value, bool) {
	if v, ok := e.local[name]; ok {
		return v, true
	}

	return e.base.lookup(name)
}

// Set binds name to v, replacing any previous binding visible through e.
func (e *Env) Set(name string, v Value) {
	if e.local == nil {
		e.local = make(map[string]Value)
	}

	e.local[name] = v
}

// Snapshot returns an independent copy of e.
func (e *Env) Snapshot() *Env {
	e.freeze()

	return &Env{base: e.base}
}

// Extend returns a new environment that resolves names against caller first
// and against e second. Neither e nor caller observes bindings made in the
// result, and the result does not observe later bindings in either.
func (e *Env) Extend(caller *Env) *Env {
	e.freeze()
	caller.freeze()

	switch {
	case caller.base == nil:
		return &Env{base: e.base}

	case e.base == nil:
		return &Env{base: caller.base}
	}

	return &Env{base: newFrame(nil, e.base, caller.base)}
}

// Names returns every visible name in lexical order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.flatten()))
}

// All returns an iterator over every visible binding in lexical order of name.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		vars := e.flatten()

		for _, name := range slices.Sorted(maps.Keys(vars)) {
			if !yield(name, vars[name]) {
				return
			}
		}
	}
}

func (e *Env) freeze() {
	if len(e.local) == 0 {
		return
	}

	e.base = newFrame(e.local, e.base, nil)
	e.local = nil
}

func (e *Env) flatten() map[string]Value {
	vars := make(map[string]Value)

	e.base.collect(vars)
	maps.Copy(vars, e.local)

	return vars
}

func newFrame(vars map[string]Value, parent, over *frame) *frame {
	f := &frame{vars: vars, parent: parent, over: over, depth: 1}

	if parent != nil {
		f.depth = parent.depth + 1
	}

	if over != nil {
		f.depth = max(f.depth, over.depth+1)
	}

	if f.depth > maxFrameDepth {
		flat := make(map[string]Value)
		f.collect(flat)

		return &frame{vars: flat, depth: 1}
	}

	return f
}

func (f *frame) lookup(name string) (Value, bool) {
	for ; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}

		if f.over != nil {
			if v, ok := f.over.lookup(name); ok {
				return v, true
			}
		}
	}

	return Value{}, false
}

// collect copies the bindings visible through f into dst, lowest precedence
// first.
func (f *frame) collect(dst map[string]Value) {
	if f == nil {
		return
	}

	f.parent.collect(dst)
	f.over.collect(dst)
	maps.Copy(dst, f.vars)
}

package runtime

import (
	"fmt"
	"maps"
	"sort"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

// Ref addresses a storage cell. Refs start at 1; the zero Ref is invalid.
type Ref uint32

func (r Ref) Valid() bool { return r != 0 }

func (r Ref) String() string {
	return fmt.Sprintf("#%d", uint32(r))
}

// NativeFunc implements a built-in. Arguments arrive converted to literals.
type NativeFunc func(args []ast.Literal) (ast.Literal, error)

// Function is an entry in the function table: a user definition or a
// built-in. Depth is the index of the frame it was registered in.
type Function struct {
	Name   string
	Decl   *ast.FunctionDefinition
	Native NativeFunc
	Depth  int
}

func (f *Function) IsNative() bool {
	return f != nil && f.Native != nil
}

type frame struct {
	vars  map[string]Ref
	funcs map[string]*Function
}

func newFrame() *frame {
	return &frame{vars: make(map[string]Ref), funcs: make(map[string]*Function)}
}

// Environment is the storage and scope model shared by the checker and the
// evaluator. Cells live in an append-only arena addressed by Ref; names are
// resolved through a stack of frames. V is the payload held by each cell.
type Environment[V any] struct {
	cells  []V
	frames []*frame
	// base is the lowest frame visible to variable lookup. It moves up while
	// a function body runs so the callee cannot see its caller's locals.
	base int
}

// NewEnvironment creates an environment with a single root frame.
func NewEnvironment[V any]() *Environment[V] {
	return &Environment[V]{frames: []*frame{newFrame()}}
}

// Depth returns the index of the innermost frame.
func (e *Environment[V]) Depth() int {
	return len(e.frames) - 1
}

// Cells returns the number of allocated cells.
func (e *Environment[V]) Cells() int {
	return len(e.cells)
}

func (e *Environment[V]) PushScope() {
	e.frames = append(e.frames, newFrame())
}

// PopScope discards the innermost frame with its bindings and functions.
// Cells stay allocated. Popping the root frame, or a frame below the current
// call boundary, is a programming error.
func (e *Environment[V]) PopScope() {
	if len(e.frames) <= 1 || len(e.frames)-1 < e.base {
		panic("runtime: PopScope without matching PushScope")
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
}

// New allocates an anonymous cell.
func (e *Environment[V]) New(value V) Ref {
	e.cells = append(e.cells, value)
	return Ref(len(e.cells))
}

// Alloc allocates a cell and binds name to it in the innermost frame,
// shadowing any outer or earlier binding of the same name.
func (e *Environment[V]) Alloc(name string, value V) Ref {
	ref := e.New(value)
	e.frames[len(e.frames)-1].vars[name] = ref
	return ref
}

// Get resolves name from the innermost frame outwards.
func (e *Environment[V]) Get(name string) (V, Ref, bool) {
	for i := len(e.frames) - 1; i >= e.base; i-- {
		if ref, ok := e.frames[i].vars[name]; ok {
			return e.cells[ref-1], ref, true
		}
	}
	var zero V
	return zero, 0, false
}

// DeRef returns the current content of the cell, one level only.
func (e *Environment[V]) DeRef(ref Ref) V {
	e.check(ref)
	return e.cells[ref-1]
}

// SetRef overwrites the content of the cell. All aliases observe the write.
func (e *Environment[V]) SetRef(ref Ref, value V) {
	e.check(ref)
	e.cells[ref-1] = value
}

func (e *Environment[V]) check(ref Ref) {
	if !ref.Valid() || int(ref) > len(e.cells) {
		panic(fmt.Sprintf("runtime: dangling reference %s", ref))
	}
}

// AddFunctionsUnique registers a batch of definitions in the innermost frame.
// A name repeated in the batch, already registered in that frame, or
// reserved by a built-in yields ErrDuplicateDefinition and nothing is
// registered.
func (e *Environment[V]) AddFunctionsUnique(decls []*ast.FunctionDefinition) error {
	top := e.frames[len(e.frames)-1]
	seen := make(map[string]struct{}, len(decls))
	for _, decl := range decls {
		if decl == nil || decl.ID == nil {
			return fmt.Errorf("%w: function without a name", ErrMalformedProgram)
		}
		name := decl.ID.Name
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: function '%s'", ErrDuplicateDefinition, name)
		}
		if _, dup := top.funcs[name]; dup {
			return fmt.Errorf("%w: function '%s'", ErrDuplicateDefinition, name)
		}
		if e.isNative(name) {
			return fmt.Errorf("%w: '%s' is a built-in", ErrDuplicateDefinition, name)
		}
		seen[name] = struct{}{}
	}
	depth := len(e.frames) - 1
	for _, decl := range decls {
		top.funcs[decl.ID.Name] = &Function{Name: decl.ID.Name, Decl: decl, Depth: depth}
	}
	return nil
}

// RegisterNative installs a built-in in the root frame.
func (e *Environment[V]) RegisterNative(name string, impl NativeFunc) error {
	root := e.frames[0]
	if _, dup := root.funcs[name]; dup {
		return fmt.Errorf("%w: function '%s'", ErrDuplicateDefinition, name)
	}
	root.funcs[name] = &Function{Name: name, Native: impl}
	return nil
}

func (e *Environment[V]) isNative(name string) bool {
	fn, ok := e.frames[0].funcs[name]
	return ok && fn.IsNative()
}

// Function resolves a function name from the innermost frame outwards.
func (e *Environment[V]) Function(name string) (*Function, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if fn, ok := e.frames[i].funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Enter prepares the environment for running a function body declared at
// the given frame depth. Frames above that depth are hidden and variable
// lookup is confined to frames pushed after the call. The returned function
// restores the caller's view and must be called exactly once.
func (e *Environment[V]) Enter(depth int) (leave func()) {
	if depth < 0 || depth >= len(e.frames) {
		panic(fmt.Sprintf("runtime: function depth %d outside of %d frames", depth, len(e.frames)))
	}
	savedFrames, savedBase := e.frames, e.base
	n := depth + 1
	// Capping the slice makes the callee's pushes allocate a new backing array.
	e.frames = savedFrames[:n:n]
	e.base = n
	return func() {
		e.frames, e.base = savedFrames, savedBase
	}
}

// Clone returns an independent copy of the environment. Function entries
// are shared because they are never mutated after registration.
func (e *Environment[V]) Clone() *Environment[V] {
	out := &Environment[V]{
		cells:  append([]V(nil), e.cells...),
		frames: make([]*frame, len(e.frames)),
		base:   e.base,
	}
	for i, f := range e.frames {
		out.frames[i] = &frame{vars: maps.Clone(f.vars), funcs: maps.Clone(f.funcs)}
	}
	return out
}

// Names returns the variables visible from the innermost frame, sorted.
func (e *Environment[V]) Names() []string {
	seen := make(map[string]struct{})
	for i := len(e.frames) - 1; i >= e.base; i-- {
		for name := range e.frames[i].vars {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

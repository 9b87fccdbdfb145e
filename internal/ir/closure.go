package ir

import "github.com/adhocteam/tern/internal/source"

// LabeledIR is an instruction together with the label marking it as a jump
// target, if any.
type LabeledIR struct {
	Instr Instr
	Label Label
}

// Closure is the compiled form of one function scope. Jump addresses in a
// finished closure are absolute offsets into Code.
type Closure struct {
	Code    []source.Located[LabeledIR]
	Strings []string
	Ints    []int64
	Floats  []float64

	// Registers is the number of registers the code refers to.
	Registers int
}

// Unit is everything compiled from one source file: the top-level closure
// and the closures of the functions nested in it, in the order they were
// finished.
type Unit struct {
	Main   *Closure
	Nested []*Closure

	// Names lists the global names indexed by the addresses Get and Set
	// use, when the resolver that assigned them can enumerate them.
	Names []string
}

// Closures returns the main closure followed by the nested ones.
func (u *Unit) Closures() []*Closure {
	return append([]*Closure{u.Main}, u.Nested...)
}

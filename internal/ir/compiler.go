package ir

import (
	"math"

	"github.com/adhocteam/tern/internal/source"
)

// Compiler is the state of one compilation: a stack of frames, one per
// function scope being built. The innermost frame receives everything
// allocated, interned and emitted. A Compiler is not safe for concurrent
// use; compile independent units with independent Compilers.
type Compiler struct {
	frames []*frame
}

type frame struct {
	closure Closure

	next  Reg
	inUse map[Reg]bool

	// labels[l-1] describes Label l
	labels  []labelState
	pending Label

	strings map[string]int
	ints    map[int64]int
	floats  map[uint64]int
}

type labelState struct {
	offset int // -1 until marked
	used   bool
}

// NewCompiler returns a Compiler with the top-level frame already pushed.
func NewCompiler() *Compiler {
	c := new(Compiler)
	c.Push()
	return c
}

// Push enters a nested function scope. Register numbering restarts at 0.
func (c *Compiler) Push() {
	c.frames = append(c.frames, &frame{
		inUse:   make(map[Reg]bool),
		strings: make(map[string]int),
		ints:    make(map[int64]int),
		floats:  make(map[uint64]int),
	})
}

// Pop finishes the innermost nested scope and returns its closure. The
// enclosing scope becomes the target again.
func (c *Compiler) Pop() (*Closure, error) {
	if len(c.frames) < 2 {
		return nil, internalf(source.Position{}, "pop of the top-level closure")
	}
	return c.popFrame()
}

// Finish completes the top-level closure. The Compiler must not be used
// afterwards.
func (c *Compiler) Finish() (*Closure, error) {
	if len(c.frames) != 1 {
		return nil, internalf(source.Position{}, "finish with %d nested closures still open", len(c.frames)-1)
	}
	return c.popFrame()
}

func (c *Compiler) top() *frame {
	if len(c.frames) == 0 {
		panic("ir: Compiler used after Finish")
	}
	return c.frames[len(c.frames)-1]
}

func (c *Compiler) popFrame() (*Closure, error) {
	f := c.top()
	c.frames = c.frames[:len(c.frames)-1]
	return f.finalize()
}

// Alloc reserves a fresh register. Registers are never handed out twice
// within a scope.
func (c *Compiler) Alloc() Reg {
	f := c.top()
	r := f.next
	f.next++
	f.inUse[r] = true
	return r
}

// AllocRun reserves n consecutive registers and returns the first.
func (c *Compiler) AllocRun(n int) Reg {
	start := c.top().next
	for range n {
		c.Alloc()
	}
	return start
}

// Next is the register the next Alloc will return.
func (c *Compiler) Next() Reg {
	return c.top().next
}

// Free releases r. Its index stays retired; instructions emitted afterwards
// may not refer to it.
func (c *Compiler) Free(regs ...Reg) {
	f := c.top()
	for _, r := range regs {
		delete(f.inUse, r)
	}
}

// InUse reports whether r is allocated and not yet freed.
func (c *Compiler) InUse(r Reg) bool {
	return c.top().inUse[r]
}

// String returns the pool index of s, adding it on first use.
func (c *Compiler) String(s string) int {
	f := c.top()
	if i, ok := f.strings[s]; ok {
		return i
	}
	i := len(f.closure.Strings)
	f.closure.Strings = append(f.closure.Strings, s)
	f.strings[s] = i
	return i
}

func (c *Compiler) Int(v int64) int {
	f := c.top()
	if i, ok := f.ints[v]; ok {
		return i
	}
	i := len(f.closure.Ints)
	f.closure.Ints = append(f.closure.Ints, v)
	f.ints[v] = i
	return i
}

// Float interns v by bit pattern, so 0.0 and -0.0 get separate entries.
func (c *Compiler) Float(v float64) int {
	f := c.top()
	bits := math.Float64bits(v)
	if i, ok := f.floats[bits]; ok {
		return i
	}
	i := len(f.closure.Floats)
	f.closure.Floats = append(f.closure.Floats, v)
	f.floats[bits] = i
	return i
}

// NewLabel declares a label in the current scope.
func (c *Compiler) NewLabel() Label {
	f := c.top()
	f.labels = append(f.labels, labelState{offset: -1})
	return Label(len(f.labels))
}

// Mark binds l to the next instruction emitted in the current scope. If
// another label is still waiting for an instruction, a Nop is emitted to
// carry it so every label keeps an instruction of its own.
func (c *Compiler) Mark(l Label) error {
	f := c.top()
	if l < 1 || int(l) > len(f.labels) {
		return internalf(f.lastPos(), "mark of undeclared label L%d", l)
	}
	if f.labels[l-1].offset >= 0 {
		return internalf(f.lastPos(), "label L%d marked twice", l)
	}
	if f.pending != 0 {
		f.append(Nop{}, f.lastPos())
	}
	f.labels[l-1].offset = len(f.closure.Code)
	f.pending = l
	return nil
}

// Emit appends in to the current scope after checking that every register,
// pool index and label it names is valid there.
func (c *Compiler) Emit(in Instr, pos source.Position) error {
	f := c.top()
	if err := f.validate(in, pos); err != nil {
		return err
	}
	f.append(in, pos)
	return nil
}

// Len is the number of instructions emitted so far in the current scope.
func (c *Compiler) Len() int {
	return len(c.top().closure.Code)
}

func (f *frame) append(in Instr, pos source.Position) {
	f.closure.Code = append(f.closure.Code, source.Locate(LabeledIR{Instr: in, Label: f.pending}, pos))
	f.pending = 0
}

func (f *frame) lastPos() source.Position {
	if n := len(f.closure.Code); n > 0 {
		return f.closure.Code[n-1].Pos
	}
	return source.Position{}
}

func (f *frame) validate(in Instr, pos source.Position) error {
	if in == nil {
		return internalf(pos, "emit of nil instruction")
	}
	op := in.Opcode()
	if int(op) >= len(opcodes) {
		return internalf(pos, "unknown opcode %d", op)
	}
	args := in.Args()
	kinds := opcodes[op].operands
	if len(args) != len(kinds) {
		return internalf(pos, "%s: want %d operands, got %d", op, len(kinds), len(args))
	}
	for i, kind := range kinds {
		a := args[i]
		var err error
		switch kind {
		case opReg:
			err = f.checkReg(Reg(a), pos)
		case opOptReg:
			if Reg(a) != NoReg {
				err = f.checkReg(Reg(a), pos)
			}
		case opName:
			if a < 0 {
				err = internalf(pos, "%s: negative name address %d", op, a)
			}
		case opString:
			err = checkPool(op, "string", a, len(f.closure.Strings), pos)
		case opInt:
			err = checkPool(op, "integer", a, len(f.closure.Ints), pos)
		case opFloat:
			err = checkPool(op, "float", a, len(f.closure.Floats), pos)
		case opTarget:
			if a < 1 || a > len(f.labels) {
				err = internalf(pos, "%s: undeclared label L%d", op, a)
			}
		case opCount:
			if a < 0 {
				err = internalf(pos, "%s: negative count %d", op, a)
			}
		}
		if err != nil {
			return err
		}
	}

	switch in := in.(type) {
	case Call:
		if err := f.checkRun(in.Start, in.Amount, pos); err != nil {
			return err
		}
	case List:
		if err := f.checkRun(in.Dst-Reg(in.Length), in.Length, pos); err != nil {
			return err
		}
	}

	for i, kind := range kinds {
		if kind == opTarget {
			f.labels[args[i]-1].used = true
		}
	}
	return nil
}

func (f *frame) checkReg(r Reg, pos source.Position) error {
	if r < 0 || r >= f.next {
		return internalf(pos, "register r%d was never allocated", r)
	}
	if !f.inUse[r] {
		return internalf(pos, "register r%d used after it was freed", r)
	}
	return nil
}

func (f *frame) checkRun(start Reg, n int, pos source.Position) error {
	for r := start; r < start+Reg(n); r++ {
		if err := f.checkReg(r, pos); err != nil {
			return err
		}
	}
	return nil
}

func checkPool(op Opcode, pool string, i, n int, pos source.Position) error {
	if i < 0 || i >= n {
		return internalf(pos, "%s: %s constant #%d out of range (pool has %d)", op, pool, i, n)
	}
	return nil
}

// finalize resolves jump labels to instruction offsets.
func (f *frame) finalize() (*Closure, error) {
	if f.pending != 0 {
		f.append(Nop{}, f.lastPos())
	}
	for i, l := range f.labels {
		if l.used && l.offset < 0 {
			return nil, internalf(source.Position{}, "label L%d is jumped to but never marked", i+1)
		}
	}
	code := f.closure.Code
	for i := range code {
		switch in := code[i].Value.Instr.(type) {
		case Jump:
			in.Addr = f.labels[in.Addr-1].offset
			code[i].Value.Instr = in
		case JumpIf:
			in.Addr = f.labels[in.Addr-1].offset
			code[i].Value.Instr = in
		}
	}
	f.closure.Registers = int(f.next)
	return &f.closure, nil
}

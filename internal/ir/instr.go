// Package ir defines tern's register-machine instruction set and the
// compiler state used to build closures out of it.
package ir

import (
	"strconv"
	"strings"
)

// Reg is a register index local to one closure.
type Reg int

// NoReg is the destination of a call whose result is discarded.
const NoReg Reg = -1

// Label names a jump target within one closure. Labels are numbered from 1;
// the zero Label marks an instruction that is not a jump target.
type Label int

type Opcode uint8

const (
	OpNop Opcode = iota
	OpJump
	OpJumpIf
	OpCall
	OpMove
	OpGet
	OpSet
	OpString
	OpInt
	OpFloat
	OpList
	OpMap
	OpField
	OpFieldString
	OpSetField
	OpSetFieldString
)

type operand uint8

const (
	opReg    operand = iota
	opOptReg         // register or NoReg
	opStart          // first register of a run whose length follows
	opName           // address in the external name table
	opString         // string pool index
	opInt            // integer pool index
	opFloat          // float pool index
	opTarget         // label while building, instruction offset once finalized
	opCount
	opFlag
)

var opcodes = [...]struct {
	name     string
	operands []operand
}{
	OpNop:            {"nop", nil},
	OpJump:           {"jump", []operand{opTarget}},
	OpJumpIf:         {"jump_if", []operand{opFlag, opReg, opTarget}},
	OpCall:           {"call", []operand{opOptReg, opReg, opStart, opCount}},
	OpMove:           {"move", []operand{opReg, opReg}},
	OpGet:            {"get", []operand{opReg, opName}},
	OpSet:            {"set", []operand{opName, opReg}},
	OpString:         {"string", []operand{opReg, opString}},
	OpInt:            {"int", []operand{opReg, opInt}},
	OpFloat:          {"float", []operand{opReg, opFloat}},
	OpList:           {"list", []operand{opReg, opCount}},
	OpMap:            {"map", []operand{opReg}},
	OpField:          {"field", []operand{opReg, opReg, opReg}},
	OpFieldString:    {"field_string", []operand{opReg, opReg, opString}},
	OpSetField:       {"set_field", []operand{opReg, opReg, opReg}},
	OpSetFieldString: {"set_field_string", []operand{opReg, opString, opReg}},
}

func (o Opcode) String() string {
	if int(o) < len(opcodes) {
		return opcodes[o].name
	}
	return "Opcode(" + strconv.Itoa(int(o)) + ")"
}

func lookupOpcode(name string) (Opcode, bool) {
	for i, op := range opcodes {
		if op.name == name {
			return Opcode(i), true
		}
	}
	return 0, false
}

// Instr is one IR instruction.
type Instr interface {
	Opcode() Opcode
	// Args returns the operands in declaration order, booleans as 0 or 1.
	Args() []int
}

type Nop struct{}

// Jump transfers control unconditionally.
type Jump struct {
	Addr int
}

// JumpIf jumps when Cond is truthy, or when it is falsy if Negative is set.
type JumpIf struct {
	Negative bool
	Cond     Reg
	Addr     int
}

// Call invokes Func with the Amount registers starting at Start as
// arguments. Dst is NoReg when the result is discarded.
type Call struct {
	Dst    Reg
	Func   Reg
	Start  Reg
	Amount int
}

type Move struct {
	Dst Reg
	Src Reg
}

// Get loads the global bound to name address Addr.
type Get struct {
	Dst  Reg
	Addr int
}

// Set stores Src into the global at name address Addr.
type Set struct {
	Addr int
	Src  Reg
}

type String struct {
	Dst  Reg
	Addr int
}

type Int struct {
	Dst  Reg
	Addr int
}

type Float struct {
	Dst  Reg
	Addr int
}

// List builds a list from the Length registers immediately preceding Dst.
type List struct {
	Dst    Reg
	Length int
}

// Map creates an empty map.
type Map struct {
	Dst Reg
}

type Field struct {
	Dst   Reg
	Head  Reg
	Field Reg
}

// FieldString reads the field of Head named by string constant Addr.
type FieldString struct {
	Dst  Reg
	Head Reg
	Addr int
}

type SetField struct {
	Head  Reg
	Field Reg
	Src   Reg
}

type SetFieldString struct {
	Head Reg
	Addr int
	Src  Reg
}

func (Nop) Opcode() Opcode            { return OpNop }
func (Jump) Opcode() Opcode           { return OpJump }
func (JumpIf) Opcode() Opcode         { return OpJumpIf }
func (Call) Opcode() Opcode           { return OpCall }
func (Move) Opcode() Opcode           { return OpMove }
func (Get) Opcode() Opcode            { return OpGet }
func (Set) Opcode() Opcode            { return OpSet }
func (String) Opcode() Opcode         { return OpString }
func (Int) Opcode() Opcode            { return OpInt }
func (Float) Opcode() Opcode          { return OpFloat }
func (List) Opcode() Opcode           { return OpList }
func (Map) Opcode() Opcode            { return OpMap }
func (Field) Opcode() Opcode          { return OpField }
func (FieldString) Opcode() Opcode    { return OpFieldString }
func (SetField) Opcode() Opcode       { return OpSetField }
func (SetFieldString) Opcode() Opcode { return OpSetFieldString }

func (Nop) Args() []int    { return nil }
func (i Jump) Args() []int { return []int{i.Addr} }

func (i JumpIf) Args() []int {
	neg := 0
	if i.Negative {
		neg = 1
	}
	return []int{neg, int(i.Cond), i.Addr}
}

func (i Call) Args() []int           { return []int{int(i.Dst), int(i.Func), int(i.Start), i.Amount} }
func (i Move) Args() []int           { return []int{int(i.Dst), int(i.Src)} }
func (i Get) Args() []int            { return []int{int(i.Dst), i.Addr} }
func (i Set) Args() []int            { return []int{i.Addr, int(i.Src)} }
func (i String) Args() []int         { return []int{int(i.Dst), i.Addr} }
func (i Int) Args() []int            { return []int{int(i.Dst), i.Addr} }
func (i Float) Args() []int          { return []int{int(i.Dst), i.Addr} }
func (i List) Args() []int           { return []int{int(i.Dst), i.Length} }
func (i Map) Args() []int            { return []int{int(i.Dst)} }
func (i Field) Args() []int          { return []int{int(i.Dst), int(i.Head), int(i.Field)} }
func (i FieldString) Args() []int    { return []int{int(i.Dst), int(i.Head), i.Addr} }
func (i SetField) Args() []int       { return []int{int(i.Head), int(i.Field), int(i.Src)} }
func (i SetFieldString) Args() []int { return []int{int(i.Head), i.Addr, int(i.Src)} }

// build is the inverse of Args.
func build(op Opcode, a []int) Instr {
	r := func(i int) Reg { return Reg(a[i]) }
	switch op {
	case OpNop:
		return Nop{}
	case OpJump:
		return Jump{Addr: a[0]}
	case OpJumpIf:
		return JumpIf{Negative: a[0] != 0, Cond: r(1), Addr: a[2]}
	case OpCall:
		return Call{Dst: r(0), Func: r(1), Start: r(2), Amount: a[3]}
	case OpMove:
		return Move{Dst: r(0), Src: r(1)}
	case OpGet:
		return Get{Dst: r(0), Addr: a[1]}
	case OpSet:
		return Set{Addr: a[0], Src: r(1)}
	case OpString:
		return String{Dst: r(0), Addr: a[1]}
	case OpInt:
		return Int{Dst: r(0), Addr: a[1]}
	case OpFloat:
		return Float{Dst: r(0), Addr: a[1]}
	case OpList:
		return List{Dst: r(0), Length: a[1]}
	case OpMap:
		return Map{Dst: r(0)}
	case OpField:
		return Field{Dst: r(0), Head: r(1), Field: r(2)}
	case OpFieldString:
		return FieldString{Dst: r(0), Head: r(1), Addr: a[2]}
	case OpSetField:
		return SetField{Head: r(0), Field: r(1), Src: r(2)}
	case OpSetFieldString:
		return SetFieldString{Head: r(0), Addr: a[1], Src: r(2)}
	}
	return nil
}

// Format renders in as assembly text, e.g. "get r0 @3" or "call _ r0 r1 2".
// Registers print as rN, name addresses as @N and pool indexes as #N.
func Format(in Instr) string {
	op := in.Opcode()
	args := in.Args()
	var b strings.Builder
	b.WriteString(op.String())
	for i, kind := range opcodes[op].operands {
		a := args[i]
		switch kind {
		case opFlag:
			if a != 0 {
				b.WriteString(" not")
			}
			continue
		case opOptReg:
			if Reg(a) == NoReg {
				b.WriteString(" _")
				continue
			}
			b.WriteString(" r")
		case opReg, opStart:
			b.WriteString(" r")
		case opName:
			b.WriteString(" @")
		case opString, opInt, opFloat:
			b.WriteString(" #")
		default:
			b.WriteString(" ")
		}
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// Package codegen lowers a tern syntax tree to IR.
//
// Every expression is lowered into a freshly allocated register, and its
// result is always the highest register allocated so far. Call arguments
// and list elements need their values in a contiguous run; when lowering
// left temporaries between them, Moves copy the values into a fresh run.
//
// Conventions a VM must follow:
//
//   - List{dst, n} takes its elements from the n registers just below dst.
//   - A map literal is Map{dst} followed by one SetFieldString{dst, key, v}
//     per entry, in source order. Entry values are evaluated before Map.
//   - Call{dst, f, start, n} has dst NoReg for a call statement and start 0
//     when n is 0.
package codegen

import (
	"fmt"

	"github.com/adhocteam/tern/internal/ast"
	"github.com/adhocteam/tern/internal/ir"
	"github.com/adhocteam/tern/internal/source"
)

// Generator lowers statements into closures. It owns one ir.Compiler and
// is good for one unit.
type Generator struct {
	c     *ir.Compiler
	names Resolver
	unit  *ir.Unit
}

// New returns a Generator resolving global names with names, or with a
// fresh Interner if names is nil.
func New(names Resolver) *Generator {
	if names == nil {
		names = NewInterner()
	}
	return &Generator{
		c:     ir.NewCompiler(),
		names: names,
		unit:  new(ir.Unit),
	}
}

// Generate lowers prog into a unit.
func Generate(prog *ast.Program, names Resolver) (*ir.Unit, error) {
	return New(names).Program(prog)
}

// Program lowers prog as the top-level closure and finishes the unit. The
// Generator cannot be used afterwards.
func (g *Generator) Program(prog *ast.Program) (unit *ir.Unit, err error) {
	defer g.recover(&err)
	for _, s := range prog.Stmts {
		g.stmt(s)
	}
	main, err := g.c.Finish()
	g.check(err)
	g.unit.Main = main
	if lister, ok := g.names.(interface{ Names() []string }); ok {
		g.unit.Names = lister.Names()
	}
	return g.unit, nil
}

// Function lowers body as a nested function: it opens a scope, lowers the
// statements into it and closes it. The finished closure is appended to the
// unit's nested closures; the returned index is how the enclosing code
// refers to it.
func (g *Generator) Function(body []ast.Stmt) (index int, err error) {
	defer g.recover(&err)
	g.c.Push()
	for _, s := range body {
		g.stmt(s)
	}
	closure, err := g.c.Pop()
	g.check(err)
	g.unit.Nested = append(g.unit.Nested, closure)
	return len(g.unit.Nested) - 1, nil
}

// The generator uses panic mode error handling like the parser: check and
// failf panic with an *ir.InternalError, and the exported entry points
// recover it.
func (g *Generator) recover(err *error) {
	if e := recover(); e != nil {
		if ie, ok := e.(*ir.InternalError); ok {
			*err = ie
		} else {
			panic(e)
		}
	}
}

func (g *Generator) check(err error) {
	if err != nil {
		panic(err)
	}
}

func (g *Generator) failf(pos source.Position, format string, args ...any) {
	panic(&ir.InternalError{Msg: fmt.Sprintf(format, args...), Pos: pos})
}

func (g *Generator) emit(in ir.Instr, pos source.Position) {
	g.check(g.c.Emit(in, pos))
}

func (g *Generator) resolve(id *ast.Ident) int {
	addr, ok := g.names.Resolve(id.Name)
	if !ok {
		g.failf(id.Span, "unresolved name %q", id.Name)
	}
	return addr
}

func (g *Generator) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		g.assign(s)
	case *ast.CallStmt:
		g.call(s.Head, s.Args, false, s.Span)
	default:
		g.failf(s.Pos(), "unexpected statement %T", s)
	}
}

func (g *Generator) assign(s *ast.Assign) {
	switch target := s.Target.(type) {
	case *ast.Ident:
		v := g.expr(s.Value)
		g.emit(ir.Set{Addr: g.resolve(target), Src: v}, s.Span)
		g.c.Free(v)
	case *ast.Field:
		head := g.expr(target.Head)
		if addr, ok := g.staticKey(target.Field); ok {
			v := g.expr(s.Value)
			g.emit(ir.SetFieldString{Head: head, Addr: addr, Src: v}, s.Span)
			g.c.Free(head, v)
			return
		}
		key := g.expr(target.Field)
		v := g.expr(s.Value)
		g.emit(ir.SetField{Head: head, Field: key, Src: v}, s.Span)
		g.c.Free(head, key, v)
	default:
		g.failf(s.Span, "unexpected assignment target %T", target)
	}
}

// staticKey interns the field name of a.b and a."b" forms.
func (g *Generator) staticKey(field ast.Atom) (int, bool) {
	switch f := field.(type) {
	case *ast.Ident:
		return g.c.String(f.Name), true
	case *ast.String:
		return g.c.String(f.Value), true
	}
	return 0, false
}

// expr lowers e and returns the register holding its value.
func (g *Generator) expr(e ast.Expr) ir.Reg {
	switch e := e.(type) {
	case *ast.Ident:
		dst := g.c.Alloc()
		g.emit(ir.Get{Dst: dst, Addr: g.resolve(e)}, e.Span)
		return dst
	case *ast.Field:
		head := g.expr(e.Head)
		if addr, ok := g.staticKey(e.Field); ok {
			dst := g.c.Alloc()
			g.emit(ir.FieldString{Dst: dst, Head: head, Addr: addr}, e.Span)
			g.c.Free(head)
			return dst
		}
		key := g.expr(e.Field)
		dst := g.c.Alloc()
		g.emit(ir.Field{Dst: dst, Head: head, Field: key}, e.Span)
		g.c.Free(head, key)
		return dst
	case *ast.Integer:
		dst := g.c.Alloc()
		g.emit(ir.Int{Dst: dst, Addr: g.c.Int(e.Value)}, e.Span)
		return dst
	case *ast.Decimal:
		dst := g.c.Alloc()
		g.emit(ir.Float{Dst: dst, Addr: g.c.Float(e.Value)}, e.Span)
		return dst
	case *ast.String:
		dst := g.c.Alloc()
		g.emit(ir.String{Dst: dst, Addr: g.c.String(e.Value)}, e.Span)
		return dst
	case *ast.Paren:
		return g.expr(e.Inner)
	case *ast.List:
		return g.list(e)
	case *ast.Map:
		return g.mapLit(e)
	case *ast.Call:
		return g.call(e.Head, e.Args, true, e.Span)
	}
	g.failf(e.Pos(), "unexpected expression %T", e)
	return ir.NoReg
}

// call lowers head(args...). The result is discarded unless keep is set,
// in which case it is returned in a fresh register.
func (g *Generator) call(head ast.Expr, args []ast.Expr, keep bool, pos source.Position) ir.Reg {
	fn := g.expr(head)
	regs := g.exprs(args)
	start, n := g.run(regs, args, false)
	dst := ir.NoReg
	if keep {
		dst = g.c.Alloc()
	}
	g.emit(ir.Call{Dst: dst, Func: fn, Start: start, Amount: n}, pos)
	g.c.Free(fn)
	g.freeRun(start, n)
	return dst
}

func (g *Generator) list(l *ast.List) ir.Reg {
	regs := g.exprs(l.Elems)
	start, n := g.run(regs, l.Elems, true)
	dst := g.c.Alloc()
	if n > 0 && dst != start+ir.Reg(n) {
		g.failf(l.Span, "list elements r%d..r%d do not precede r%d", start, start+ir.Reg(n)-1, dst)
	}
	g.emit(ir.List{Dst: dst, Length: n}, l.Span)
	g.freeRun(start, n)
	return dst
}

func (g *Generator) mapLit(m *ast.Map) ir.Reg {
	values := make([]ir.Reg, len(m.Entries))
	for i, e := range m.Entries {
		values[i] = g.expr(e.Value)
	}
	dst := g.c.Alloc()
	g.emit(ir.Map{Dst: dst}, m.Span)
	for i, e := range m.Entries {
		g.emit(ir.SetFieldString{Head: dst, Addr: g.c.String(e.Key.Value), Src: values[i]}, e.Key.Pos.Extend(e.Value.Pos()))
		g.c.Free(values[i])
	}
	return dst
}

func (g *Generator) exprs(exprs []ast.Expr) []ir.Reg {
	regs := make([]ir.Reg, len(exprs))
	for i, e := range exprs {
		regs[i] = g.expr(e)
	}
	return regs
}

// run returns a contiguous run of registers holding the values in regs,
// moving them into fresh registers if they are not contiguous already. If
// top is set the run must also end at the highest allocated register. An
// empty run starts at r0.
func (g *Generator) run(regs []ir.Reg, exprs []ast.Expr, top bool) (ir.Reg, int) {
	n := len(regs)
	if n == 0 {
		return 0, 0
	}
	if contiguous(regs) && (!top || regs[n-1]+1 == g.c.Next()) {
		return regs[0], n
	}
	start := g.c.AllocRun(n)
	for i, r := range regs {
		g.emit(ir.Move{Dst: start + ir.Reg(i), Src: r}, exprs[i].Pos())
		g.c.Free(r)
	}
	return start, n
}

func (g *Generator) freeRun(start ir.Reg, n int) {
	for i := range n {
		g.c.Free(start + ir.Reg(i))
	}
}

func contiguous(regs []ir.Reg) bool {
	for i := 1; i < len(regs); i++ {
		if regs[i] != regs[i-1]+1 {
			return false
		}
	}
	return true
}

package ast

// Inspector is called for each node visited by Inspect. Returning false
// skips the node's children.
type Inspector func(Node) bool

// Inspect traverses the tree rooted at n in depth-first, source order.
func Inspect(n Node, f Inspector) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *Assign:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *CallStmt:
		Inspect(n.Head, f)
		inspectList(n.Args, f)
	case *Call:
		Inspect(n.Head, f)
		inspectList(n.Args, f)
	case *Field:
		Inspect(n.Head, f)
		Inspect(n.Field, f)
	case *Paren:
		Inspect(n.Inner, f)
	case *List:
		inspectList(n.Elems, f)
	case *Map:
		for _, e := range n.Entries {
			Inspect(e.Value, f)
		}
	}
}

func inspectList(exprs []Expr, f Inspector) {
	for _, e := range exprs {
		Inspect(e, f)
	}
}

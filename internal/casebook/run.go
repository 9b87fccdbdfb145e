package casebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adhocteam/tern/internal/ast"
	"github.com/adhocteam/tern/internal/compile"
	"github.com/adhocteam/tern/internal/ir"
)

// Mismatch is an assertion whose expected output differs from what the
// compiler produced.
type Mismatch struct {
	Case string
	Assertion
	Got string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("line %d: test %q: %s mismatch:\nwant:\n%s\ngot:\n%s", m.Line, m.Case, m.Kind, m.Content, m.Got)
}

// Run compiles c's input and checks every assertion against the result.
func Run(c Case) []Mismatch {
	res, err := compile.Source(c.Input, compile.Options{Filename: c.Name})
	var failed []Mismatch
	for _, a := range c.Assertions {
		got := Render(a.Kind, res, err)
		if got != a.Content {
			failed = append(failed, Mismatch{Case: c.Name, Assertion: a, Got: got})
		}
	}
	return failed
}

// Render formats one stage of a compilation the way assertion fences spell
// it. For an error fence it is the message of the failing stage, without
// the stage and file prefix compile adds.
func Render(kind Kind, res *compile.Result, err error) string {
	if kind == Error {
		if err == nil {
			return "no error"
		}
		if inner := errors.Unwrap(err); inner != nil {
			return inner.Error()
		}
		return err.Error()
	}
	if err != nil {
		return "unexpected error: " + err.Error()
	}
	var b strings.Builder
	switch kind {
	case Tokens:
		for _, tok := range res.Tokens {
			b.WriteString(tok.Value.String())
			b.WriteByte('\n')
		}
	case AST:
		b.WriteString(ast.Sexp(res.Program))
	case IR:
		if err := ir.FprintUnit(&b, res.Unit); err != nil {
			return "unexpected error: " + err.Error()
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

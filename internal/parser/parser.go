// Package parser turns a token stream into a tern syntax tree.
//
// The grammar, with comma-free argument lists:
//
//	Program    := Statement*
//	Statement  := Path '=' Expression ';'
//	            | Path '(' Expression* ')' ';'
//	Expression := Atom ( '(' Expression* ')' )*
//	Atom       := Path | Integer | Decimal | String
//	            | '(' Expression ')'
//	            | '[' Expression* ']'
//	            | '{' ( (Ident | String) '=' Expression )* '}'
//	Path       := Ident ( '.' ( Ident | Atom ) )*
package parser

import (
	"github.com/adhocteam/tern/internal/ast"
	"github.com/adhocteam/tern/internal/lexer"
	"github.com/adhocteam/tern/internal/source"
)

type token = source.Located[lexer.Token]

// Parse builds the syntax tree for toks. It stops at the first syntax error.
func Parse(toks []token) (prog *ast.Program, err error) {
	p := &parser{toks: toks}
	defer func() {
		if e := recover(); e != nil {
			if se, ok := e.(*Error); ok {
				prog = nil
				err = se
			} else {
				panic(e)
			}
		}
	}()
	prog = p.parseProgram()
	return
}

// ParseString lexes and parses src. The error is a *lexer.Error or a *Error.
func ParseString(src string) (*ast.Program, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// parser is a recursive-descent parser with one token of lookahead.
type parser struct {
	toks []token
	off  int

	// span of the most recently consumed token
	last     source.Position
	consumed bool
}

func (p *parser) peek() (token, bool) {
	if p.off >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.off], true
}

func (p *parser) advance() token {
	tok := p.toks[p.off]
	p.off++
	p.last = tok.Pos
	p.consumed = true
	return tok
}

// eofPos is where an end-of-input error is reported: the column right after
// the last consumed token.
func (p *parser) eofPos() source.Position {
	if !p.consumed {
		return source.At(0, 0)
	}
	return p.last.After()
}

// expect consumes a token of kind k and returns its span.
func (p *parser) expect(k lexer.Kind) source.Position {
	tok, ok := p.peek()
	if !ok {
		p.fail(&Error{Kind: ExpectedToken, Expected: []lexer.Kind{k}, Pos: p.eofPos()})
	}
	if tok.Value.Kind != k {
		p.fail(&Error{Kind: ExpectedToken, Expected: []lexer.Kind{k}, Got: &tok.Value, Pos: tok.Pos})
	}
	return p.advance().Pos
}

// fail signals a syntax error. The parser uses panic mode error handling;
// Parse recovers the *Error and returns it.
func (p *parser) fail(err *Error) {
	panic(err)
}

func (p *parser) parseProgram() *ast.Program {
	prog := new(ast.Program)
	for {
		if _, ok := p.peek(); !ok {
			break
		}
		prog.Stmts = append(prog.Stmts, p.parseStatement())
	}
	if n := len(prog.Stmts); n > 0 {
		prog.Span = prog.Stmts[0].Pos().Extend(prog.Stmts[n-1].Pos())
	}
	return prog
}

func (p *parser) parseStatement() ast.Stmt {
	path := p.parsePath()
	tok, ok := p.peek()
	if !ok {
		p.fail(&Error{Kind: ExpectedTokens, Expected: []lexer.Kind{lexer.Equal, lexer.ParenLeft}, Pos: p.eofPos()})
	}
	switch tok.Value.Kind {
	case lexer.Equal:
		p.advance()
		value := p.parseExpression()
		end := p.expect(lexer.Semicolon)
		return &ast.Assign{Target: path, Value: value, Span: path.Pos().Extend(end)}
	case lexer.ParenLeft:
		p.advance()
		args, _ := p.parseSequence(lexer.ParenRight)
		end := p.expect(lexer.Semicolon)
		return &ast.CallStmt{Head: path, Args: args, Span: path.Pos().Extend(end)}
	}
	p.fail(&Error{Kind: ExpectedTokens, Expected: []lexer.Kind{lexer.Equal, lexer.ParenLeft}, Got: &tok.Value, Pos: tok.Pos})
	return nil
}

func (p *parser) parseExpression() ast.Expr {
	var expr ast.Expr = p.parseAtom()
	for {
		tok, ok := p.peek()
		if !ok || tok.Value.Kind != lexer.ParenLeft {
			return expr
		}
		p.advance()
		args, end := p.parseSequence(lexer.ParenRight)
		expr = &ast.Call{Head: expr, Args: args, Span: expr.Pos().Extend(end)}
	}
}

// parseSequence parses expressions up to and including closer, returning
// them with the closer's span.
func (p *parser) parseSequence(closer lexer.Kind) ([]ast.Expr, source.Position) {
	var exprs []ast.Expr
	for {
		tok, ok := p.peek()
		if !ok {
			p.fail(&Error{Kind: ExpectedToken, Expected: []lexer.Kind{closer}, Pos: p.eofPos()})
		}
		if tok.Value.Kind == closer {
			return exprs, p.advance().Pos
		}
		exprs = append(exprs, p.parseExpression())
	}
}

func (p *parser) parseAtom() ast.Atom {
	tok, ok := p.peek()
	if !ok {
		p.fail(&Error{Kind: UnexpectedEOF, Pos: p.eofPos()})
	}
	switch tok.Value.Kind {
	case lexer.Ident:
		return p.parsePath()
	case lexer.Integer:
		p.advance()
		return &ast.Integer{Value: tok.Value.Int, Span: tok.Pos}
	case lexer.Decimal:
		p.advance()
		return &ast.Decimal{Value: tok.Value.Float, Span: tok.Pos}
	case lexer.String:
		p.advance()
		return &ast.String{Value: tok.Value.Text, Span: tok.Pos}
	case lexer.ParenLeft:
		p.advance()
		inner := p.parseExpression()
		end := p.expect(lexer.ParenRight)
		return &ast.Paren{Inner: inner, Span: tok.Pos.Extend(end)}
	case lexer.BracketLeft:
		p.advance()
		elems, end := p.parseSequence(lexer.BracketRight)
		return &ast.List{Elems: elems, Span: tok.Pos.Extend(end)}
	case lexer.BraceLeft:
		return p.parseMap()
	}
	p.fail(&Error{Kind: UnexpectedToken, Got: &tok.Value, Pos: tok.Pos})
	return nil
}

func (p *parser) parseMap() *ast.Map {
	open := p.advance()
	m := new(ast.Map)
	for {
		tok, ok := p.peek()
		if !ok {
			p.fail(&Error{Kind: ExpectedToken, Expected: []lexer.Kind{lexer.BraceRight}, Pos: p.eofPos()})
		}
		switch tok.Value.Kind {
		case lexer.BraceRight:
			m.Span = open.Pos.Extend(p.advance().Pos)
			return m
		case lexer.Ident, lexer.String:
			p.advance()
			p.expect(lexer.Equal)
			value := p.parseExpression()
			m.Entries = append(m.Entries, ast.MapEntry{Key: source.Locate(tok.Value.Text, tok.Pos), Value: value})
		default:
			p.fail(&Error{
				Kind:     ExpectedTokens,
				Expected: []lexer.Kind{lexer.Ident, lexer.String, lexer.BraceRight},
				Got:      &tok.Value,
				Pos:      tok.Pos,
			})
		}
	}
}

func (p *parser) parsePath() ast.Path {
	p.expect(lexer.Ident)
	var path ast.Path = &ast.Ident{Name: p.toks[p.off-1].Value.Text, Span: p.last}
	for {
		tok, ok := p.peek()
		if !ok || tok.Value.Kind != lexer.Dot {
			return path
		}
		p.advance()
		var field ast.Atom
		if next, ok := p.peek(); ok && next.Value.Kind == lexer.Ident {
			p.advance()
			field = &ast.Ident{Name: next.Value.Text, Span: next.Pos}
		} else {
			field = p.parseAtom()
		}
		path = &ast.Field{Head: path, Field: field, Span: path.Pos().Extend(field.Pos())}
	}
}

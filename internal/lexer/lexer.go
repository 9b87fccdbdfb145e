package lexer

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/adhocteam/tern/internal/source"
)

type ErrorKind int

const (
	ErrBadCharacter ErrorKind = iota
	ErrParseInt
	ErrParseFloat
	ErrExpectedEscapeCharacter
	ErrUnclosedString
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBadCharacter:
		return "bad character"
	case ErrParseInt:
		return "invalid integer"
	case ErrParseFloat:
		return "invalid decimal"
	case ErrExpectedEscapeCharacter:
		return "expected escape character"
	case ErrUnclosedString:
		return "unclosed string"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Error is a lexical error. Char is set for ErrBadCharacter; Err holds the
// underlying strconv error for ErrParseInt and ErrParseFloat.
type Error struct {
	Kind ErrorKind
	Char rune
	Err  error
	Pos  source.Position
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrBadCharacter:
		return fmt.Sprintf("%s: %s %q", e.Pos, e.Kind, e.Char)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Pos, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Lexer is a pull-based tokenizer. Each call to Next yields the following
// token; lexing stops at the first error.
type Lexer struct {
	src []rune
	off int
	ln  int
	col int

	// position of the most recently consumed character
	prev source.Position
}

func New(text string) *Lexer {
	return &Lexer{src: []rune(text)}
}

// Lex tokenizes the whole of text.
func Lex(text string) ([]source.Located[Token], error) {
	var toks []source.Located[Token]
	for tok, err := range New(text).All() {
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// All yields the remaining tokens. Iteration ends after the last token or
// after the first error.
func (l *Lexer) All() iter.Seq2[source.Located[Token], error] {
	return func(yield func(source.Located[Token], error) bool) {
		for {
			tok, err := l.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Next returns the next token, or io.EOF once the input is exhausted.
func (l *Lexer) Next() (source.Located[Token], error) {
	var none source.Located[Token]

	l.skipTrivia()
	start := l.pos()
	c, ok := l.advance()
	if !ok {
		return none, io.EOF
	}
	if k, ok := punctuation[c]; ok {
		return source.Locate(Tok(k), start), nil
	}

	var (
		tok Token
		err *Error
	)
	switch {
	case c == '"' || c == '\'':
		tok, err = l.lexString(c, start)
	case isDigit(c):
		tok, err = l.lexNumber(c, start)
	case isAlnum(c):
		tok = l.lexIdent(c)
	default:
		err = &Error{Kind: ErrBadCharacter, Char: c, Pos: start}
	}
	if err != nil {
		return none, err
	}
	return source.Locate(tok, start.Extend(l.prev)), nil
}

func (l *Lexer) peek() (rune, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	return l.src[l.off], true
}

func (l *Lexer) advance() (rune, bool) {
	c, ok := l.peek()
	if !ok {
		return 0, false
	}
	l.prev = l.pos()
	l.off++
	if c == '\n' {
		l.ln++
		l.col = 0
	} else {
		l.col++
	}
	return c, true
}

func (l *Lexer) pos() source.Position {
	return source.At(l.ln, l.col)
}

// skipTrivia skips whitespace and '#' line comments until neither remains.
func (l *Lexer) skipTrivia() {
	for {
		for c, ok := l.peek(); ok && isSpace(c); c, ok = l.peek() {
			l.advance()
		}
		if c, ok := l.peek(); !ok || c != '#' {
			return
		}
		for c, ok := l.peek(); ok && c != '\n'; c, ok = l.peek() {
			l.advance()
		}
	}
}

func (l *Lexer) lexString(quote rune, start source.Position) (Token, *Error) {
	var b strings.Builder
	for {
		c, ok := l.advance()
		if !ok {
			return Token{}, &Error{Kind: ErrUnclosedString, Pos: start.Extend(l.prev)}
		}
		if c == quote {
			return StringTok(b.String()), nil
		}
		if c != '\\' {
			b.WriteRune(c)
			continue
		}

		e, ok := l.advance()
		if !ok {
			return Token{}, &Error{Kind: ErrExpectedEscapeCharacter, Pos: l.pos()}
		}
		switch {
		case e == 'n':
			b.WriteByte('\n')
		case e == 't':
			b.WriteByte('\t')
		case e == 'r':
			b.WriteByte('\r')
		case isDigit(e):
			escPos := l.prev
			digits := l.digits(e)
			v, err := strconv.ParseUint(digits, 10, 8)
			if err != nil {
				return Token{}, &Error{Kind: ErrParseInt, Err: err, Pos: escPos.Extend(l.prev)}
			}
			b.WriteRune(rune(v))
		default:
			b.WriteRune(e)
		}
	}
}

func (l *Lexer) lexNumber(first rune, start source.Position) (Token, *Error) {
	number := l.digits(first)
	if c, ok := l.peek(); !ok || c != '.' {
		v, err := strconv.ParseInt(number, 10, 64)
		if err != nil {
			return Token{}, &Error{Kind: ErrParseInt, Err: err, Pos: start.Extend(l.prev)}
		}
		return IntTok(v), nil
	}
	l.advance()
	number += "."
	if c, ok := l.peek(); ok && isDigit(c) {
		l.advance()
		number += l.digits(c)
	}
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Token{}, &Error{Kind: ErrParseFloat, Err: err, Pos: start.Extend(l.prev)}
	}
	return DecimalTok(v), nil
}

// digits returns first followed by the run of decimal digits after it.
func (l *Lexer) digits(first rune) string {
	buf := []rune{first}
	for c, ok := l.peek(); ok && isDigit(c); c, ok = l.peek() {
		buf = append(buf, c)
		l.advance()
	}
	return string(buf)
}

func (l *Lexer) lexIdent(first rune) Token {
	buf := []rune{first}
	for c, ok := l.peek(); ok && isAlnum(c); c, ok = l.peek() {
		buf = append(buf, c)
		l.advance()
	}
	return IdentTok(string(buf))
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

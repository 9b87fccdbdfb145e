package lexer

import (
	"fmt"
	"strconv"
)

// Kind identifies the type of a token.
type Kind int

const (
	Ident Kind = iota
	Integer
	Decimal
	String
	ParenLeft
	ParenRight
	BracketLeft
	BracketRight
	BraceLeft
	BraceRight
	Equal
	Semicolon
	Dot
)

var kindNames = [...]string{
	Ident:        "identifier",
	Integer:      "integer",
	Decimal:      "decimal",
	String:       "string",
	ParenLeft:    "'('",
	ParenRight:   "')'",
	BracketLeft:  "'['",
	BracketRight: "']'",
	BraceLeft:    "'{'",
	BraceRight:   "'}'",
	Equal:        "'='",
	Semicolon:    "';'",
	Dot:          "'.'",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var punctuation = map[rune]Kind{
	'(': ParenLeft,
	')': ParenRight,
	'[': BracketLeft,
	']': BracketRight,
	'{': BraceLeft,
	'}': BraceRight,
	'=': Equal,
	';': Semicolon,
	'.': Dot,
}

// Token is a lexical token. Text holds the identifier name or the decoded
// string literal; Int and Float hold decoded numeric literals.
type Token struct {
	Kind  Kind
	Text  string  `json:",omitempty"`
	Int   int64   `json:",omitempty"`
	Float float64 `json:",omitempty"`
}

func Tok(k Kind) Token { return Token{Kind: k} }

func IdentTok(name string) Token { return Token{Kind: Ident, Text: name} }

func StringTok(s string) Token { return Token{Kind: String, Text: s} }

func IntTok(v int64) Token { return Token{Kind: Integer, Int: v} }

func DecimalTok(v float64) Token { return Token{Kind: Decimal, Float: v} }

func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return "Ident(" + t.Text + ")"
	case String:
		return "String(" + strconv.Quote(t.Text) + ")"
	case Integer:
		return "Integer(" + strconv.FormatInt(t.Int, 10) + ")"
	case Decimal:
		return "Decimal(" + strconv.FormatFloat(t.Float, 'g', -1, 64) + ")"
	default:
		return fmt.Sprint(t.Kind)
	}
}

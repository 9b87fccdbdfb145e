package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/adhocteam/tern/internal/lexer"
	"github.com/adhocteam/tern/internal/source"
)

type ErrorKind int

const (
	UnexpectedEOF ErrorKind = iota
	UnexpectedToken
	ExpectedToken
	ExpectedTokens
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case UnexpectedToken:
		return "UnexpectedToken"
	case ExpectedToken:
		return "ExpectedToken"
	case ExpectedTokens:
		return "ExpectedTokens"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// ErrUnexpectedEOF matches, via errors.Is, every syntax error raised because
// the input ended early.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// Error is a syntax error. Got is nil when the input ended before the
// expected token.
type Error struct {
	Kind     ErrorKind
	Expected []lexer.Kind
	Got      *lexer.Token
	Pos      source.Position
}

func (e *Error) Error() string {
	got := "end of input"
	if e.Got != nil {
		got = e.Got.String()
	}
	switch e.Kind {
	case UnexpectedEOF:
		return fmt.Sprintf("%s: %s", e.Pos, ErrUnexpectedEOF)
	case UnexpectedToken:
		return fmt.Sprintf("%s: unexpected %s", e.Pos, got)
	}
	want := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		want[i] = k.String()
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Pos, strings.Join(want, " or "), got)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnexpectedEOF && e.Got == nil
}

package ir

import (
	"fmt"

	"github.com/adhocteam/tern/internal/source"
)

// InternalError reports IR that no well-formed program should produce: a
// register that was never allocated, a misused label, a name the resolver
// does not know. It indicates a compiler bug rather than a user mistake.
type InternalError struct {
	Msg string
	Pos source.Position
}

func (e *InternalError) Error() string {
	if e.Pos.IsZero() {
		return "internal compiler error: " + e.Msg
	}
	return fmt.Sprintf("%s: internal compiler error: %s", e.Pos, e.Msg)
}

func internalf(pos source.Position, format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

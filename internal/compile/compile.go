// Package compile runs the tern pipeline: lexing, parsing and lowering.
package compile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/adhocteam/tern/internal/ast"
	"github.com/adhocteam/tern/internal/codegen"
	"github.com/adhocteam/tern/internal/ir"
	"github.com/adhocteam/tern/internal/lexer"
	"github.com/adhocteam/tern/internal/parser"
	"github.com/adhocteam/tern/internal/source"
)

type Options struct {
	// Filename names the source in error messages. Defaults to "<input>".
	Filename string

	// Names resolves global names. Nil means a fresh codegen.Interner.
	Names codegen.Resolver

	Logger *slog.Logger
}

// Result holds the output of every stage.
type Result struct {
	Tokens  []source.Located[lexer.Token]
	Program *ast.Program
	Unit    *ir.Unit
}

// Source compiles src. The error wraps a *lexer.Error, *parser.Error or
// *ir.InternalError, depending on the stage that failed.
func Source(src string, opts Options) (*Result, error) {
	name := opts.Filename
	if name == "" {
		name = "<input>"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lexing %s: %w", name, err)
	}

	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	unit, err := codegen.Generate(prog, opts.Names)
	if err != nil {
		return nil, fmt.Errorf("lowering %s: %w", name, err)
	}

	logger.Debug("Lowered", "source", name, "tokens", len(toks), "statements", len(prog.Stmts),
		"instructions", len(unit.Main.Code), "registers", unit.Main.Registers)

	return &Result{Tokens: toks, Program: prog, Unit: unit}, nil
}

// File reads and compiles file.
func File(file string, opts Options) (*Result, error) {
	text, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if opts.Filename == "" {
		opts.Filename = file
	}
	return Source(string(text), opts)
}

// Position returns the source span an error from Source refers to.
func Position(err error) (source.Position, bool) {
	var (
		lerr *lexer.Error
		perr *parser.Error
		ierr *ir.InternalError
	)
	switch {
	case errors.As(err, &lerr):
		return lerr.Pos, true
	case errors.As(err, &perr):
		return perr.Pos, true
	case errors.As(err, &ierr):
		return ierr.Pos, !ierr.Pos.IsZero()
	}
	return source.Position{}, false
}

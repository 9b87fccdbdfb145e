package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/adhocteam/tern/internal/ast"
	"github.com/adhocteam/tern/internal/compile"
	"github.com/adhocteam/tern/internal/ir"
	"github.com/adhocteam/tern/internal/lexer"
	"github.com/adhocteam/tern/internal/parser"
	"github.com/adhocteam/tern/internal/report"
)

func readSource(file string) (string, error) {
	text, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(text), nil
}

// Tokens writes the tokens of file, one per line with its position.
func Tokens(w io.Writer, file string) error {
	text, err := readSource(file)
	if err != nil {
		return err
	}
	for tok, err := range lexer.New(text).All() {
		if err != nil {
			return fmt.Errorf("lexing %s: %w", file, err)
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", tok.Pos, tok.Value); err != nil {
			return err
		}
	}
	return nil
}

func parseFile(file string) (*ast.Program, error) {
	text, err := readSource(file)
	if err != nil {
		return nil, err
	}
	prog, err := parser.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return prog, nil
}

// PrettyPrintAST writes the syntax tree of file as indented s-expressions.
func PrettyPrintAST(w io.Writer, file string, color bool) error {
	prog, err := parseFile(file)
	if err != nil {
		return err
	}

	ast.NewPrettyPrinter(w).Color(color).PrettyPrint(prog)

	return nil
}

// DumpAST writes the syntax tree of file as JSON, every node tagged with
// its type.
func DumpAST(w io.Writer, file string) error {
	prog, err := parseFile(file)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(prog); err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	return nil
}

// Disasm writes the IR listing of file.
func Disasm(w io.Writer, file string) error {
	result, err := compile.File(file, compile.Options{})
	if err != nil {
		return err
	}
	return ir.FprintUnit(w, result.Unit)
}

// Report writes an HTML listing of file.
func Report(w io.Writer, file string) error {
	text, err := readSource(file)
	if err != nil {
		return err
	}
	result, err := compile.Source(text, compile.Options{Filename: file})
	if err != nil {
		return err
	}
	return report.Write(w, file, text, result.Unit)
}

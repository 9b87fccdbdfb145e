// Package casebook reads compiler test suites written as Markdown.
//
// A suite is a document with one section per case. A case starts at a
// heading "Test: <name>" and holds exactly one ```tern fence with the input
// followed by one or more assertion fences:
//
//	## Test: hello world
//	```tern
//	print("hello");
//	```
//	```ast
//	(call print "hello")
//	```
//
// Assertion fences are ```tokens (one token per line), ```ast (s-expressions,
// one statement per line), ```ir (the disassembly listing) and ```error (the
// message of the first error).
package casebook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputLang is the info string of the input fence.
const InputLang = "tern"

type Kind string

const (
	Tokens Kind = "tokens"
	AST    Kind = "ast"
	IR     Kind = "ir"
	Error  Kind = "error"
)

func isAssertion(lang string) bool {
	switch Kind(lang) {
	case Tokens, AST, IR, Error:
		return true
	}
	return false
}

type Assertion struct {
	Kind    Kind
	Content string
	Line    int
}

type Case struct {
	Name       string
	Input      string
	Line       int
	Assertions []Assertion
}

// Extract parses a Markdown suite into its cases, in document order.
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var (
		cases   []Case
		current *Case
	)
	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			name, ok := strings.CutPrefix(headingText(n, markdown), "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: name, Line: lineOf(n, markdown)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(markdown))
			line := lineOf(n, markdown)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if lang != InputLang && !isAssertion(lang) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q", line, lang)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
			}
			content := strings.TrimRight(fenceContent(n, markdown), "\n")
			if lang == InputLang {
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test %q", line, current.Name)
				}
				current.Input = content
				current.Line = line
				return ast.WalkContinue, nil
			}
			current.Assertions = append(current.Assertions, Assertion{Kind: Kind(lang), Content: content, Line: line})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	if err := finish(); err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	return cases, nil
}

func validate(c *Case) error {
	if c.Input == "" {
		return fmt.Errorf("test %q has no %s fence", c.Name, InputLang)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", c.Name)
	}
	return nil
}

func headingText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(n *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// lineOf is the 1-based line of n's first content line. Fences report the
// line after the opening ``` marker.
func lineOf(n ast.Node, src []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}
	return bytes.Count(src[:n.Lines().At(0).Start], []byte("\n")) + 1
}

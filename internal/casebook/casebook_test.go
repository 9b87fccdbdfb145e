package casebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestSuites(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			src, err := os.ReadFile(file)
			be.Err(t, err, nil)
			cases, err := Extract(src)
			be.Err(t, err, nil)
			for _, c := range cases {
				t.Run(c.Name, func(t *testing.T) {
					for _, m := range Run(c) {
						t.Error(m)
					}
				})
			}
		})
	}
}

func TestExtract(t *testing.T) {
	markdown := "# Suite\n\n" +
		"## Test: first\n" +
		"```tern\n" +
		"f();\n" +
		"```\n" +
		"```ast\n" +
		"(call f)\n" +
		"```\n" +
		"\n" +
		"## Test: second\n" +
		"```tern\n" +
		"x = 1;\n" +
		"y = 2;\n" +
		"```\n" +
		"```error\n" +
		"no error\n" +
		"```\n" +
		"```tokens\n" +
		"Ident(x)\n" +
		"```\n"

	cases, err := Extract([]byte(markdown))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "first")
	be.Equal(t, cases[0].Input, "f();")
	be.Equal(t, cases[0].Line, 5)
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Kind, AST)
	be.Equal(t, cases[0].Assertions[0].Content, "(call f)")

	be.Equal(t, cases[1].Name, "second")
	be.Equal(t, cases[1].Input, "x = 1;\ny = 2;")
	be.Equal(t, len(cases[1].Assertions), 2)
	be.Equal(t, cases[1].Assertions[0].Kind, Error)
	be.Equal(t, cases[1].Assertions[1].Kind, Tokens)
	be.Equal(t, cases[1].Assertions[1].Line, 20)
}

func TestExtractIgnoresProse(t *testing.T) {
	markdown := "# Notes\n\nSome text.\n\n```\nplain fence\n```\n\n## Background\n"
	cases, err := Extract([]byte(markdown))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 0)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			"unknown fence language",
			"## Test: x\n```python\nprint(1)\n```\n",
			`line 3: unknown fence language "python"`,
		},
		{
			"fence outside of a test case",
			"# Doc\n\n```ast\n(call f)\n```\n",
			"line 4: ast fence outside of a test case",
		},
		{
			"multiple input fences",
			"## Test: twice\n```tern\nf();\n```\n```tern\ng();\n```\n",
			`line 6: multiple input fences in test "twice"`,
		},
		{
			"missing input",
			"## Test: bare\n```ast\n(call f)\n```\n",
			`test "bare" has no tern fence`,
		},
		{
			"missing assertions",
			"## Test: lonely\n```tern\nf();\n```\n\n## Test: next\n```tern\ng();\n```\n```ast\n(call g)\n```\n",
			`test "lonely" has no assertion fences`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.markdown))
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}

func TestRunReportsMismatches(t *testing.T) {
	c := Case{
		Name:  "wrong",
		Input: "f();",
		Assertions: []Assertion{
			{Kind: AST, Content: "(call f)", Line: 3},
			{Kind: AST, Content: "(call g)", Line: 6},
			{Kind: Error, Content: "1:1: unexpected ';'", Line: 9},
		},
	}
	got := Run(c)
	be.Equal(t, len(got), 2)
	be.Equal(t, got[0].Got, "(call f)")
	be.Equal(t, got[0].Line, 6)
	be.Equal(t, got[1].Got, "no error")
	be.True(t, strings.Contains(got[1].Error(), `line 9: test "wrong": error mismatch`))
}

func TestRenderUnexpectedError(t *testing.T) {
	c := Case{
		Name:       "broken",
		Input:      "x =",
		Assertions: []Assertion{{Kind: AST, Content: "(assign x 1)"}},
	}
	got := Run(c)
	be.Equal(t, len(got), 1)
	be.Equal(t, got[0].Got, "unexpected error: parsing broken: 1:4: unexpected end of input")
}

package source

import (
	"fmt"
	"strings"
)

// Excerpt renders the line of src that pos starts on, with one line of
// context on each side and carets under the span:
//
//	 1 | x = 1;
//	 2 | print("hello"
//	   |              ^
func Excerpt(src string, pos Position) string {
	lines := strings.Split(src, "\n")
	ln := pos.Line.Start
	if ln >= len(lines) {
		ln = len(lines) - 1
	}
	if ln < 0 {
		ln = 0
	}

	first, last := ln-1, ln+1
	if first < 0 {
		first = 0
	}
	if last >= len(lines) {
		last = len(lines) - 1
	}
	width := len(fmt.Sprint(last + 1))

	var b strings.Builder
	for i := first; i <= last; i++ {
		fmt.Fprintf(&b, "%*d | %s\n", width, i+1, lines[i])
		if i != ln {
			continue
		}
		start := pos.Col.Start
		if start > len(lines[i]) {
			start = len(lines[i])
		}
		n := 1
		if pos.Line.End-1 <= pos.Line.Start && pos.Col.End > start+1 {
			n = pos.Col.End - start
		}
		fmt.Fprintf(&b, "%*s | %s%s\n", width, "", strings.Repeat(" ", start), strings.Repeat("^", n))
	}
	return b.String()
}

// Text returns the characters of src that pos covers. Columns count runes,
// as the lexer does. Out of range positions are clipped.
func Text(src string, pos Position) string {
	lines := strings.Split(src, "\n")
	var parts []string
	for ln := pos.Line.Start; ln < pos.Line.End && ln < len(lines); ln++ {
		line := []rune(lines[ln])
		start, end := 0, len(line)
		if ln == pos.Line.Start {
			start = min(pos.Col.Start, len(line))
		}
		if ln == pos.Line.End-1 {
			end = min(pos.Col.End, len(line))
		}
		if end < start {
			end = start
		}
		parts = append(parts, string(line[start:end]))
	}
	return strings.Join(parts, "\n")
}

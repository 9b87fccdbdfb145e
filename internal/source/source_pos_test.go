package source

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtend(t *testing.T) {
	tests := []struct {
		a, b Position
		want Position
	}{
		{
			At(0, 0),
			New(Range{0, 1}, Range{2, 5}),
			New(Range{0, 1}, Range{0, 5}),
		},
		{
			New(Range{1, 2}, Range{4, 7}),
			New(Range{3, 4}, Range{0, 1}),
			New(Range{1, 4}, Range{4, 1}),
		},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := tt.a.Extend(tt.b)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got)\n%s", diff)
			}
		})
	}
}

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{At(0, 0), "1:1"},
		{New(Range{2, 3}, Range{4, 7}), "3:5-3:7"},
		{New(Range{0, 2}, Range{6, 3}), "1:7-2:3"},
		{Position{}, "1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAfter(t *testing.T) {
	got := New(Range{0, 1}, Range{6, 13}).After()
	if diff := cmp.Diff(At(0, 13), got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestMapKeepsSpan(t *testing.T) {
	l := Locate(42, New(Range{1, 2}, Range{3, 5}))
	got := Map(l, strconv.Itoa)
	want := Located[string]{Value: "42", Pos: l.Pos}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestExcerpt(t *testing.T) {
	src := "x = 1;\nprint(\"hello\"\ny = 2;"
	got := Excerpt(src, At(1, 13))
	want := "1 | x = 1;\n" +
		"2 | print(\"hello\"\n" +
		"  |              ^\n" +
		"3 | y = 2;\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestText(t *testing.T) {
	src := "x = 1;\nprint(\"héllo\"\n  y);"
	tests := []struct {
		pos  Position
		want string
	}{
		{At(0, 0), "x"},
		{New(Range{1, 2}, Range{6, 13}), `"héllo"`},
		{New(Range{1, 3}, Range{0, 4}), "print(\"héllo\"\n  y)"},
		{New(Range{0, 1}, Range{4, 99}), "1;"},
		{At(7, 0), ""},
	}
	for _, tt := range tests {
		if got := Text(src, tt.pos); got != tt.want {
			t.Errorf("Text(%v) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

package ir

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/adhocteam/tern/internal/source"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleUnit(t *testing.T) *Unit {
	t.Helper()
	c := NewCompiler()
	c.Push()
	r := c.Alloc()
	mustEmit(t, c, Int{Dst: r, Addr: c.Int(42)})
	nested, err := c.Pop()
	if err != nil {
		t.Fatal(err)
	}

	f, s := c.Alloc(), c.Alloc()
	done := c.NewLabel()
	if err := c.Emit(Get{Dst: f, Addr: 0}, source.At(0, 0)); err != nil {
		t.Fatal(err)
	}
	mustEmit(t, c, String{Dst: s, Addr: c.String("hi")})
	mustEmit(t, c, JumpIf{Cond: s, Addr: int(done)})
	mustEmit(t, c, Call{Dst: NoReg, Func: f, Start: s, Amount: 1})
	mustMark(t, c, done)
	mustEmit(t, c, Float{Dst: c.Alloc(), Addr: c.Float(0.5)})
	main, err := c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	return &Unit{Main: main, Nested: []*Closure{nested}, Names: []string{"print"}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleUnit(t)
	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestEncodeHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleUnit(t)); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Format   string
		Compiler string
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Format != FormatVersion || doc.Compiler == "" {
		t.Errorf("unexpected header %+v", doc)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{`, "decoding unit"},
		{"bad version", `{"format": "1.0", "main": {"code": []}}`, `invalid format version "1.0"`},
		{"newer major", `{"format": "v2.0.0", "main": {"code": []}}`, "format v2.0.0 is incompatible with v1.0.0"},
		{"no main", `{"format": "v1.0.0"}`, "missing main closure"},
		{"unknown op", `{"format": "v1.0.0", "main": {"code": [{"op": "halt"}]}}`, `unknown opcode "halt"`},
		{"arity", `{"format": "v1.0.0", "main": {"code": [{"op": "move", "args": [1]}]}}`, "move takes 2 operands, got 1"},
		{"nested", `{"format": "v1.0.0", "main": {"code": []}, "nested": [{"code": [{"op": "?"}]}]}`, "decoding closure 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("want error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeAcceptsNewerMinor(t *testing.T) {
	u, err := Decode(strings.NewReader(`{"format": "v1.3.0", "main": {"code": [{"op": "nop", "pos": [0, 1, 0, 1]}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Main.Code) != 1 || u.Main.Code[0].Value.Instr != (Nop{}) {
		t.Errorf("unexpected code %v", u.Main.Code)
	}
}

func TestFprintUnit(t *testing.T) {
	var buf bytes.Buffer
	if err := FprintUnit(&buf, sampleUnit(t)); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"0000       get r0 @0",
		"0001       string r1 #0",
		"0002       jump_if r1 4",
		"0003       call _ r0 r1 1",
		"0004 L1:   float r2 #0",
		"strings:",
		`  #0 "hi"`,
		"floats:",
		"  #0 0.5",
		"closure 0:",
		"0000       int r0 #0",
		"ints:",
		"  #0 42",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

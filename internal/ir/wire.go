package ir

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/mod/semver"

	"github.com/adhocteam/tern/internal/source"
	"github.com/adhocteam/tern/internal/version"
)

// FormatVersion is the version of the JSON encoding written by Encode.
// Decode accepts any document with the same major version.
const FormatVersion = "v1.0.0"

type wireUnit struct {
	Format   string         `json:"format"`
	Compiler string         `json:"compiler,omitempty"`
	Main     *wireClosure   `json:"main"`
	Nested   []*wireClosure `json:"nested,omitempty"`
	Names    []string       `json:"names,omitempty"`
}

type wireClosure struct {
	Code      []wireInstr `json:"code"`
	Strings   []string    `json:"strings,omitempty"`
	Ints      []int64     `json:"ints,omitempty"`
	Floats    []float64   `json:"floats,omitempty"`
	Registers int         `json:"registers"`
}

// wireInstr stores a position as [line start, line end, col start, col end].
type wireInstr struct {
	Op    string `json:"op"`
	Args  []int  `json:"args,omitempty"`
	Label Label  `json:"label,omitempty"`
	Pos   [4]int `json:"pos"`
}

// Encode writes u as an indented JSON document.
func Encode(w io.Writer, u *Unit) error {
	doc := wireUnit{
		Format:   FormatVersion,
		Compiler: version.Version,
		Main:     toWire(u.Main),
		Names:    u.Names,
	}
	for _, c := range u.Nested {
		doc.Nested = append(doc.Nested, toWire(c))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding unit: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*Unit, error) {
	var doc wireUnit
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding unit: %w", err)
	}
	if !semver.IsValid(doc.Format) {
		return nil, fmt.Errorf("decoding unit: invalid format version %q", doc.Format)
	}
	if semver.Major(doc.Format) != semver.Major(FormatVersion) {
		return nil, fmt.Errorf("decoding unit: format %s is incompatible with %s", doc.Format, FormatVersion)
	}
	if doc.Main == nil {
		return nil, fmt.Errorf("decoding unit: missing main closure")
	}
	u := &Unit{Names: doc.Names}
	var err error
	if u.Main, err = fromWire(doc.Main); err != nil {
		return nil, fmt.Errorf("decoding main closure: %w", err)
	}
	for i, wc := range doc.Nested {
		c, err := fromWire(wc)
		if err != nil {
			return nil, fmt.Errorf("decoding closure %d: %w", i, err)
		}
		u.Nested = append(u.Nested, c)
	}
	return u, nil
}

func toWire(c *Closure) *wireClosure {
	wc := &wireClosure{
		Code:      make([]wireInstr, len(c.Code)),
		Strings:   c.Strings,
		Ints:      c.Ints,
		Floats:    c.Floats,
		Registers: c.Registers,
	}
	for i, in := range c.Code {
		p := in.Pos
		wc.Code[i] = wireInstr{
			Op:    in.Value.Instr.Opcode().String(),
			Args:  in.Value.Instr.Args(),
			Label: in.Value.Label,
			Pos:   [4]int{p.Line.Start, p.Line.End, p.Col.Start, p.Col.End},
		}
	}
	return wc
}

func fromWire(wc *wireClosure) (*Closure, error) {
	c := &Closure{
		Code:      make([]source.Located[LabeledIR], len(wc.Code)),
		Strings:   wc.Strings,
		Ints:      wc.Ints,
		Floats:    wc.Floats,
		Registers: wc.Registers,
	}
	for i, wi := range wc.Code {
		op, ok := lookupOpcode(wi.Op)
		if !ok {
			return nil, fmt.Errorf("instruction %d: unknown opcode %q", i, wi.Op)
		}
		if want := len(opcodes[op].operands); len(wi.Args) != want {
			return nil, fmt.Errorf("instruction %d: %s takes %d operands, got %d", i, op, want, len(wi.Args))
		}
		pos := source.New(source.Range{Start: wi.Pos[0], End: wi.Pos[1]}, source.Range{Start: wi.Pos[2], End: wi.Pos[3]})
		c.Code[i] = source.Locate(LabeledIR{Instr: build(op, wi.Args), Label: wi.Label}, pos)
	}
	return c, nil
}

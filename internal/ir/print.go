package ir

import (
	"fmt"
	"io"
	"strconv"
)

// Fprint writes a listing of c: one instruction per line, prefixed by its
// offset and label, followed by the non-empty constant pools.
func Fprint(w io.Writer, c *Closure) error {
	for off, in := range c.Code {
		label := ""
		if in.Value.Label != 0 {
			label = fmt.Sprintf("L%d:", in.Value.Label)
		}
		if _, err := fmt.Fprintf(w, "%04d %-5s %s\n", off, label, Format(in.Value.Instr)); err != nil {
			return err
		}
	}
	if err := printPool(w, "strings", c.Strings, strconv.Quote); err != nil {
		return err
	}
	if err := printPool(w, "ints", c.Ints, func(v int64) string { return strconv.FormatInt(v, 10) }); err != nil {
		return err
	}
	return printPool(w, "floats", c.Floats, func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) })
}

// FprintUnit lists the main closure and then each nested closure under a
// "closure N" heading.
func FprintUnit(w io.Writer, u *Unit) error {
	if err := Fprint(w, u.Main); err != nil {
		return err
	}
	for i, c := range u.Nested {
		if _, err := fmt.Fprintf(w, "closure %d:\n", i); err != nil {
			return err
		}
		if err := Fprint(w, c); err != nil {
			return err
		}
	}
	return nil
}

func printPool[T any](w io.Writer, name string, pool []T, format func(T) string) error {
	if len(pool) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
		return err
	}
	for i, v := range pool {
		if _, err := fmt.Fprintf(w, "  #%d %s\n", i, format(v)); err != nil {
			return err
		}
	}
	return nil
}

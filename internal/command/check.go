package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/adhocteam/tern/internal/casebook"
)

// ErrCheckFailed is returned by Check when any assertion does not hold.
var ErrCheckFailed = errors.New("check failed")

// Check runs the Markdown test suites in files and writes one report per
// failing assertion, followed by a summary line.
func Check(w io.Writer, files []string) error {
	var passed, failed int
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		cases, err := casebook.Extract(src)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		for _, c := range cases {
			mismatches := casebook.Run(c)
			if len(mismatches) == 0 {
				passed++
				continue
			}
			failed++
			for _, m := range mismatches {
				fmt.Fprintf(w, "%s: %v\n", file, m)
			}
		}
	}
	fmt.Fprintf(w, "%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return ErrCheckFailed
	}
	return nil
}

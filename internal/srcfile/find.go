// Package srcfile locates tern sources and the files compiled from them.
package srcfile

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

const (
	SourceExt = ".tern"
	OutputExt = ".irj"
)

type Kind int

const (
	Source Kind = iota
	Output
)

// Match reports whether path names a file of the given kind.
func Match(path string, kind Kind) bool {
	switch kind {
	case Source:
		return filepath.Ext(path) == SourceExt
	case Output:
		return strings.HasSuffix(path, SourceExt+OutputExt)
	}
	return false
}

// Find yields every file of the given kind under root, in lexical order.
// Directories whose names begin with "." or "_" are skipped, as the go
// command does. A walk error is yielded once and ends the sequence.
func Find(root string, kind Kind) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if Match(path, kind) {
				if !yield(path, nil) {
					return filepath.SkipAll
				}
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// OutputPath is where the compiled form of file goes: next to it when
// outDir is empty, otherwise at the same path relative to root under outDir.
func OutputPath(root, outDir, file string) (string, error) {
	if outDir == "" {
		return file + OutputExt, nil
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	return filepath.Join(outDir, rel) + OutputExt, nil
}

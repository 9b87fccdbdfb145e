package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/adhocteam/tern/internal/compile"
	"github.com/adhocteam/tern/internal/ir"
	"github.com/adhocteam/tern/internal/srcfile"
)

type BuildOptions struct {
	// Root is the directory searched for sources. Defaults to ".".
	Root string

	// OutDir receives the compiled units, mirroring the layout under Root.
	// When empty each unit is written next to its source.
	OutDir string

	// Jobs bounds the number of files compiled at once. When zero, the
	// TERN_JOBS environment variable is consulted, then GOMAXPROCS.
	Jobs int

	Logger *slog.Logger
}

func (o BuildOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o BuildOptions) root() string {
	if o.Root == "" {
		return "."
	}
	return o.Root
}

func (o BuildOptions) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	if n, err := strconv.Atoi(os.Getenv("TERN_JOBS")); err == nil && n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Build compiles every source under the root. Files are compiled
// concurrently; the first failure cancels the rest and is returned.
func Build(ctx context.Context, opts BuildOptions) error {
	logger := opts.logger()
	root := opts.root()
	logger.Info("Building", "root", root)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())

	for file, err := range srcfile.Find(root, srcfile.Source) {
		if err != nil {
			_ = g.Wait()
			return fmt.Errorf("finding sources: %w", err)
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return buildFile(root, opts.OutDir, file, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func buildFile(root, outDir, file string, logger *slog.Logger) error {
	result, err := compile.File(file, compile.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("compiling %q: %w", file, err)
	}

	out, err := srcfile.OutputPath(root, outDir, file)
	if err != nil {
		return fmt.Errorf("locating output for %q: %w", file, err)
	}
	if err := writeUnit(out, result.Unit); err != nil {
		return err
	}
	logger.Info("Compiled", "source", file, "output", out,
		"instructions", len(result.Unit.Main.Code), "closures", len(result.Unit.Nested)+1)
	return nil
}

// writeUnit writes u to a temporary file and renames it into place, so
// readers never see a partial unit.
func writeUnit(path string, u *ir.Unit) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".tern-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(f.Name()) //nolint:errcheck

	if err := ir.Encode(f, u); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", f.Name(), err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

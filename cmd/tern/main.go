package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/adhocteam/tern/internal/command"
	"github.com/adhocteam/tern/internal/compile"
	"github.com/adhocteam/tern/internal/source"
	"github.com/adhocteam/tern/internal/version"
)

type subcmd struct {
	name  string
	usage string
	setup func(*flag.FlagSet)
	run   func(context.Context, *flag.FlagSet) error
}

func buildFlags(fs *flag.FlagSet) {
	fs.String("r", ".", "Compile sources under `root` directory")
	fs.String("o", "", "Write compiled units to `dir` instead of next to their sources")
	fs.Int("j", 0, "Compile up to `n` files at once (default $TERN_JOBS or GOMAXPROCS)")
}

func buildOptions(fs *flag.FlagSet) command.BuildOptions {
	jobs, _ := strconv.Atoi(fs.Lookup("j").Value.String())
	return command.BuildOptions{
		Root:   fs.Lookup("r").Value.String(),
		OutDir: fs.Lookup("o").Value.String(),
		Jobs:   jobs,
	}
}

func fileArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("missing file argument")
	}
	return fs.Arg(0), nil
}

var subcommands = []subcmd{
	{
		name:  "build",
		usage: "[flags]",
		setup: buildFlags,
		run: func(ctx context.Context, fs *flag.FlagSet) error {
			return command.Build(ctx, buildOptions(fs))
		},
	},
	{
		name:  "watch",
		usage: "[flags]",
		setup: buildFlags,
		run: func(ctx context.Context, fs *flag.FlagSet) error {
			return command.Watch(ctx, buildOptions(fs))
		},
	},
	{
		name:  "clean",
		usage: "[flags]",
		setup: func(fs *flag.FlagSet) {
			fs.String("r", ".", "Clean project from `root` directory")
		},
		run: func(_ context.Context, fs *flag.FlagSet) error {
			return command.Clean(fs.Lookup("r").Value.String(), nil)
		},
	},
	{
		name:  "tokens",
		usage: "file",
		setup: func(*flag.FlagSet) {},
		run: func(_ context.Context, fs *flag.FlagSet) error {
			file, err := fileArg(fs)
			if err != nil {
				return err
			}
			return command.Tokens(os.Stdout, file)
		},
	},
	{
		name:  "ast",
		usage: "[flags] file",
		setup: func(fs *flag.FlagSet) {
			fs.Bool("color", false, "Highlight the tree with ANSI colors")
			fs.Bool("json", false, "Dump the tree as JSON")
		},
		run: func(_ context.Context, fs *flag.FlagSet) error {
			file, err := fileArg(fs)
			if err != nil {
				return err
			}
			if fs.Lookup("json").Value.(flag.Getter).Get().(bool) {
				return command.DumpAST(os.Stdout, file)
			}
			color := fs.Lookup("color").Value.(flag.Getter).Get().(bool)
			return command.PrettyPrintAST(os.Stdout, file, color)
		},
	},
	{
		name:  "ir",
		usage: "file",
		setup: func(*flag.FlagSet) {},
		run: func(_ context.Context, fs *flag.FlagSet) error {
			file, err := fileArg(fs)
			if err != nil {
				return err
			}
			return command.Disasm(os.Stdout, file)
		},
	},
	{
		name:  "report",
		usage: "[flags] file",
		setup: func(fs *flag.FlagSet) {
			fs.String("o", "", "Write the HTML report to `file` instead of stdout")
		},
		run: func(_ context.Context, fs *flag.FlagSet) error {
			file, err := fileArg(fs)
			if err != nil {
				return err
			}
			out := fs.Lookup("o").Value.String()
			if out == "" {
				return command.Report(os.Stdout, file)
			}
			return writeFile(out, func(w io.Writer) error { return command.Report(w, file) })
		},
	},
	{
		name:  "check",
		usage: "suite.md...",
		setup: func(*flag.FlagSet) {},
		run: func(_ context.Context, fs *flag.FlagSet) error {
			if fs.NArg() < 1 {
				return fmt.Errorf("missing suite argument")
			}
			return command.Check(os.Stdout, fs.Args())
		},
	},
	{
		name:  "version",
		setup: func(*flag.FlagSet) {},
		run: func(context.Context, *flag.FlagSet) error {
			fmt.Println(version.String())
			return nil
		},
	},
}

func main() {
	flag.Usage = printUsage
	verbose := flag.Bool("v", false, "Log debug messages")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(flag.Args()) < 1 {
		printUsage()
		os.Exit(1)
	}

	cmdName := flag.Arg(0)
	cmd := findCommand(cmdName)
	if cmd == nil {
		fmt.Printf("Unknown command: %s\n", cmdName)
		printUsage()
		os.Exit(1)
	}

	fs := flag.NewFlagSet(cmdName, flag.ExitOnError)
	cmd.setup(fs)
	fs.Usage = func() {
		fmt.Printf("Usage: tern %s %s\n", cmdName, cmd.usage)
		fs.PrintDefaults()
	}

	err := fs.Parse(flag.Args()[1:])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = cmd.run(ctx, fs)
	if err != nil && !errors.Is(err, context.Canceled) {
		printError(err, fs)
		stop()
		os.Exit(1)
	}
}

// printError prints err, followed by an excerpt of the source when err
// points into a file named on the command line.
func printError(err error, fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, command.ErrCheckFailed) {
		return
	}
	pos, ok := compile.Position(err)
	if !ok || fs.NArg() < 1 {
		return
	}
	text, rerr := os.ReadFile(fs.Arg(0))
	if rerr != nil {
		return
	}
	fmt.Fprint(os.Stderr, source.Excerpt(string(text), pos))
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %q: %w", path, cerr)
		}
	}()
	return write(f)
}

func findCommand(name string) *subcmd {
	for i := range subcommands {
		if subcommands[i].name == name {
			return &subcommands[i]
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(flag.CommandLine.Output(), "Usage: tern [-v] <command>")
	fmt.Fprintln(flag.CommandLine.Output(), "Commands:")
	for _, cmd := range subcommands {
		fmt.Fprintf(flag.CommandLine.Output(), "  %s %s\n", cmd.name, cmd.usage)
	}
}

// Command xsdcorpus compiles XML Schema documents into an EXI type corpus
// and reports its diagnostics and tables.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jacoelho/xsdcorpus"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

type cli struct {
	LogLevel   string `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Minimum level of progress logs."`
	LogFormat  string `name:"log-format" enum:"text,json" default:"text" help:"Log record format."`
	CPUProfile string `name:"cpuprofile" type:"path" help:"Write CPU profile to file."`
	MemProfile string `name:"memprofile" type:"path" help:"Write memory profile to file."`

	Compile compileCmd `cmd:"" help:"Compile schemas and print their diagnostics."`
	Types   typesCmd   `cmd:"" help:"Print the type table in serial order."`
	URIs    urisCmd    `cmd:"" name:"uris" help:"Print the URI and local-name tables."`
}

// SchemaSource selects the schemas a command compiles.
type SchemaSource struct {
	Schema   string `arg:"" optional:"" type:"path" help:"Schema document to compile."`
	Manifest string `short:"m" type:"existingfile" help:"YAML manifest listing schemas and options."`
}

// env carries the process streams and settings shared by every command.
type env struct {
	stdout io.Writer
	stderr io.Writer
	opts   xsdcorpus.Options
}

func (s SchemaSource) compile(e *env) (*xsdcorpus.Result, error) {
	res, err := compileSources(s.Manifest, s.Schema, e.opts)
	if err != nil {
		return nil, err
	}
	for _, d := range res.Diagnostics {
		if err := writeln(e.stderr, d.Error()); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type compileCmd struct {
	SchemaSource `embed:""`
}

func (c *compileCmd) Run(e *env) error {
	res, err := c.compile(e)
	if err != nil {
		return err
	}
	sum := res.Corpus.Fingerprint()
	return writef(e.stdout, "types: %d\nelements: %d\ndiagnostics: %d\nfingerprint: %s\n",
		res.Corpus.NumTypes(), res.Corpus.NumElements(), len(res.Diagnostics), hex.EncodeToString(sum[:]))
}

type typesCmd struct {
	SchemaSource `embed:""`
	User bool `help:"Only print user-defined types."`
}

func (c *typesCmd) Run(e *env) error {
	res, err := c.compile(e)
	if err != nil {
		return err
	}
	cp := res.Corpus
	first := corpus.SerialAnyType
	if c.User {
		first = corpus.NumBuiltinSerials
	}
	for s := first; int(s) < cp.NumTypes(); s++ {
		if err := writeln(e.stdout, typeLine(cp, s)); err != nil {
			return err
		}
	}
	return nil
}

// typeLine renders serial, name, shape, base serial and ancestry of one type.
func typeLine(cp *corpus.Corpus, s corpus.Serial) string {
	id := cp.TypeBySerial(s)
	name := cp.QNameOf(id).String()
	if name == "" {
		name = "(anonymous)"
	}
	shape := "complex/" + cp.ContentClassOf(id).String()
	if cp.IsSimpleType(id) {
		shape = "simple/" + cp.VarietyOfSimpleType(id).String()
	}
	return strings.Join([]string{
		strconv.Itoa(int(s)),
		name,
		shape,
		strconv.Itoa(int(cp.SerialOf(cp.BaseTypeOf(id)))),
		strconv.Itoa(int(cp.AncestryIDOf(id))),
	}, "\t")
}

type urisCmd struct {
	SchemaSource `embed:""`
}

func (c *urisCmd) Run(e *env) error {
	res, err := c.compile(e)
	if err != nil {
		return err
	}
	for i, uri := range res.Corpus.URIs() {
		locals := res.Corpus.LocalNamesOf(corpus.URIID(i))
		if err := writef(e.stdout, "%d\t%q\t%s\n", i, uri, strings.Join(locals, " ")); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	var c cli
	exitCode := -1
	parser, err := kong.New(&c,
		kong.Name("xsdcorpus"),
		kong.Description("Compiles XML Schema documents into an EXI type corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := newLogger(stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 2
	}

	if c.CPUProfile != "" {
		stopCPUProfile, err := startCPUProfile(c.CPUProfile)
		if err != nil {
			_ = writef(stderr, "error starting CPU profile: %v\n", err)
			return 1
		}
		defer func() {
			if err := stopCPUProfile(); err != nil {
				_ = writef(stderr, "error stopping CPU profile: %v\n", err)
			}
		}()
	}
	if c.MemProfile != "" {
		defer func() {
			if err := writeMemProfile(c.MemProfile); err != nil {
				_ = writef(stderr, "error writing memory profile: %v\n", err)
			}
		}()
	}

	e := &env{stdout: stdout, stderr: stderr, opts: xsdcorpus.NewOptions().WithLogger(logger)}
	if err := kctx.Run(e); err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("start cpu profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("close cpu profile %s: %w", path, err)
		}
		return nil
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("write mem profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close mem profile %s: %w", path, err)
	}
	return nil
}

// Package xsdcorpus compiles XML Schema documents into the type corpus an
// EXI grammar builder queries.
package xsdcorpus

import (
	"fmt"
	"io/fs"

	pkgerrors "github.com/pkg/errors"

	"github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/compiler"
	"github.com/jacoelho/xsdcorpus/internal/schemaread"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// Result is a compiled corpus and the recoverable diagnostics reported
// while building it.
type Result struct {
	Corpus      *corpus.Corpus
	Diagnostics errors.DiagnosticList
}

// Compile loads the schemas at locations from fsys and compiles them.
func Compile(fsys fs.FS, locations ...string) (*Result, error) {
	return CompileWithOptions(fsys, NewOptions(), locations...)
}

// CompileWithOptions loads and compiles schemas with explicit configuration.
// A fatal diagnostic is returned as a *errors.CompileError and is also
// reported to the configured monitor.
func CompileWithOptions(fsys fs.FS, opts Options, locations ...string) (*Result, error) {
	if fsys == nil {
		return nil, fmt.Errorf("compile schema: nil fs")
	}
	return compile(&schemaread.Reader{FS: fsys}, opts, locations)
}

// CompileDocuments compiles in-memory schema documents keyed by location.
func CompileDocuments(docs map[string][]byte, opts Options, locations ...string) (*Result, error) {
	return compile(&schemaread.Reader{Documents: docs}, opts, locations)
}

func compile(r *schemaread.Reader, opts Options, locations []string) (*Result, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("compile schema: no locations")
	}
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var collected errors.Collector
	monitor := errors.Tee(&collected, resolved.monitor)
	r.Logger = resolved.logger

	c, err := build(r, resolved, monitor, locations)
	if err != nil {
		var ce *errors.CompileError
		if pkgerrors.As(err, &ce) {
			monitor.Report(ce.Diagnostic)
		}
		return nil, fmt.Errorf("compile schema %s: %w", locations[0], err)
	}
	return &Result{Corpus: c, Diagnostics: collected.Diagnostics()}, nil
}

func build(r *schemaread.Reader, opts resolvedOptions, monitor errors.Monitor, locations []string) (*corpus.Corpus, error) {
	set, err := r.Read(locations...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(set, compiler.Config{
		Monitor:                 monitor,
		Logger:                  opts.logger,
		MaxRestrictedCharacters: opts.maxRestrictedCharacters,
	})
}

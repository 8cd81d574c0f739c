package xsdcorpus

import (
	"fmt"
	"log/slog"

	"github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/facets"
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved() int {
	if !o.set {
		return 0
	}
	return o.value
}

// Options configures schema loading and corpus compilation.
type Options struct {
	monitor                 errors.Monitor
	logger                  *slog.Logger
	maxRestrictedCharacters intOption
}

type resolvedOptions struct {
	monitor                 errors.Monitor
	logger                  *slog.Logger
	maxRestrictedCharacters int
}

// NewOptions returns a default, valid options value.
func NewOptions() Options {
	return Options{}
}

// Validate validates option values.
func (o Options) Validate() error {
	_, err := o.withDefaults()
	return err
}

// WithMonitor sets the monitor receiving every diagnostic as it is found.
// Diagnostics are also collected on the Result.
func (o Options) WithMonitor(m errors.Monitor) Options {
	o.monitor = m
	return o
}

// WithLogger sets the logger for compilation progress (nil discards).
func (o Options) WithLogger(l *slog.Logger) Options {
	o.logger = l
	return o
}

// WithMaxRestrictedCharacters caps the size of restricted character sets
// of string types (0 uses the EXI default of 255).
func (o Options) WithMaxRestrictedCharacters(value int) Options {
	o.maxRestrictedCharacters = intOption{value: value, set: true}
	return o
}

func (o Options) withDefaults() (resolvedOptions, error) {
	limit := o.maxRestrictedCharacters.resolved()
	if limit < 0 || limit > facets.MaxAlphabet {
		return resolvedOptions{}, fmt.Errorf("max restricted characters %d out of range [0,%d]", limit, facets.MaxAlphabet)
	}
	r := resolvedOptions{
		monitor:                 o.monitor,
		logger:                  o.logger,
		maxRestrictedCharacters: limit,
	}
	if r.monitor == nil {
		r.monitor = errors.Discard
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r, nil
}

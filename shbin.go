// Package shbin assembles PICA200 shader programs into shader binary
// containers (DVLB/DVLP/DVLE).
//
// Assembling runs two upstream stages supplied by a Frontend, then writes
// the container:
//  1. Assemble the source into a relocatable unit
//  2. Relocate the unit into an ir.Result
//  3. Serialize the result with the dvl package
//
// Example usage with the manifest front end:
//
//	asm := shbin.New(manifest.Frontend{Format: manifest.FormatYAML})
//	data, err := asm.AssembleFile("shader.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Failures are reported twice: to the assembler's ErrorHandler, which by
// default prints them to stderr, and as a returned *Error. A failed call
// never returns container bytes.
package shbin

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/shbin/dvl"
	"github.com/gogpu/shbin/ir"
)

// Frontend turns assembler source into a relocatable unit.
type Frontend interface {
	Assemble(source string) (Relocatable, error)
}

// Relocatable is the output of a Frontend before program-internal
// addresses are resolved.
type Relocatable interface {
	Relocate() (*ir.Result, error)
}

// Assembler assembles source into shader binary containers.
// An Assembler holds no state between calls.
type Assembler struct {
	frontend Frontend
	handler  ErrorHandler
	logger   *slog.Logger
	validate bool
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithErrorHandler sets the handler that receives assembly failures.
// Nil restores the default stderr handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *Assembler) {
		a.handler = h
	}
}

// WithLogger sets the logger. Without it the package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// WithValidation enables ir.Validate on every relocated result.
// The container writer itself never validates.
func WithValidation(enabled bool) Option {
	return func(a *Assembler) {
		a.validate = enabled
	}
}

// New creates an assembler using the given front end.
func New(frontend Frontend, opts ...Option) *Assembler {
	a := &Assembler{frontend: frontend}
	for _, opt := range opts {
		opt(a)
	}
	if a.handler == nil {
		a.handler = WriterHandler(os.Stderr)
	}
	return a
}

// AssembleCode assembles source and returns the container bytes.
func (a *Assembler) AssembleCode(source string) ([]byte, error) {
	unit, err := a.frontend.Assemble(source)
	if err != nil {
		return nil, a.fail(ErrSourceSyntax, err)
	}

	result, err := unit.Relocate()
	if err != nil {
		return nil, a.fail(ErrRelocation, err)
	}

	if a.validate {
		if err := validate(result); err != nil {
			return nil, a.fail(ErrValidation, err)
		}
	}

	return a.AssembleResult(result), nil
}

// AssembleFile reads the file at path and assembles its content.
func (a *Assembler) AssembleFile(path string) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, a.fail(ErrFileAccess, fmt.Errorf("cannot open input file: %w", err))
	}
	return a.AssembleCode(string(source))
}

// AssembleResult writes an already assembled and relocated result.
func (a *Assembler) AssembleResult(result *ir.Result) []byte {
	log := a.log()
	data := dvl.SerializeWithOptions(result, dvl.SerializeOptions{Logger: log})
	log.Info("shbin: assembled container",
		"programs", len(result.Programs),
		"emitted", result.EmittedPrograms(),
		"bytes", len(data))
	return data
}

func (a *Assembler) fail(kind ErrorKind, err error) error {
	e := NewError(kind, err)
	a.log().Warn("shbin: assembly failed", "kind", kind.String(), "err", err)
	a.handler.HandleError(kind.Topic(), e.Message)
	return e
}

func (a *Assembler) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return Logger()
}

func validate(result *ir.Result) error {
	errs, err := ir.Validate(result)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed (%d errors): %w", len(errs), &errs[0])
	}
	return nil
}

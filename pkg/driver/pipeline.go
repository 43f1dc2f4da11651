package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/interpreter"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/parser"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/typechecker"
)

// Phase names the pipeline stage an error came from.
type Phase string

const (
	PhaseParse Phase = "parse"
	PhaseCheck Phase = "check"
	PhaseRun   Phase = "run"
)

// PhaseError wraps a failure with the stage and source that produced it.
type PhaseError struct {
	Phase  Phase
	Source string
	Err    error
}

func (e *PhaseError) Error() string {
	if e.Source == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// PhaseOf reports the stage err was raised in, if it came from a Pipeline.
func PhaseOf(err error) (Phase, bool) {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase, true
	}
	return "", false
}

// Result is the outcome of running a program.
type Result struct {
	Type    ast.Type
	Value   ast.Literal
	Display string
}

// Pipeline parses, checks and runs programs. Nothing is evaluated unless the
// type checker accepted it.
type Pipeline struct {
	out    io.Writer
	logger *slog.Logger
}

type Option func(*Pipeline)

// WithOutput sets where the program's print and println write.
func WithOutput(out io.Writer) Option {
	return func(p *Pipeline) {
		if out != nil {
			p.out = out
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{out: io.Discard, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse lowers src into a program.
func (p *Pipeline) Parse(src *Source) (*ast.Program, error) {
	start := time.Now()
	prog, err := parser.ParseProgram(src.Text)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseParse, Source: src.Name, Err: err}
	}
	p.logger.Debug("parsed", "source", src.Name, "functions", len(prog.Functions), "elapsed", time.Since(start))
	return prog, nil
}

// Check parses and type checks src, returning the program and main's type.
func (p *Pipeline) Check(src *Source) (*ast.Program, ast.Type, error) {
	prog, err := p.Parse(src)
	if err != nil {
		return nil, ast.Type{}, err
	}
	start := time.Now()
	typ, err := typechecker.New(typechecker.WithLogger(p.logger)).CheckProgram(prog)
	if err != nil {
		return nil, ast.Type{}, &PhaseError{Phase: PhaseCheck, Source: src.Name, Err: err}
	}
	p.logger.Debug("checked", "source", src.Name, "main", typ.String(), "elapsed", time.Since(start))
	return prog, typ, nil
}

// Run checks src and, when it is well typed, runs main.
func (p *Pipeline) Run(src *Source) (*Result, error) {
	prog, typ, err := p.Check(src)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	interp := interpreter.New(interpreter.WithOutput(p.out), interpreter.WithLogger(p.logger))
	if err := interp.LoadProgram(prog); err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Source: src.Name, Err: err}
	}
	value, err := interp.RunMain()
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Source: src.Name, Err: err}
	}
	lit, err := interp.Literal(value)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Source: src.Name, Err: err}
	}
	p.logger.Debug("ran", "source", src.Name, "value", lit.Quoted(), "elapsed", time.Since(start))
	return &Result{Type: typ, Value: lit, Display: interp.Format(value)}, nil
}

// RunBlock checks and evaluates src as the statements of a single block.
func (p *Pipeline) RunBlock(src *Source) (*Result, error) {
	block, err := parser.ParseBlockSource(src.Text)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseParse, Source: src.Name, Err: err}
	}
	typ, err := typechecker.New(typechecker.WithLogger(p.logger)).CheckBlock(block)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseCheck, Source: src.Name, Err: err}
	}
	interp := interpreter.New(interpreter.WithOutput(p.out), interpreter.WithLogger(p.logger))
	value, err := interp.EvaluateBlock(block)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Source: src.Name, Err: err}
	}
	lit, err := interp.Literal(value)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Source: src.Name, Err: err}
	}
	return &Result{Type: typ, Value: lit, Display: interp.Format(value)}, nil
}

package driver

import (
	"io"
	"log/slog"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/interpreter"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/parser"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/typechecker"
)

// Session evaluates snippets one after another against persistent checker
// and interpreter scopes. A snippet that fails to check leaves both scopes
// untouched.
type Session struct {
	checker *typechecker.Checker
	interp  *interpreter.Interpreter
	logger  *slog.Logger
	count   int
}

func NewSession(out io.Writer, logger *slog.Logger) *Session {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		checker: typechecker.New(typechecker.WithLogger(logger)),
		interp:  interpreter.New(interpreter.WithOutput(out), interpreter.WithLogger(logger)),
		logger:  logger,
	}
}

// Eval parses text as block statements, checks them and then runs them in
// the session scope.
func (s *Session) Eval(text string) (*Result, error) {
	s.count++
	block, err := parser.ParseBlockSource([]byte(text))
	if err != nil {
		return nil, &PhaseError{Phase: PhaseParse, Err: err}
	}
	typ, err := s.checker.CheckStatements(block.Body, block.TrailingSemicolon)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseCheck, Err: err}
	}
	value, err := s.interp.EvaluateStatements(block.Body, block.TrailingSemicolon)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Err: err}
	}
	lit, err := s.interp.Literal(value)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRun, Err: err}
	}
	s.logger.Debug("session input", "n", s.count, "type", typ.String())
	return &Result{Type: typ, Value: lit, Display: s.interp.Format(value)}, nil
}

// Names lists the bindings visible in the session.
func (s *Session) Names() []string {
	return s.interp.Environment().Names()
}

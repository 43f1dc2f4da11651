package interpreter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/eval"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// Interpreter evaluates checked programs over an environment of runtime
// values. Callers are expected to run the type checker first.
type Interpreter struct {
	walker *eval.Walker[runtime.Value]
	out    io.Writer
	logger *slog.Logger
	main   *runtime.Function
}

type Option func(*Interpreter)

// WithOutput sets the destination of print and println.
func WithOutput(out io.Writer) Option {
	return func(i *Interpreter) {
		if out != nil {
			i.out = out
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New returns an interpreter with the built-ins installed. Output is
// discarded unless WithOutput is given.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{out: io.Discard, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(i)
	}
	env := runtime.NewEnvironment[runtime.Value]()
	if err := runtime.InstallBuiltins(env, i.out); err != nil {
		panic(err)
	}
	i.walker = eval.NewWalker[runtime.Value](env, semantics{}, i.logger)
	return i
}

// Environment exposes the interpreter's storage.
func (i *Interpreter) Environment() *runtime.Environment[runtime.Value] {
	return i.walker.Env()
}

// LoadProgram registers the program's functions and locates main. It does
// not run anything.
func (i *Interpreter) LoadProgram(prog *ast.Program) error {
	main, err := i.walker.Program(prog)
	if err != nil {
		return err
	}
	i.main = main
	i.logger.Debug("program loaded", "functions", len(prog.Functions))
	return nil
}

// RunMain invokes the loaded program's main function.
func (i *Interpreter) RunMain() (runtime.Value, error) {
	if i.main == nil {
		return runtime.UnitValue(), runtime.ErrMainMissing
	}
	return i.walker.Invoke(i.main, nil)
}

// EvaluateProgram loads prog and runs its main function.
func (i *Interpreter) EvaluateProgram(prog *ast.Program) (runtime.Value, error) {
	if err := i.LoadProgram(prog); err != nil {
		return runtime.UnitValue(), err
	}
	return i.RunMain()
}

// EvaluateBlock evaluates a block in a new scope.
func (i *Interpreter) EvaluateBlock(block *ast.BlockExpression) (runtime.Value, error) {
	return i.walker.Block(block)
}

// EvaluateStatements evaluates statements in the session scope; bindings
// and functions they introduce persist. Effects of statements that ran
// before an error are kept.
func (i *Interpreter) EvaluateStatements(body []ast.Statement, trailingSemicolon bool) (runtime.Value, error) {
	return i.walker.Statements(body, trailingSemicolon)
}

func (i *Interpreter) EvaluateExpression(expr ast.Expression) (runtime.Value, error) {
	return i.walker.Expression(expr)
}

// Literal resolves v to the literal it denotes, following references.
func (i *Interpreter) Literal(v runtime.Value) (ast.Literal, error) {
	return toLiteral(i.walker.Env(), v)
}

// Format renders v for display. References render as their pointee.
func (i *Interpreter) Format(v runtime.Value) string {
	return formatValue(i.walker.Env(), v)
}

func toLiteral(env *runtime.Environment[runtime.Value], v runtime.Value) (ast.Literal, error) {
	for depth := 0; depth <= env.Cells(); depth++ {
		switch val := runtime.StripMut(v).(type) {
		case runtime.LiteralValue:
			return val.Literal, nil
		case runtime.RefValue:
			v = env.DeRef(val.Ref)
		case runtime.UninitValue:
			return ast.UnitLiteral(), runtime.ErrUninitialized
		default:
			return ast.UnitLiteral(), fmt.Errorf("%w: unexpected value %T", runtime.ErrMalformedProgram, v)
		}
	}
	return ast.UnitLiteral(), fmt.Errorf("%w: reference cycle", runtime.ErrMalformedProgram)
}

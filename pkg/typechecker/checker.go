package typechecker

import (
	"fmt"
	"log/slog"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/eval"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// Checker verifies programs statically by walking them over an
// environment of types. The first error aborts a check.
type Checker struct {
	walker *eval.Walker[Ty]
	logger *slog.Logger
}

type Option func(*Checker)

// WithLogger routes checker debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a checker with the built-ins installed.
func New(opts ...Option) *Checker {
	c := &Checker{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	c.walker = eval.NewWalker[Ty](newEnvironment(), rules{}, c.logger)
	return c
}

func newEnvironment() *runtime.Environment[Ty] {
	env := runtime.NewEnvironment[Ty]()
	if err := runtime.InstallBuiltins(env, nil); err != nil {
		panic(err)
	}
	return env
}

// Environment exposes the checker's storage, mainly for tests.
func (c *Checker) Environment() *runtime.Environment[Ty] {
	return c.walker.Env()
}

// Realize resolves t against the checker's storage.
func (c *Checker) Realize(t Ty) ast.Type {
	return realize(c.walker.Env(), t)
}

// CheckProgram checks every function of prog and returns the return type of
// main. The checker starts from a fresh environment on every call.
func (c *Checker) CheckProgram(prog *ast.Program) (ast.Type, error) {
	c.walker.SetEnv(newEnvironment())
	main, err := c.walker.Program(prog)
	if err != nil {
		return ast.Type{}, fmt.Errorf("typechecker: %w", err)
	}
	c.logger.Debug("program checked", "functions", len(prog.Functions))
	return main.Decl.Result(), nil
}

// CheckBlock checks a block in a new scope of the current environment and
// returns its type.
func (c *Checker) CheckBlock(block *ast.BlockExpression) (ast.Type, error) {
	t, err := c.walker.Block(block)
	if err != nil {
		return ast.Type{}, fmt.Errorf("typechecker: %w", err)
	}
	return c.Realize(t), nil
}

// CheckStatements checks statements directly in the session scope, so
// their bindings and functions stay visible to later calls. When the check
// fails the session is left as it was before the call.
func (c *Checker) CheckStatements(body []ast.Statement, trailingSemicolon bool) (ast.Type, error) {
	saved := c.walker.Env()
	c.walker.SetEnv(saved.Clone())
	t, err := c.walker.Statements(body, trailingSemicolon)
	if err != nil {
		c.walker.SetEnv(saved)
		return ast.Type{}, fmt.Errorf("typechecker: %w", err)
	}
	return c.Realize(t), nil
}

// TypeOf checks a single expression in the session scope.
func (c *Checker) TypeOf(expr ast.Expression) (ast.Type, error) {
	return c.CheckStatements([]ast.Statement{ast.NewExpressionStatement(expr)}, false)
}

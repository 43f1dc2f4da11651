package runtime

import (
	"fmt"
	"io"
	"strings"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

// Builtins lists the reserved function names installed by InstallBuiltins.
var Builtins = []string{"print", "println"}

// IsBuiltin reports whether name is reserved for a built-in.
func IsBuiltin(name string) bool {
	for _, b := range Builtins {
		if b == name {
			return true
		}
	}
	return false
}

// InstallBuiltins registers print and println. Both write to out and return
// Unit. A nil out discards output.
func InstallBuiltins[V any](env *Environment[V], out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := env.RegisterNative("print", printer(out, "")); err != nil {
		return err
	}
	return env.RegisterNative("println", printer(out, "\n"))
}

func printer(out io.Writer, suffix string) NativeFunc {
	return func(args []ast.Literal) (ast.Literal, error) {
		if _, err := io.WriteString(out, FormatArgs(args)+suffix); err != nil {
			return ast.UnitLiteral(), fmt.Errorf("print: %w", err)
		}
		return ast.UnitLiteral(), nil
	}
}

// FormatArgs renders built-in print arguments. When the first argument is a
// string holding "{}" placeholders they are replaced in order by the
// remaining arguments; any arguments left over are appended separated by
// spaces. Without a format string all arguments are joined by spaces.
func FormatArgs(args []ast.Literal) string {
	if len(args) == 0 {
		return ""
	}
	rest := args
	var b strings.Builder
	if first := args[0]; first.Kind == ast.LiteralString && strings.Contains(first.Str, "{}") {
		rest = args[1:]
		parts := strings.Split(first.Str, "{}")
		for i, part := range parts {
			b.WriteString(part)
			if i == len(parts)-1 {
				break
			}
			if len(rest) == 0 {
				b.WriteString("{}")
				continue
			}
			b.WriteString(rest[0].String())
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return b.String()
		}
		b.WriteByte(' ')
	}
	for i, arg := range rest {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(arg.String())
	}
	return b.String()
}

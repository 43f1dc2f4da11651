package interpreter

import "github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"

// formatValue renders v the way the REPL and the CLI print results. Strings
// are quoted; references show the literal they lead to.
func formatValue(env *runtime.Environment[runtime.Value], v runtime.Value) string {
	switch val := v.(type) {
	case runtime.LiteralValue:
		return val.Literal.Quoted()
	case runtime.MutValue:
		return "mut " + formatValue(env, val.Inner)
	case runtime.UninitValue:
		return "<uninit>"
	case runtime.RefValue:
		lit, err := toLiteral(env, val)
		if err != nil {
			return "&" + val.Ref.String()
		}
		return "&" + lit.Quoted()
	default:
		return "<unknown>"
	}
}

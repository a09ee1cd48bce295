// Package executor integrates the JIT path into expression evaluation
// (spec.md §4.4): it owns per-expression JIT state, decides when to
// compile, orchestrates the bridge and runtime wrapper, and falls back
// to the interpreter on any failure.
package executor

import "github.com/FocuswithJustin/jitexpr/ir"

// State is the per-expression JIT state attached at plan
// initialization (spec.md §3's "JIT per-expression state"). Holding
// only the symbol name rather than a reference back to the runtime
// wrapper avoids the executor/state/runtime cycle called out in
// spec.md §9.
type State struct {
	Expr                 ir.Expr
	AttemptedCompilation bool
	CompilationSucceeded bool
	ExecutionCount       int
	JittedSymbolName     string

	refCols     []int
	columnTypes map[int]ir.LogicalType
}

// NewState attaches fresh JIT state to expr.
func NewState(expr ir.Expr) *State {
	return &State{Expr: expr}
}

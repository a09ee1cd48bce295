package executor

import (
	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/engineconf"
	"github.com/FocuswithJustin/jitexpr/ffivec"
	"github.com/FocuswithJustin/jitexpr/ir"
	"github.com/FocuswithJustin/jitexpr/jitlog"
	"github.com/FocuswithJustin/jitexpr/luaenv"
	"github.com/FocuswithJustin/jitexpr/luatranslate"
)

// Executor hosts one runtime wrapper and the tuning knobs for one
// session/executor instance (spec.md §5: "an executor owns one
// runtime-wrapper state").
type Executor struct {
	Runtime *luaenv.Runtime
	Config  *engineconf.Config
}

// New builds an Executor. rt may be nil if the runtime state failed to
// construct (spec.md §7's "runtime-state creation failure"); the JIT
// path is then permanently unavailable but Execute still works via
// the interpreter.
func New(rt *luaenv.Runtime, cfg *engineconf.Config) *Executor {
	return &Executor{Runtime: rt, Config: cfg}
}

// eligibleKind mirrors the JIT predicate's expression-kind clause
// (spec.md §4.4); every closed-union kind in this module qualifies, so
// this exists to document the clause rather than to filter anything
// out today.
func eligibleKind(expr ir.Expr) bool {
	switch expr.(type) {
	case *ir.ColumnRef, *ir.Constant, *ir.UnaryOp, *ir.BinaryOp, *ir.Call, *ir.Case:
		return true
	default:
		return false
	}
}

func (e *Executor) eligibleForAttempt(st *State) bool {
	if e.Runtime == nil || e.Config == nil || !e.Config.EnableJIT {
		return false
	}
	if !eligibleKind(st.Expr) {
		return false
	}
	if st.AttemptedCompilation {
		return false
	}
	if ir.Complexity(st.Expr) < e.Config.JITComplexityThreshold {
		return false
	}
	if st.ExecutionCount < e.Config.JITTriggerCount {
		return false
	}
	return true
}

// Execute fills result with count rows of expr evaluated over inputs,
// optionally subselected via selection (spec.md §4.4's public
// contract). It is the sole entry point callers use; the JIT is
// opaque to them.
func (e *Executor) Execute(st *State, inputs map[int]*columnar.Vector, selection []int, count int, result *columnar.Vector) error {
	if count == 0 {
		return nil
	}

	usingCompiledRoutine := st.AttemptedCompilation && st.CompilationSucceeded
	if !usingCompiledRoutine && e.eligibleForAttempt(st) {
		e.attemptCompile(st)
		usingCompiledRoutine = st.CompilationSucceeded
	}
	if !usingCompiledRoutine {
		// Open Question resolution (spec.md §9): execution_count counts
		// interpreted calls only and does not advance once a compiled
		// routine is in use.
		st.ExecutionCount++
	}

	if usingCompiledRoutine {
		if err := e.runCompiled(st, inputs, selection, count, result); err != nil {
			jitlog.JITFallback(st.JittedSymbolName, "invoke", err)
			// spec.md §7: an invocation runtime error latches the JIT
			// as failed for this expression, for this and all
			// subsequent batches.
			st.CompilationSucceeded = false
			return Interpret(st.Expr, inputs, selection, count, result)
		}
		return nil
	}

	return Interpret(st.Expr, inputs, selection, count, result)
}

func (e *Executor) attemptCompile(st *State) {
	st.AttemptedCompilation = true
	symbol := luatranslate.NextSymbol()

	source, ctx, err := luatranslate.Translate(st.Expr, symbol)
	if err != nil {
		jitlog.JITFallback(symbol, "translate", err)
		st.CompilationSucceeded = false
		return
	}
	if err := e.Runtime.CompileAndBind(symbol, source); err != nil {
		jitlog.JITFallback(symbol, "compile", err)
		st.CompilationSucceeded = false
		return
	}

	st.JittedSymbolName = symbol
	st.refCols = ctx.ReferencedColumns
	st.columnTypes = ctx.ColumnTypes
	st.CompilationSucceeded = true
}

// runCompiled materializes input/output FFIVectors through a
// per-invocation scratch pool and invokes the compiled routine
// (spec.md §4.4 step 2).
func (e *Executor) runCompiled(st *State, inputs map[int]*columnar.Vector, selection []int, count int, result *columnar.Vector) error {
	pool := ffivec.NewPool()

	outFFI := ffivec.MaterializeOutput(result)

	inFFI := make(map[int]*ffivec.Vector, len(st.refCols))
	for _, col := range st.refCols {
		v, err := ffivec.MaterializeInput(inputs[col], selection, pool)
		if err != nil {
			return err
		}
		inFFI[col] = v
	}

	if err := e.Runtime.Invoke(st.JittedSymbolName, outFFI, inFFI, st.refCols, count); err != nil {
		return err
	}

	flattenOutputNulls(outFFI, result)
	return nil
}

// flattenOutputNulls copies the FFIVector's flat byte nullmask, as
// mutated by output_set / output_set_null during invocation, back into
// the engine result vector's bit-packed validity mask.
func flattenOutputNulls(outFFI *ffivec.Vector, result *columnar.Vector) {
	for i, b := range outFFI.NullMask {
		if b != 0 {
			result.SetNull(i)
		}
	}
}

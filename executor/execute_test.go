package executor

import (
	"testing"

	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/engineconf"
	"github.com/FocuswithJustin/jitexpr/ir"
	"github.com/FocuswithJustin/jitexpr/luaenv"
)

func newTestExecutor(triggerCount, complexityThreshold int) *Executor {
	cfg := engineconf.NewDefault()
	cfg.JITTriggerCount = triggerCount
	cfg.JITComplexityThreshold = complexityThreshold
	return New(luaenv.New(), cfg)
}

func addExpr() ir.Expr {
	return &ir.BinaryOp{Op: ir.OpAdd, Left: col(ir.INTEGER, 0), Right: col(ir.INTEGER, 1), Type: ir.INTEGER}
}

func addInputs() map[int]*columnar.Vector {
	return map[int]*columnar.Vector{
		0: columnar.NewFlat(ir.INTEGER, columnar.Int32Buffer{1, 2, 3}, nil),
		1: columnar.NewFlat(ir.INTEGER, columnar.Int32Buffer{10, 20, 30}, nil),
	}
}

func TestExecuteCompilesAfterTriggerCount(t *testing.T) {
	ex := newTestExecutor(2, 0)
	st := NewState(addExpr())
	inputs := addInputs()

	for i := 0; i < 3; i++ {
		result := columnar.NewFlatResult(ir.INTEGER, 3)
		if err := ex.Execute(st, inputs, nil, 3, result); err != nil {
			t.Fatalf("Execute() call %d error = %v", i, err)
		}
		if i < 2 && st.AttemptedCompilation {
			t.Fatal("should not attempt compilation before reaching the trigger count")
		}
	}
	if !st.AttemptedCompilation || !st.CompilationSucceeded {
		t.Fatalf("after %d calls: AttemptedCompilation=%v CompilationSucceeded=%v", 3, st.AttemptedCompilation, st.CompilationSucceeded)
	}
}

func TestExecuteResultsAgreeBeforeAndAfterCompilation(t *testing.T) {
	ex := newTestExecutor(1, 0)
	st := NewState(addExpr())
	inputs := addInputs()

	interp := columnar.NewFlatResult(ir.INTEGER, 3)
	if err := ex.Execute(st, inputs, nil, 3, interp); err != nil {
		t.Fatalf("Execute() (interpreted) error = %v", err)
	}
	jitted := columnar.NewFlatResult(ir.INTEGER, 3)
	if err := ex.Execute(st, inputs, nil, 3, jitted); err != nil {
		t.Fatalf("Execute() (jitted) error = %v", err)
	}
	if !st.CompilationSucceeded {
		t.Fatal("expected compilation to have succeeded by the second call")
	}
	for i := 0; i < 3; i++ {
		if interp.Int32At(i) != jitted.Int32At(i) {
			t.Errorf("row %d: interpreted=%d jitted=%d", i, interp.Int32At(i), jitted.Int32At(i))
		}
	}
}

// TestExecuteExecutionCountStopsAdvancingOnceCompiled pins the Open
// Question resolution: execution_count only tracks interpreted calls,
// so once a routine is running compiled it stops changing.
func TestExecuteExecutionCountStopsAdvancingOnceCompiled(t *testing.T) {
	ex := newTestExecutor(1, 0)
	st := NewState(addExpr())
	inputs := addInputs()

	for i := 0; i < 4; i++ {
		result := columnar.NewFlatResult(ir.INTEGER, 3)
		if err := ex.Execute(st, inputs, nil, 3, result); err != nil {
			t.Fatalf("Execute() call %d error = %v", i, err)
		}
	}
	if !st.CompilationSucceeded {
		t.Fatal("expected compilation to have succeeded")
	}
	if st.ExecutionCount != 1 {
		t.Errorf("ExecutionCount = %d, want 1 (stops advancing once compiled)", st.ExecutionCount)
	}
}

// TestExecuteLatchesOffOnInvocationFailure exercises a bridge failure
// at invocation time (a FLOAT column, a type the bridge's element-size
// table does not support): the executor must fall back to the
// interpreter for that call and never attempt recompilation again.
func TestExecuteLatchesOffOnInvocationFailure(t *testing.T) {
	ex := newTestExecutor(1, 0)
	expr := &ir.BinaryOp{Op: ir.OpAdd, Left: col(ir.FLOAT, 0), Right: col(ir.FLOAT, 0), Type: ir.FLOAT}
	st := NewState(expr)
	inputs := map[int]*columnar.Vector{
		0: columnar.NewFlat(ir.FLOAT, columnar.Float64Buffer{1.5, 2.5}, nil),
	}

	for i := 0; i < 3; i++ {
		result := columnar.NewFlatResult(ir.FLOAT, 2)
		if err := ex.Execute(st, inputs, nil, 2, result); err != nil {
			t.Fatalf("Execute() call %d error = %v", i, err)
		}
		if result.Float64At(0) != 3.0 || result.Float64At(1) != 5.0 {
			t.Errorf("call %d: got [%v, %v], want [3, 5] (interpreter fallback)", i, result.Float64At(0), result.Float64At(1))
		}
	}
	if !st.AttemptedCompilation {
		t.Fatal("expected exactly one compilation attempt")
	}
	if st.CompilationSucceeded {
		t.Fatal("CompilationSucceeded should be latched false after an invocation failure")
	}
}

func TestExecuteZeroCountIsNoop(t *testing.T) {
	ex := newTestExecutor(1, 0)
	st := NewState(addExpr())
	result := columnar.NewFlatResult(ir.INTEGER, 0)
	if err := ex.Execute(st, addInputs(), nil, 0, result); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if st.AttemptedCompilation {
		t.Error("a zero-row batch should not trigger compilation bookkeeping")
	}
}

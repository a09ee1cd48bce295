package main

import (
	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/ir"
)

// allScenarios builds the six concrete end-to-end scenarios from
// spec.md §8 as runnable fixtures.
func allScenarios() []scenario {
	return []scenario{
		integerAddWithNulls(),
		logicalAndOfComparisons(),
		caseWithNullCondition(),
		likeContains(),
		stringRead(),
		fallbackAfterRuntimeFailure(),
	}
}

func col(t ir.LogicalType, idx int) *ir.ColumnRef { return &ir.ColumnRef{Index: idx, Type: t} }

func constI(v int64) *ir.Constant { return &ir.Constant{Type: ir.INTEGER, Value: v} }

func flatInt32(vals []int32, nullAt map[int]bool) *columnar.Vector {
	validity := columnar.NewBitmap(len(vals))
	for i := range vals {
		if nullAt[i] {
			validity.SetValid(i, false)
		}
	}
	return columnar.NewFlat(ir.INTEGER, columnar.Int32Buffer(vals), validity)
}

func flatString(vals []string, nullAt map[int]bool) *columnar.Vector {
	validity := columnar.NewBitmap(len(vals))
	for i := range vals {
		if nullAt[i] {
			validity.SetValid(i, false)
		}
	}
	return columnar.NewFlat(ir.VARCHAR, columnar.StringBuffer(vals), validity)
}

func flatFloat(vals []float64, nullAt map[int]bool) *columnar.Vector {
	validity := columnar.NewBitmap(len(vals))
	for i := range vals {
		if nullAt[i] {
			validity.SetValid(i, false)
		}
	}
	return columnar.NewFlat(ir.FLOAT, columnar.Float64Buffer(vals), validity)
}

// integerAddWithNulls: col0 + col1, NULL propagates from col1[2].
func integerAddWithNulls() scenario {
	col0 := flatInt32([]int32{1, 2, 3, 4, 5}, nil)
	col1 := flatInt32([]int32{10, 20, 0, 400, 500}, map[int]bool{2: true})
	expr := &ir.BinaryOp{Op: ir.OpAdd, Left: col(ir.INTEGER, 0), Right: col(ir.INTEGER, 1), Type: ir.INTEGER}
	return scenario{
		name:    "integer-add-with-nulls",
		expr:    expr,
		inputs:  map[int]*columnar.Vector{0: col0, 1: col1},
		count:   5,
		resultT: ir.INTEGER,
	}
}

// logicalAndOfComparisons: (col0 > 0) AND (col1 < 10).
func logicalAndOfComparisons() scenario {
	col0 := flatInt32([]int32{5, -1, 10}, nil)
	col1 := flatInt32([]int32{5, 15, 5}, nil)
	left := &ir.BinaryOp{Op: ir.OpGt, Left: col(ir.INTEGER, 0), Right: constI(0), Type: ir.BOOLEAN}
	right := &ir.BinaryOp{Op: ir.OpLt, Left: col(ir.INTEGER, 1), Right: constI(10), Type: ir.BOOLEAN}
	expr := &ir.BinaryOp{Op: ir.OpAnd, Left: left, Right: right, Type: ir.BOOLEAN}
	return scenario{
		name:    "logical-and-of-comparisons",
		expr:    expr,
		inputs:  map[int]*columnar.Vector{0: col0, 1: col1},
		count:   3,
		resultT: ir.BOOLEAN,
	}
}

// caseWithNullCondition: CASE WHEN col0 > 0 THEN 100 ELSE 200 END,
// NULL at col0[2].
func caseWithNullCondition() scenario {
	col0 := flatInt32([]int32{5, -5, 0}, map[int]bool{2: true})
	cond := &ir.BinaryOp{Op: ir.OpGt, Left: col(ir.INTEGER, 0), Right: constI(0), Type: ir.BOOLEAN}
	expr := &ir.Case{
		Branches: []ir.WhenClause{{Cond: cond, Then: constI(100)}},
		Else:     constI(200),
		Type:     ir.INTEGER,
	}
	return scenario{
		name:    "case-with-null-condition",
		expr:    expr,
		inputs:  map[int]*columnar.Vector{0: col0},
		count:   3,
		resultT: ir.INTEGER,
	}
}

// likeContains: 'test_middle_test' LIKE '%middle%', as a constant
// expression replicated over a batch of 3 (no column references).
func likeContains() scenario {
	lit := &ir.Constant{Type: ir.VARCHAR, Value: "test_middle_test"}
	pat := &ir.Constant{Type: ir.VARCHAR, Value: "%middle%"}
	expr := &ir.BinaryOp{Op: ir.OpLike, Left: lit, Right: pat, Type: ir.BOOLEAN}
	return scenario{
		name:    "like-contains",
		expr:    expr,
		inputs:  map[int]*columnar.Vector{},
		count:   3,
		resultT: ir.BOOLEAN,
	}
}

// stringRead: length(col0) > 4, NULL at col0[1].
func stringRead() scenario {
	col0 := flatString([]string{"hello", "", "duckdb"}, map[int]bool{1: true})
	lenCall := &ir.Call{Name: "LENGTH", Args: []ir.Expr{col(ir.VARCHAR, 0)}, Type: ir.BIGINT}
	expr := &ir.BinaryOp{Op: ir.OpGt, Left: lenCall, Right: &ir.Constant{Type: ir.BIGINT, Value: int64(4)}, Type: ir.BOOLEAN}
	return scenario{
		name:    "string-read",
		expr:    expr,
		inputs:  map[int]*columnar.Vector{0: col0},
		count:   3,
		resultT: ir.BOOLEAN,
	}
}

// fallbackAfterRuntimeFailure: col0 + col0, col0 typed FLOAT. Nothing
// about the expression shape is unusual, so the JIT predicate fires
// and translation/compilation both succeed; the bridge's
// element-size table has no FLOAT entry (FLOAT is stored as a
// Float64Buffer but is not one of the widths the bridge knows how to
// gather), so MaterializeInput fails every time this expression is
// invoked. The executor must fall back to the interpreter on that
// first invocation and latch the JIT off for good afterward — a third
// Execute call on the same state must still not attempt
// recompilation.
func fallbackAfterRuntimeFailure() scenario {
	col0 := flatFloat([]float64{1.5, 2.5, 3.5}, nil)
	expr := &ir.BinaryOp{Op: ir.OpAdd, Left: col(ir.FLOAT, 0), Right: col(ir.FLOAT, 0), Type: ir.FLOAT}
	return scenario{
		name:    "fallback-after-runtime-failure",
		expr:    expr,
		inputs:  map[int]*columnar.Vector{0: col0},
		count:   3,
		resultT: ir.FLOAT,
	}
}

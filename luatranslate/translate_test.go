package luatranslate

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/jitexpr/ir"
)

func col(t ir.LogicalType, idx int) *ir.ColumnRef { return &ir.ColumnRef{Index: idx, Type: t} }

func TestTranslateIntegerAdd(t *testing.T) {
	expr := &ir.BinaryOp{
		Op:    ir.OpAdd,
		Left:  col(ir.INTEGER, 0),
		Right: col(ir.INTEGER, 1),
		Type:  ir.INTEGER,
	}
	src, ctx, err := Translate(expr, "jit_fn_test")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !intSliceEqual(ctx.ReferencedColumns, []int{0, 1}) {
		t.Errorf("ReferencedColumns = %v, want [0 1]", ctx.ReferencedColumns)
	}
	for _, want := range []string{
		"function jit_fn_test(output, input_0, input_1, count)",
		"input_null(input_0, i) or input_null(input_1, i)",
		"output_set(output, i, (input_get(input_0, i) + input_get(input_1, i)))",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
}

// TestTranslateLogicalAndUsesNumericBooleans pins the boolean
// representation: every comparison is 0/1, and AND compares each
// operand against 1 rather than relying on native Lua truthiness,
// since Lua's 0 is truthy and a native boolean never equals a number.
func TestTranslateLogicalAndUsesNumericBooleans(t *testing.T) {
	left := &ir.BinaryOp{Op: ir.OpGt, Left: col(ir.INTEGER, 0), Right: &ir.Constant{Type: ir.INTEGER, Value: int64(0)}, Type: ir.BOOLEAN}
	right := &ir.BinaryOp{Op: ir.OpLt, Left: col(ir.INTEGER, 1), Right: &ir.Constant{Type: ir.INTEGER, Value: int64(10)}, Type: ir.BOOLEAN}
	expr := &ir.BinaryOp{Op: ir.OpAnd, Left: left, Right: right, Type: ir.BOOLEAN}

	src, _, err := Translate(expr, "jit_fn_and")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if strings.Contains(src, "if value then 1 else 0") {
		t.Error("output assignment should not use the native truthy/falsy pattern")
	}
	if !strings.Contains(src, "and 1 or 0") {
		t.Errorf("expected the 0/1 ternary idiom in generated source:\n%s", src)
	}
	if !strings.Contains(src, "== 1) and (") {
		t.Errorf("AND should compare each operand against 1, not rely on Lua truthiness:\n%s", src)
	}
}

func TestTranslateCaseNullLowering(t *testing.T) {
	cond := &ir.BinaryOp{Op: ir.OpGt, Left: col(ir.INTEGER, 0), Right: &ir.Constant{Type: ir.INTEGER, Value: int64(0)}, Type: ir.BOOLEAN}
	expr := &ir.Case{
		Branches: []ir.WhenClause{{Cond: cond, Then: &ir.Constant{Type: ir.INTEGER, Value: int64(100)}}},
		Else:     &ir.Constant{Type: ir.INTEGER, Value: int64(200)},
		Type:     ir.INTEGER,
	}
	src, ctx, err := Translate(expr, "jit_fn_case")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	// Only the WHEN condition's columns gate the top-level NULL check;
	// a branch that reads no columns of its own never forces NULL.
	if !intSliceEqual(ctx.ReferencedColumns, []int{0}) {
		t.Errorf("ReferencedColumns = %v, want [0]", ctx.ReferencedColumns)
	}
	if !strings.Contains(src, "local case_result =") {
		t.Errorf("expected a case_result local in generated source:\n%s", src)
	}
	if !strings.Contains(src, "if case_result == nil then") {
		t.Errorf("expected a nil check on case_result:\n%s", src)
	}
}

func TestTranslateLikePatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"contains", "%middle%", "string.find(input_get(input_0, i), \"middle\", 1, true) ~= nil"},
		{"suffix", "%tail", "string.sub(input_get(input_0, i), -string.len(\"tail\")) == \"tail\""},
		{"prefix", "head%", "string.sub(input_get(input_0, i), 1, string.len(\"head\")) == \"head\""},
		{"exact", "exact", "input_get(input_0, i) == \"exact\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := &ir.BinaryOp{
				Op:    ir.OpLike,
				Left:  col(ir.VARCHAR, 0),
				Right: &ir.Constant{Type: ir.VARCHAR, Value: tt.pattern},
				Type:  ir.BOOLEAN,
			}
			src, _, err := Translate(expr, "jit_fn_like")
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			if !strings.Contains(src, tt.want) {
				t.Errorf("generated source missing %q:\n%s", tt.want, src)
			}
		})
	}
}

func TestTranslateLikeRejectsNonConstantPattern(t *testing.T) {
	expr := &ir.BinaryOp{Op: ir.OpLike, Left: col(ir.VARCHAR, 0), Right: col(ir.VARCHAR, 1), Type: ir.BOOLEAN}
	if _, _, err := Translate(expr, "jit_fn_bad_like"); err == nil {
		t.Error("expected an error for a non-constant LIKE pattern")
	}
}

func TestTranslateVarcharOutputUsesAppendString(t *testing.T) {
	expr := &ir.Call{Name: "UPPER", Args: []ir.Expr{col(ir.VARCHAR, 0)}, Type: ir.VARCHAR}
	src, _, err := Translate(expr, "jit_fn_upper")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.Contains(src, "append_string(output, i, string.upper(input_get(input_0, i)))") {
		t.Errorf("expected an append_string call in generated source:\n%s", src)
	}
}

func TestTranslateUnsupportedFunctionErrors(t *testing.T) {
	expr := &ir.Call{Name: "NOPE", Args: []ir.Expr{col(ir.VARCHAR, 0)}, Type: ir.VARCHAR}
	if _, _, err := Translate(expr, "jit_fn_nope"); err == nil {
		t.Error("expected an error for an unsupported function")
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package executor

import (
	"strings"

	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/ir"
	"github.com/FocuswithJustin/jitexpr/jiterrors"
)

// Interpret is the row-at-a-time fallback path: it implements the same
// null-propagation rules as luatranslate (spec.md §4.1, §4.4 step 3 —
// "the interpreter path also runs on the first trigger_count
// invocations" and on every JIT failure). inputs maps referenced
// column index to its engine vector; selection, if non-nil, gives the
// logical row for each of the count output rows.
func Interpret(expr ir.Expr, inputs map[int]*columnar.Vector, selection []int, count int, result *columnar.Vector) error {
	logicalRow := func(i int) int {
		if selection == nil {
			return i
		}
		return selection[i]
	}

	if c, ok := expr.(*ir.Case); ok {
		return interpretCase(c, inputs, logicalRow, count, result)
	}

	refCols := ir.ReferencedColumns(expr)
	for i := 0; i < count; i++ {
		row := logicalRow(i)
		if anyNull(refCols, inputs, row) {
			result.SetNull(i)
			continue
		}
		v, null, err := evalValue(expr, inputs, row)
		if err != nil {
			return err
		}
		if null {
			result.SetNull(i)
			continue
		}
		if err := assignResult(result, i, v); err != nil {
			return err
		}
	}
	return nil
}

func anyNull(cols []int, inputs map[int]*columnar.Vector, row int) bool {
	for _, c := range cols {
		if !inputs[c].RowIsValid(row) {
			return true
		}
	}
	return false
}

func interpretCase(c *ir.Case, inputs map[int]*columnar.Vector, logicalRow func(int) int, count int, result *columnar.Vector) error {
	var condCols []int
	seen := map[int]bool{}
	for _, wc := range c.Branches {
		for _, col := range ir.ReferencedColumns(wc.Cond) {
			if !seen[col] {
				seen[col] = true
				condCols = append(condCols, col)
			}
		}
	}

	for i := 0; i < count; i++ {
		row := logicalRow(i)
		if anyNull(condCols, inputs, row) {
			result.SetNull(i)
			continue
		}

		var branch ir.Expr
		matched := false
		for _, wc := range c.Branches {
			condVal, null, err := evalValue(wc.Cond, inputs, row)
			if err != nil {
				return err
			}
			if null {
				continue
			}
			if condVal.(bool) {
				branch = wc.Then
				matched = true
				break
			}
		}
		if !matched {
			branch = c.Else
		}
		if branch == nil {
			result.SetNull(i)
			continue
		}
		if anyNull(ir.ReferencedColumns(branch), inputs, row) {
			result.SetNull(i)
			continue
		}
		v, null, err := evalValue(branch, inputs, row)
		if err != nil {
			return err
		}
		if null {
			result.SetNull(i)
			continue
		}
		if err := assignResult(result, i, v); err != nil {
			return err
		}
	}
	return nil
}

func assignResult(result *columnar.Vector, i int, v any) error {
	switch result.Type {
	case ir.BOOLEAN:
		result.SetBool(i, v.(bool))
	case ir.TINYINT, ir.SMALLINT, ir.INTEGER, ir.DATE:
		result.SetInt32(i, int32(v.(int64)))
	case ir.BIGINT, ir.TIMESTAMP:
		result.SetInt64(i, v.(int64))
	case ir.FLOAT, ir.DOUBLE:
		result.SetFloat64(i, v.(float64))
	case ir.VARCHAR:
		result.SetString(i, v.(string))
	case ir.INTERVAL:
		result.SetInterval(i, v.(ir.Interval))
	default:
		return &jiterrors.InvocationError{Symbol: "interpreter", Message: "unsupported result type " + result.Type.String()}
	}
	return nil
}

// evalValue evaluates expr at row assuming every column it reads is
// known non-NULL, except ColumnRef itself, which always re-checks (it
// is the leaf where NULL actually originates) — this keeps the nested
// CASE-branch path correct without threading a null-guard through
// every recursive call.
func evalValue(expr ir.Expr, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	switch n := expr.(type) {
	case *ir.Constant:
		return n.Value, false, nil
	case *ir.ColumnRef:
		v := inputs[n.Index]
		if !v.RowIsValid(row) {
			return nil, true, nil
		}
		return columnValue(v, row), false, nil
	case *ir.UnaryOp:
		return evalUnary(n, inputs, row)
	case *ir.BinaryOp:
		return evalBinary(n, inputs, row)
	case *ir.Call:
		return evalCall(n, inputs, row)
	case *ir.Case:
		return evalCaseValue(n, inputs, row)
	default:
		return nil, false, &jiterrors.TranslateError{Op: "unsupported expression node"}
	}
}

func columnValue(v *columnar.Vector, row int) any {
	switch v.Type {
	case ir.BOOLEAN:
		return v.BoolAt(row)
	case ir.TINYINT, ir.SMALLINT, ir.INTEGER, ir.DATE:
		return int64(v.Int32At(row))
	case ir.BIGINT, ir.TIMESTAMP:
		return v.Int64At(row)
	case ir.FLOAT, ir.DOUBLE:
		return v.Float64At(row)
	case ir.VARCHAR:
		return v.StringAt(row)
	case ir.INTERVAL:
		return v.IntervalAt(row)
	default:
		return nil
	}
}

func evalUnary(u *ir.UnaryOp, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	child, null, err := evalValue(u.Child, inputs, row)
	if err != nil || null {
		return nil, null, err
	}
	switch u.Op {
	case ir.OpNot:
		return !child.(bool), false, nil
	default:
		return nil, false, &jiterrors.TranslateError{Op: "unsupported unary operator"}
	}
}

func evalBinary(b *ir.BinaryOp, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	if b.Op == ir.OpLike {
		return evalLike(b, inputs, row)
	}
	left, null, err := evalValue(b.Left, inputs, row)
	if err != nil || null {
		return nil, null, err
	}
	right, null, err := evalValue(b.Right, inputs, row)
	if err != nil || null {
		return nil, null, err
	}

	switch b.Op {
	case ir.OpAnd:
		return left.(bool) && right.(bool), false, nil
	case ir.OpOr:
		return left.(bool) || right.(bool), false, nil
	case ir.OpConcat:
		return left.(string) + right.(string), false, nil
	}

	lf, lIsFloat := asFloat(left)
	rf, rIsFloat := asFloat(right)
	if lIsFloat || rIsFloat {
		v, err := arithFloat(b.Op, lf, rf)
		return v, false, err
	}

	li := left.(int64)
	ri := right.(int64)
	switch b.Op {
	case ir.OpAdd:
		return li + ri, false, nil
	case ir.OpSub:
		return li - ri, false, nil
	case ir.OpMul:
		return li * ri, false, nil
	case ir.OpDiv:
		return li / ri, false, nil
	case ir.OpEq:
		return li == ri, false, nil
	case ir.OpNe:
		return li != ri, false, nil
	case ir.OpLt:
		return li < ri, false, nil
	case ir.OpGt:
		return li > ri, false, nil
	case ir.OpLe:
		return li <= ri, false, nil
	case ir.OpGe:
		return li >= ri, false, nil
	default:
		return nil, false, &jiterrors.TranslateError{Op: "unsupported binary operator"}
	}
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func arithFloat(op ir.BinaryOperator, l, r float64) (any, error) {
	switch op {
	case ir.OpAdd:
		return l + r, nil
	case ir.OpSub:
		return l - r, nil
	case ir.OpMul:
		return l * r, nil
	case ir.OpDiv:
		return l / r, nil
	case ir.OpEq:
		return l == r, nil
	case ir.OpNe:
		return l != r, nil
	case ir.OpLt:
		return l < r, nil
	case ir.OpGt:
		return l > r, nil
	case ir.OpLe:
		return l <= r, nil
	case ir.OpGe:
		return l >= r, nil
	default:
		return nil, &jiterrors.TranslateError{Op: "unsupported binary operator"}
	}
}

func evalLike(b *ir.BinaryOp, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	left, null, err := evalValue(b.Left, inputs, row)
	if err != nil || null {
		return nil, null, err
	}
	pat, ok := b.Right.(*ir.Constant)
	if !ok || pat.Type != ir.VARCHAR {
		return nil, false, &jiterrors.TranslateError{Op: "LIKE requires a constant string pattern"}
	}
	s := left.(string)
	p := pat.Value.(string)
	hasPrefix := strings.HasPrefix(p, "%")
	hasSuffix := strings.HasSuffix(p, "%")
	inner := strings.TrimSuffix(strings.TrimPrefix(p, "%"), "%")

	switch {
	case hasPrefix && hasSuffix:
		return strings.Contains(s, inner), false, nil
	case hasPrefix:
		return strings.HasSuffix(s, inner), false, nil
	case hasSuffix:
		return strings.HasPrefix(s, inner), false, nil
	default:
		return s == inner, false, nil
	}
}

func evalCall(c *ir.Call, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	switch strings.ToUpper(c.Name) {
	case "LENGTH":
		s, null, err := evalValue(c.Args[0], inputs, row)
		if err != nil || null {
			return nil, null, err
		}
		return int64(len(s.(string))), false, nil
	case "UPPER":
		s, null, err := evalValue(c.Args[0], inputs, row)
		if err != nil || null {
			return nil, null, err
		}
		return strings.ToUpper(s.(string)), false, nil
	case "LOWER":
		s, null, err := evalValue(c.Args[0], inputs, row)
		if err != nil || null {
			return nil, null, err
		}
		return strings.ToLower(s.(string)), false, nil
	case "SUBSTRING":
		return evalSubstring(c, inputs, row)
	case "EXTRACT":
		return evalExtract(c, inputs, row)
	default:
		return nil, false, &jiterrors.TranslateError{Op: "unsupported function: " + c.Name}
	}
}

func evalSubstring(c *ir.Call, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	s, null, err := evalValue(c.Args[0], inputs, row)
	if err != nil || null {
		return nil, null, err
	}
	start, null, err := evalValue(c.Args[1], inputs, row)
	if err != nil || null {
		return nil, null, err
	}
	str := s.(string)
	from := int(start.(int64)) - 1
	if from < 0 {
		from = 0
	}
	if from > len(str) {
		from = len(str)
	}
	to := len(str)
	if len(c.Args) == 3 {
		length, null, err := evalValue(c.Args[2], inputs, row)
		if err != nil || null {
			return nil, null, err
		}
		to = from + int(length.(int64))
		if to > len(str) {
			to = len(str)
		}
	}
	if to < from {
		to = from
	}
	return str[from:to], false, nil
}

func evalExtract(c *ir.Call, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	part, ok := c.Args[0].(*ir.Constant)
	if !ok || part.Type != ir.VARCHAR {
		return nil, false, &jiterrors.TranslateError{Op: "EXTRACT requires a constant part name"}
	}
	src, null, err := evalValue(c.Args[1], inputs, row)
	if err != nil || null {
		return nil, null, err
	}
	t := extractTime(c.Args[1].ResultType(), src.(int64))
	switch strings.ToUpper(part.Value.(string)) {
	case "YEAR":
		return int64(t.Year()), false, nil
	case "MONTH":
		return int64(t.Month()), false, nil
	case "DAY":
		return int64(t.Day()), false, nil
	default:
		return nil, false, &jiterrors.TranslateError{Op: "unsupported EXTRACT part"}
	}
}

func evalCaseValue(c *ir.Case, inputs map[int]*columnar.Vector, row int) (any, bool, error) {
	for _, wc := range c.Branches {
		condVal, null, err := evalValue(wc.Cond, inputs, row)
		if err != nil {
			return nil, false, err
		}
		if null {
			continue
		}
		if condVal.(bool) {
			if anyNull(ir.ReferencedColumns(wc.Then), inputs, row) {
				return nil, true, nil
			}
			return evalValue(wc.Then, inputs, row)
		}
	}
	if c.Else == nil {
		return nil, true, nil
	}
	if anyNull(ir.ReferencedColumns(c.Else), inputs, row) {
		return nil, true, nil
	}
	return evalValue(c.Else, inputs, row)
}

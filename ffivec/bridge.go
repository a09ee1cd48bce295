package ffivec

import (
	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/ir"
	"github.com/FocuswithJustin/jitexpr/jiterrors"
)

// MaterializeInput implements spec.md §4.2's per-input-vector protocol:
// flatten the validity mask, then populate Data according to the
// vector's kind and logical type, using pool for any buffer the bridge
// itself must allocate (VARCHAR, INTERVAL, CONSTANT broadcast,
// DICTIONARY gather). Flat fixed-width vectors point directly at the
// engine's own buffer only when rows is nil (the whole batch, in
// order) — a non-nil rows (a selection vector, SPEC_FULL.md §4.4.1)
// always gathers into a fresh pool buffer, since there is no
// contiguous pointer into v's buffer that already matches an arbitrary
// row subset.
func MaterializeInput(v *columnar.Vector, rows []int, pool *Pool) (*Vector, error) {
	n := len(rows)
	if rows == nil {
		n = v.Count()
	}
	row := func(i int) int {
		if rows == nil {
			return i
		}
		return rows[i]
	}

	nulls := pool.AllocNulls(n)
	for i := 0; i < n; i++ {
		if v.RowIsValid(row(i)) {
			nulls[i] = 0
		} else {
			nulls[i] = 1
		}
	}

	out := &Vector{
		NullMask:       nulls,
		Count:          n,
		LogicalTypeID:  v.Type,
		VectorKind:     v.Kind.String(),
		OriginalVector: v,
	}

	if v.Type == ir.VARCHAR {
		strs := pool.AllocString(n)
		for i := 0; i < n; i++ {
			if nulls[i] == 0 {
				strs[i] = String{Value: v.StringAt(row(i))}
			}
		}
		out.Data = strs
		return out, nil
	}

	if v.Type == ir.INTERVAL {
		ivs := pool.AllocInterval(n)
		for i := 0; i < n; i++ {
			if nulls[i] == 0 {
				src := v.IntervalAt(row(i))
				ivs[i] = Interval{Months: src.Months, Days: src.Days, Micros: src.Micros}
			}
		}
		out.Data = ivs
		return out, nil
	}

	if _, ok := elementSize(v.Type); !ok {
		return nil, &jiterrors.BridgeError{Type: v.Type.String(), Kind: v.Kind.String()}
	}

	switch {
	case v.Kind == columnar.Flat && rows == nil:
		out.Data = flatData(v)
		return out, nil
	case v.Kind == columnar.Constant:
		out.Data = gatherTyped(v, n, nulls, row, pool, true)
		return out, nil
	case v.Kind == columnar.Dictionary || v.Kind == columnar.Flat:
		out.Data = gatherTyped(v, n, nulls, row, pool, false)
		return out, nil
	default:
		return nil, &jiterrors.BridgeError{Type: v.Type.String(), Kind: v.Kind.String()}
	}
}

// flatData points the FFIVector's data straight at the engine's
// underlying typed buffer (spec.md §4.2 step 4): the unified view
// already gives the correct physical pointer for direct access.
func flatData(v *columnar.Vector) any {
	switch buf := v.Buf.(type) {
	case columnar.Int32Buffer:
		return []int32(buf)
	case columnar.Int64Buffer:
		return []int64(buf)
	case columnar.Float64Buffer:
		return []float64(buf)
	case columnar.BoolBuffer:
		return []bool(buf)
	default:
		return nil
	}
}

// gatherTyped allocates an n-slot typed buffer in pool and fills it
// either by broadcasting the vector's single physical slot (constant,
// spec.md §4.2 step 5) or by gathering row-by-row through row(i)
// (dictionary / selected-flat, spec.md §4.2 step 6).
func gatherTyped(v *columnar.Vector, n int, nulls []byte, row func(int) int, pool *Pool, broadcast bool) any {
	src := func(i int) int {
		if broadcast {
			return 0
		}
		return row(i)
	}
	switch v.Type {
	case ir.INTEGER, ir.DATE:
		dst := pool.AllocInt32(n)
		for i := 0; i < n; i++ {
			if nulls[i] == 0 {
				dst[i] = v.Int32At(src(i))
			}
		}
		return dst
	case ir.BIGINT, ir.TIMESTAMP:
		dst := pool.AllocInt64(n)
		for i := 0; i < n; i++ {
			if nulls[i] == 0 {
				dst[i] = v.Int64At(src(i))
			}
		}
		return dst
	case ir.DOUBLE:
		dst := pool.AllocFloat64(n)
		for i := 0; i < n; i++ {
			if nulls[i] == 0 {
				dst[i] = v.Float64At(src(i))
			}
		}
		return dst
	case ir.BOOLEAN:
		dst := pool.AllocBool(n)
		for i := 0; i < n; i++ {
			if nulls[i] == 0 {
				dst[i] = v.BoolAt(src(i))
			}
		}
		return dst
	default:
		return nil
	}
}

// MaterializeOutput wraps a pre-allocated flat, writable result vector
// as an FFIVector whose OriginalVector back-pointer is used by the
// string callbacks (spec.md §4.2, "Output vectors"). For fixed-width
// types Data points directly at the result's own buffer (the same
// zero-copy trick as flatData), so a generated-code store is visible
// to the caller with no flatten-back step; VARCHAR and INTERVAL are
// left without a Data buffer. VARCHAR is written exclusively through
// the append_string host callback against OriginalVector (spec.md
// §4.1 "Output assignment"); no host callback writes INTERVAL, so
// generated code cannot store an INTERVAL result. The caller
// flattens NullMask back into v.Validity once invocation returns.
func MaterializeOutput(v *columnar.Vector) *Vector {
	out := &Vector{
		NullMask:       make([]byte, v.Count()),
		Count:          v.Count(),
		LogicalTypeID:  v.Type,
		VectorKind:     "FLAT",
		OriginalVector: v,
	}
	if v.Type != ir.VARCHAR && v.Type != ir.INTERVAL {
		out.Data = flatData(v)
	}
	return out
}

package columnar

import "github.com/FocuswithJustin/jitexpr/ir"

// physicalIndex maps a logical row to its physical slot according to
// the vector's kind: the "unified vector view" the glossary describes,
// normalizing Flat/Constant/Dictionary into one addressing scheme.
func (v *Vector) physicalIndex(row int) int {
	switch v.Kind {
	case Constant:
		return 0
	case Dictionary:
		return int(v.Selection[row])
	default: // Flat
		return row
	}
}

// Int32At, Int64At, etc. fetch the typed value at logical row i. The
// caller must have already checked RowIsValid(i); behavior for a NULL
// row's value is only "don't read from the zero physical slot of an
// otherwise-empty buffer" safety, not a validity contract.
func (v *Vector) Int32At(i int) int32     { return v.Buf.(Int32Buffer)[v.physicalIndex(i)] }
func (v *Vector) Int64At(i int) int64     { return v.Buf.(Int64Buffer)[v.physicalIndex(i)] }
func (v *Vector) Float64At(i int) float64 { return v.Buf.(Float64Buffer)[v.physicalIndex(i)] }
func (v *Vector) BoolAt(i int) bool       { return v.Buf.(BoolBuffer)[v.physicalIndex(i)] }
func (v *Vector) StringAt(i int) string   { return v.Buf.(StringBuffer)[v.physicalIndex(i)] }
func (v *Vector) IntervalAt(i int) ir.Interval {
	return v.Buf.(IntervalBuffer)[v.physicalIndex(i)]
}

// SetInt32/SetInt64/... write into a Flat result vector at logical row i.
func (v *Vector) SetInt32(i int, val int32)     { v.Buf.(Int32Buffer)[i] = val }
func (v *Vector) SetInt64(i int, val int64)     { v.Buf.(Int64Buffer)[i] = val }
func (v *Vector) SetFloat64(i int, val float64) { v.Buf.(Float64Buffer)[i] = val }
func (v *Vector) SetBool(i int, val bool)       { v.Buf.(BoolBuffer)[i] = val }
func (v *Vector) SetString(i int, val string)   { v.Buf.(StringBuffer)[i] = val }
func (v *Vector) SetInterval(i int, val ir.Interval) { v.Buf.(IntervalBuffer)[i] = val }

// SetNull marks logical row i NULL in a Flat result vector.
func (v *Vector) SetNull(i int) {
	if v.Validity == nil {
		v.Validity = NewBitmap(v.count)
	}
	v.Validity.SetValid(i, false)
}

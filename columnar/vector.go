package columnar

import "github.com/FocuswithJustin/jitexpr/ir"

// VectorKind tags how a Vector's physical storage relates to its
// logical rows.
type VectorKind uint8

const (
	// Flat: one physical slot per logical row.
	Flat VectorKind = iota
	// Constant: a single physical slot, logically replicated to every row.
	Constant
	// Dictionary: a physical value buffer plus a per-row Selection index.
	Dictionary
)

func (k VectorKind) String() string {
	switch k {
	case Flat:
		return "FLAT"
	case Constant:
		return "CONSTANT"
	case Dictionary:
		return "DICTIONARY"
	default:
		return "UNKNOWN"
	}
}

// Buffer is the physical data store behind a Vector: a typed,
// fixed-width slice or a string slice, addressed by physical slot
// index (not logical row index — Dictionary vectors separate the two).
type Buffer interface {
	Len() int
}

type Int32Buffer []int32
type Int64Buffer []int64
type Float64Buffer []float64
type BoolBuffer []bool
type StringBuffer []string
type IntervalBuffer []ir.Interval

func (b Int32Buffer) Len() int    { return len(b) }
func (b Int64Buffer) Len() int    { return len(b) }
func (b Float64Buffer) Len() int  { return len(b) }
func (b BoolBuffer) Len() int     { return len(b) }
func (b StringBuffer) Len() int   { return len(b) }
func (b IntervalBuffer) Len() int { return len(b) }

// Vector is this module's concrete stand-in for the query engine's
// internal columnar vector (SPEC_FULL.md §3.1): the bridge's input.
type Vector struct {
	Kind     VectorKind
	Type     ir.LogicalType
	Buf      Buffer
	Validity *Bitmap // nil means "all rows valid"
	// Selection maps logical row -> physical slot in Buf; only
	// meaningful (and only populated) when Kind == Dictionary.
	Selection []uint32
	// count is the number of logical rows; for Flat it equals Buf.Len(),
	// for Constant/Dictionary it may differ from Buf.Len().
	count int
}

// NewFlat builds a Flat vector over buf with count logical rows.
func NewFlat(t ir.LogicalType, buf Buffer, validity *Bitmap) *Vector {
	return &Vector{Kind: Flat, Type: t, Buf: buf, Validity: validity, count: buf.Len()}
}

// NewConstant builds a Constant vector: buf holds exactly one physical
// slot, logically replicated across count rows.
func NewConstant(t ir.LogicalType, buf Buffer, count int, valid bool) *Vector {
	v := &Vector{Kind: Constant, Type: t, Buf: buf, count: count}
	if !valid {
		v.Validity = NewBitmap(count)
		for i := 0; i < count; i++ {
			v.Validity.SetValid(i, false)
		}
	}
	return v
}

// NewDictionary builds a Dictionary vector: buf holds the distinct
// physical values, selection[i] gives the physical slot for logical
// row i.
func NewDictionary(t ir.LogicalType, buf Buffer, selection []uint32, validity *Bitmap) *Vector {
	return &Vector{Kind: Dictionary, Type: t, Buf: buf, Selection: selection, Validity: validity, count: len(selection)}
}

// Count returns the number of logical rows.
func (v *Vector) Count() int { return v.count }

// RowIsValid reports whether logical row i is valid.
func (v *Vector) RowIsValid(i int) bool {
	return v.Validity.RowIsValid(i)
}

// NewFlatResult allocates a flat, writable output vector of type t and
// n rows, all initially valid (SPEC_FULL.md §3.2). The executor uses
// this for both the JIT output FFIVector and the interpreter's result.
func NewFlatResult(t ir.LogicalType, n int) *Vector {
	var buf Buffer
	switch t {
	case ir.BOOLEAN:
		buf = make(BoolBuffer, n)
	case ir.TINYINT, ir.SMALLINT, ir.INTEGER, ir.DATE:
		buf = make(Int32Buffer, n)
	case ir.BIGINT, ir.TIMESTAMP:
		buf = make(Int64Buffer, n)
	case ir.FLOAT, ir.DOUBLE:
		buf = make(Float64Buffer, n)
	case ir.VARCHAR:
		buf = make(StringBuffer, n)
	case ir.INTERVAL:
		buf = make(IntervalBuffer, n)
	default:
		buf = make(Int64Buffer, n)
	}
	return &Vector{Kind: Flat, Type: t, Buf: buf, Validity: NewBitmap(n), count: n}
}

// Package ffivec implements the FFI vector bridge (spec.md §4.2):
// materializing an engine columnar.Vector of any kind into the flat
// C-ABI-flavored record the scripting runtime consumes.
package ffivec

import "github.com/FocuswithJustin/jitexpr/ir"

// String is the companion record for VARCHAR data: a borrowed pointer
// and length, never an owned copy (spec.md §4.2 step 2 — "no byte
// copy... borrows from the engine vector, which must outlive the
// call"). Go's GC makes a literal pointer+len pair memory-unsafe to
// borrow across a call boundary the way C does, so String instead
// holds the Go string header directly: string headers are themselves
// (pointer, length) and Go strings are immutable, so aliasing one
// costs nothing and cannot be corrupted by the callee.
type String struct {
	Value string
}

// Interval mirrors ir.Interval; kept as a distinct FFI-facing type so
// a change to the engine's internal Interval representation doesn't
// silently change the wire shape the translator's generated source
// depends on.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

// Vector is the bridge's output form (spec.md §3's FFIVector table).
// Data is one of: []int32, []int64, []float64, []bool, []String,
// []Interval, chosen by LogicalType. NullMask is always a flat byte
// array, one byte per row, nonzero meaning NULL.
type Vector struct {
	Data            any
	NullMask        []byte
	Count           int
	LogicalTypeID   ir.LogicalType
	VectorKind      string // informational: "FLAT" | "CONSTANT" | "DICTIONARY"
	OriginalVector  any    // opaque back-pointer to the engine vector, for string callbacks
}

// elementSize reports the physical slot width used by gather/broadcast
// for fixed-width types, per spec.md §4.2's "Supported element-size
// table". VARCHAR and INTERVAL use a distinct per-row record rather
// than a raw byte width, so they are handled by their own dedicated
// paths in bridge.go instead of this table.
func elementSize(t ir.LogicalType) (int, bool) {
	switch t {
	case ir.INTEGER, ir.DATE:
		return 4, true
	case ir.BIGINT, ir.TIMESTAMP:
		return 8, true
	case ir.DOUBLE:
		return 8, true
	case ir.BOOLEAN:
		return 1, true
	default:
		return 0, false
	}
}

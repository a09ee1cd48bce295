// Package luatranslate lowers a bound expression tree into Lua source
// text for the embedded gopher-lua runtime (spec.md §4.1): one
// "row-logic" block, wrapped into a whole-function definition that the
// executor hands to the runtime wrapper for compilation.
package luatranslate

import (
	"sync/atomic"

	"github.com/FocuswithJustin/jitexpr/ir"
)

// Context is what the translator produces alongside the source text:
// the ordered, de-duplicated set of input columns the expression
// actually references and their logical types (spec.md §4.1's
// "translation context recording referenced input columns and their
// types").
type Context struct {
	ReferencedColumns []int // ascending, de-duplicated
	ColumnTypes       map[int]ir.LogicalType
}

var symbolCounter atomic.Uint64

// NextSymbol returns a process-unique, monotonically increasing Lua
// global function name (spec.md §4.4, §5, §8 invariant 4: "Symbol
// names generated across the whole process are pairwise distinct").
// A single atomic counter, not a registry, is the entire mechanism —
// per spec.md §9's guidance to avoid a global-artifact registry.
func NextSymbol() string {
	n := symbolCounter.Add(1)
	return symbolName(n)
}

func symbolName(n uint64) string {
	return "jit_fn_" + itoa(n)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

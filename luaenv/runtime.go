// Package luaenv wraps the embedded scripting runtime (gopher-lua, a
// pure-Go Lua 5.1 VM) used in place of real LuaJIT's cgo FFI. gopher-lua
// has no ffi.cdef/cdata: there is no way to hand Lua a raw pointer and
// a struct layout the way DuckDB's LuaJIT extension does. This package
// replaces that boundary with a small set of host-exported accessor
// functions, registered as Lua globals once per *lua.LState, that take
// an *ffivec.Vector wrapped in a lua.LUserData in place of a cdata
// pointer (SPEC_FULL.md §2).
package luaenv

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/FocuswithJustin/jitexpr/columnar"
	"github.com/FocuswithJustin/jitexpr/ffivec"
	"github.com/FocuswithJustin/jitexpr/jiterrors"
)

// Runtime owns one *lua.LState for the lifetime of the process (or
// test case): compiled routines accumulate as Lua globals inside it,
// matching spec.md §4.3's "compile once, invoke repeatedly" model.
type Runtime struct {
	L *lua.LState
}

// New constructs a Runtime with the host accessor functions already
// registered as Lua globals.
func New() *Runtime {
	L := lua.NewState()
	rt := &Runtime{L: L}
	rt.registerHostFunctions()
	return rt
}

// Close releases the underlying Lua state.
func (rt *Runtime) Close() { rt.L.Close() }

// CompileAndBind runs source through the Lua compiler/loader, defining
// a global Lua function named symbol as a side effect (spec.md §4.3).
// A syntax or load-time error is wrapped as a *jiterrors.CompileError.
func (rt *Runtime) CompileAndBind(symbol, source string) error {
	if err := rt.L.DoString(source); err != nil {
		return &jiterrors.CompileError{Symbol: symbol, Message: err.Error()}
	}
	fn := rt.L.GetGlobal(symbol)
	if fn == lua.LNil {
		return &jiterrors.CompileError{Symbol: symbol, Message: "source did not define the expected function"}
	}
	return nil
}

// Invoke calls the previously compiled routine named symbol, binding
// output and the referenced input vectors (in refCols order, matching
// how Translate emitted the parameter list) as userdata, and
// count as the trailing batch-size argument (spec.md §4.4).
func (rt *Runtime) Invoke(symbol string, output *ffivec.Vector, inputs map[int]*ffivec.Vector, refCols []int, count int) (err error) {
	fn := rt.L.GetGlobal(symbol)
	if fn == lua.LNil {
		return &jiterrors.InvocationError{Symbol: symbol, Message: "routine not compiled"}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &jiterrors.InvocationError{Symbol: symbol, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	args := make([]lua.LValue, 0, len(refCols)+2)
	args = append(args, rt.wrapVector(output))
	for _, col := range refCols {
		args = append(args, rt.wrapVector(inputs[col]))
	}
	args = append(args, lua.LNumber(count))

	callErr := rt.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
	if callErr != nil {
		return &jiterrors.InvocationError{Symbol: symbol, Message: callErr.Error()}
	}
	return nil
}

func (rt *Runtime) wrapVector(v *ffivec.Vector) *lua.LUserData {
	ud := rt.L.NewUserData()
	ud.Value = v
	return ud
}

func vectorOf(L *lua.LState, idx int) *ffivec.Vector {
	ud, ok := L.Get(idx).(*lua.LUserData)
	if !ok {
		L.RaiseError("argument %d is not a vector handle", idx)
		return nil
	}
	v, ok := ud.Value.(*ffivec.Vector)
	if !ok {
		L.RaiseError("argument %d is not a vector handle", idx)
		return nil
	}
	return v
}

// registerHostFunctions installs the accessor functions the translated
// row-logic calls in place of raw FFI pointer reads/writes and the
// DATE/TIMESTAMP extraction callbacks from SPEC_FULL.md §4.1.1.
func (rt *Runtime) registerHostFunctions() {
	rt.L.SetGlobal("input_null", rt.L.NewFunction(hostInputNull))
	rt.L.SetGlobal("input_get", rt.L.NewFunction(hostInputGet))
	rt.L.SetGlobal("output_set", rt.L.NewFunction(hostOutputSet))
	rt.L.SetGlobal("output_set_null", rt.L.NewFunction(hostOutputSetNull))
	rt.L.SetGlobal("append_string", rt.L.NewFunction(hostAppendString))
	rt.L.SetGlobal("set_string_null", rt.L.NewFunction(hostOutputSetNull))
	rt.L.SetGlobal("extract_from_date", rt.L.NewFunction(hostExtractFromDate))
	rt.L.SetGlobal("extract_from_timestamp", rt.L.NewFunction(hostExtractFromTimestamp))
	rt.L.SetGlobal("extract_year_from_date", rt.L.NewFunction(hostExtractYearFromDate))
}

func hostInputNull(L *lua.LState) int {
	v := vectorOf(L, 1)
	i := int(L.CheckNumber(2))
	null := i < len(v.NullMask) && v.NullMask[i] != 0
	L.Push(lua.LBool(null))
	return 1
}

func hostInputGet(L *lua.LState) int {
	v := vectorOf(L, 1)
	i := int(L.CheckNumber(2))
	L.Push(readValue(v, i))
	return 1
}

func hostOutputSet(L *lua.LState) int {
	v := vectorOf(L, 1)
	i := int(L.CheckNumber(2))
	val := L.Get(3)
	writeValue(v, i, val)
	if i < len(v.NullMask) {
		v.NullMask[i] = 0
	}
	return 0
}

func hostOutputSetNull(L *lua.LState) int {
	v := vectorOf(L, 1)
	i := int(L.CheckNumber(2))
	if i < len(v.NullMask) {
		v.NullMask[i] = 1
	}
	return 0
}

// hostAppendString writes directly through the original engine vector
// rather than a bridge-owned buffer: the engine, not the scratch pool,
// owns output string storage (spec.md §4.1's "performs any heap
// allocation inside the engine, so the scratch pool does not have to
// manage output string bytes").
func hostAppendString(L *lua.LState) int {
	v := vectorOf(L, 1)
	i := int(L.CheckNumber(2))
	s := L.CheckString(3)
	engineVec, ok := v.OriginalVector.(*columnar.Vector)
	if !ok {
		L.RaiseError("append_string: vector has no engine backing")
		return 0
	}
	engineVec.SetString(i, s)
	if i < len(v.NullMask) {
		v.NullMask[i] = 0
	}
	return 0
}

// readValue converts the row at i in v's underlying typed buffer into
// a Lua value. Callers must only invoke this on a row already known
// non-NULL (the generated null check guards every call site).
func readValue(v *ffivec.Vector, i int) lua.LValue {
	switch data := v.Data.(type) {
	case []int32:
		return lua.LNumber(data[i])
	case []int64:
		return lua.LNumber(data[i])
	case []float64:
		return lua.LNumber(data[i])
	case []bool:
		if data[i] {
			return lua.LNumber(1)
		}
		return lua.LNumber(0)
	case []ffivec.String:
		return lua.LString(data[i].Value)
	default:
		return lua.LNil
	}
}

func writeValue(v *ffivec.Vector, i int, val lua.LValue) {
	switch data := v.Data.(type) {
	case []int32:
		data[i] = int32(lua.LVAsNumber(val))
	case []int64:
		data[i] = int64(lua.LVAsNumber(val))
	case []float64:
		data[i] = float64(lua.LVAsNumber(val))
	case []bool:
		data[i] = lua.LVAsNumber(val) != 0
	}
}

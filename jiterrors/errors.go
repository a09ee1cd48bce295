// Package jiterrors provides the error taxonomy spec'd for the JIT
// path: every kind is recoverable by the executor except configuration
// errors and runtime-state creation failure, which surface to the
// caller (spec.md §7).
package jiterrors

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the broad category of a failure, for
// use with errors.Is against a wrapped *TranslateError / *BridgeError /
// *CompileError / *InvocationError / *ConfigError.
var (
	// ErrUnsupported indicates a type, vector kind, or operator the
	// JIT path does not (yet) handle; always recoverable.
	ErrUnsupported = errors.New("unsupported by jit path")
	// ErrCompilation indicates the scripting runtime rejected generated
	// source (syntax or type error); always recoverable.
	ErrCompilation = errors.New("jit compilation failed")
	// ErrInvocation indicates the compiled routine raised a runtime
	// error during a call; always recoverable.
	ErrInvocation = errors.New("jit invocation failed")
	// ErrConfig indicates an invalid or out-of-scope session setting;
	// surfaced to the caller, never swallowed into a JIT fallback.
	ErrConfig = errors.New("invalid jit configuration")
)

// TranslateError reports a translator failure: an expression shape or
// operator the translator cannot lower to source text.
type TranslateError struct {
	Op  string // operator/function/type name that failed to translate
	Err error  // underlying cause, if any
}

func (e *TranslateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("translate %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("translate: unsupported %s", e.Op)
}

func (e *TranslateError) Unwrap() error { return ErrUnsupported }

// BridgeError reports a failure materializing an engine vector into an
// FFIVector: an unsupported logical type or vector kind (spec.md §4.2).
type BridgeError struct {
	Type string
	Kind string
	Err  error
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge: unsupported type=%s kind=%s", e.Type, e.Kind)
}

func (e *BridgeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// CompileError reports a scripting-runtime compilation failure,
// carrying the runtime-captured error message (spec.md §4.3, §7).
type CompileError struct {
	Symbol  string
	Message string // error message captured off the runtime's stack
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %s", e.Symbol, e.Message)
}

func (e *CompileError) Unwrap() error { return ErrCompilation }

// InvocationError reports a runtime-level error raised while invoking
// a previously-compiled routine.
type InvocationError struct {
	Symbol  string
	Message string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s: %s", e.Symbol, e.Message)
}

func (e *InvocationError) Unwrap() error { return ErrInvocation }

// ConfigError reports an invalid session setting: wrong scope (GLOBAL
// instead of session-local) or a value that failed validation
// (spec.md §6's table).
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("setting %s: %s", e.Setting, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// Is reports whether err matches target, per errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type, per errors.As.
func As(err error, target interface{}) bool { return errors.As(err, target) }

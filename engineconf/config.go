// Package engineconf holds the three session-local tuning knobs the
// JIT path reads (spec.md §4.4, §6): enable_jit,
// jit_complexity_threshold, and jit_trigger_count. All three reject
// being set at GLOBAL scope.
package engineconf

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/jitexpr/jiterrors"
)

// Scope mirrors the binder's SET ... [SESSION|GLOBAL] distinction;
// the JIT knobs only ever live at session scope (spec.md §6).
type Scope uint8

const (
	Session Scope = iota
	Global
)

// Config is a session's JIT tuning surface. The zero value is not
// valid configuration — use NewDefault.
type Config struct {
	EnableJIT              bool
	JITComplexityThreshold int
	JITTriggerCount        int
}

// NewDefault returns the platform-chosen defaults (spec.md §6:
// "boolean, default platform-chosen"): JIT on, a small complexity
// floor so trivial expressions (a bare column reference or constant)
// never pay compilation cost, and a handful of interpreted warm-up
// runs before committing to compilation.
func NewDefault() *Config {
	return &Config{
		EnableJIT:              true,
		JITComplexityThreshold: 3,
		JITTriggerCount:        5,
	}
}

// SetEnableJIT validates and applies a new value for enable_jit.
func (c *Config) SetEnableJIT(scope Scope, raw string) error {
	if scope == Global {
		return &jiterrors.ConfigError{Setting: "enable_jit", Reason: "session-local setting cannot be set globally"}
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return &jiterrors.ConfigError{Setting: "enable_jit", Reason: "must cast to bool"}
	}
	c.EnableJIT = v
	return nil
}

// SetJITComplexityThreshold validates and applies jit_complexity_threshold.
func (c *Config) SetJITComplexityThreshold(scope Scope, raw string) error {
	n, err := validateNonNegativeInt(scope, "jit_complexity_threshold", raw)
	if err != nil {
		return err
	}
	c.JITComplexityThreshold = n
	return nil
}

// SetJITTriggerCount validates and applies jit_trigger_count.
func (c *Config) SetJITTriggerCount(scope Scope, raw string) error {
	n, err := validateNonNegativeInt(scope, "jit_trigger_count", raw)
	if err != nil {
		return err
	}
	c.JITTriggerCount = n
	return nil
}

func validateNonNegativeInt(scope Scope, setting, raw string) (int, error) {
	if scope == Global {
		return 0, &jiterrors.ConfigError{Setting: setting, Reason: "session-local setting cannot be set globally"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, &jiterrors.ConfigError{Setting: setting, Reason: "must be a non-negative integer"}
	}
	return n, nil
}

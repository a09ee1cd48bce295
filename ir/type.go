// Package ir defines the expression tree consumed by the JIT translator
// and interpreter: the engine's bound-expression representation, treated
// here as an input data model rather than something this module builds.
package ir

import "fmt"

// LogicalType tags the result type of an expression node or a column.
type LogicalType uint8

const (
	BOOLEAN LogicalType = iota
	TINYINT
	SMALLINT
	INTEGER
	BIGINT
	FLOAT
	DOUBLE
	DATE
	TIMESTAMP
	INTERVAL
	VARCHAR
)

func (t LogicalType) String() string {
	switch t {
	case BOOLEAN:
		return "BOOLEAN"
	case TINYINT:
		return "TINYINT"
	case SMALLINT:
		return "SMALLINT"
	case INTEGER:
		return "INTEGER"
	case BIGINT:
		return "BIGINT"
	case FLOAT:
		return "FLOAT"
	case DOUBLE:
		return "DOUBLE"
	case DATE:
		return "DATE"
	case TIMESTAMP:
		return "TIMESTAMP"
	case INTERVAL:
		return "INTERVAL"
	case VARCHAR:
		return "VARCHAR"
	default:
		return fmt.Sprintf("LogicalType(%d)", uint8(t))
	}
}

// FixedWidth returns the physical slot width in bytes for non-variable
// types, and ok=false for VARCHAR (variable-length, carried as FFIString).
func (t LogicalType) FixedWidth() (width int, ok bool) {
	switch t {
	case BOOLEAN, TINYINT:
		return 1, true
	case SMALLINT:
		return 2, true
	case INTEGER, FLOAT, DATE:
		return 4, true
	case BIGINT, DOUBLE, TIMESTAMP:
		return 8, true
	case INTERVAL:
		return 16, true // months int32 + days int32 + micros int64
	case VARCHAR:
		return 0, false
	default:
		return 0, false
	}
}

// IsNumeric reports whether arithmetic is directly defined over t.
func (t LogicalType) IsNumeric() bool {
	switch t {
	case TINYINT, SMALLINT, INTEGER, BIGINT, FLOAT, DOUBLE:
		return true
	default:
		return false
	}
}

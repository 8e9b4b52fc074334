// pkg/types/value.go
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind represents the tag of a database Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindVarchar
	KindText
	KindBool
	KindDate
	KindTimestamp
)

// String returns the keyword used to name this kind in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindVarchar:
		return "VARCHAR"
	case KindText:
		return "TEXT"
	case KindBool:
		return "BOOLEAN"
	case KindDate:
		return "DATE"
	case KindTimestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// DateLayout and TimestampLayout are the canonical on-the-wire formats.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// alternate timestamp input layouts accepted by ParseTimestamp.
var timestampInputLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	DateLayout,
}

// Value is a tagged union over the runtime values the engine understands.
// It is the sole currency passed between the parser, executor, storage and
// index layers.
type Value struct {
	kind     Kind
	intVal   int64
	floatVal float64
	strVal   string
	boolVal  bool
	timeVal  time.Time
}

// Null returns the NULL value.
func Null() Value { return Value{kind: KindNull} }

// Int wraps an INTEGER value.
func Int(i int64) Value { return Value{kind: KindInt, intVal: i} }

// Float wraps a FLOAT value.
func Float(f float64) Value { return Value{kind: KindFloat, floatVal: f} }

// Varchar wraps a VARCHAR value.
func Varchar(s string) Value { return Value{kind: KindVarchar, strVal: s} }

// Text wraps a TEXT value.
func Text(s string) Value { return Value{kind: KindText, strVal: s} }

// Bool wraps a BOOLEAN value.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Date wraps a DATE value. Only the year/month/day components are significant.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, timeVal: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Timestamp wraps a TIMESTAMP value, truncated to second precision.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, timeVal: t.Truncate(time.Second)}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Int() int64      { return v.intVal }
func (v Value) Float() float64  { return v.floatVal }
func (v Value) Str() string     { return v.strVal }
func (v Value) Bool() bool      { return v.boolVal }
func (v Value) Time() time.Time { return v.timeVal }

// Truthy reports whether the value counts as true in a boolean context.
// NULL is never truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal != 0
	case KindFloat:
		return v.floatVal != 0
	default:
		return v.strVal != ""
	}
}

// Native converts a Value to the closest Go built-in type, for display and
// for handing rows back across the public façade.
func (v Value) Native() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindVarchar, KindText:
		return v.strVal
	case KindBool:
		return v.boolVal
	case KindDate:
		return v.timeVal.Format(DateLayout)
	case KindTimestamp:
		return v.timeVal.Format(TimestampLayout)
	default:
		return nil
	}
}

// String renders the value the way it would appear in a table cell.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case KindVarchar, KindText:
		return v.strVal
	case KindBool:
		if v.boolVal {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return v.timeVal.Format(DateLayout)
	case KindTimestamp:
		return v.timeVal.Format(TimestampLayout)
	default:
		return ""
	}
}

// FromNative lifts a Go native value (as produced by JSON decoding or a
// literal in the AST) into a Value, without regard to any declared column
// type. ValidateAndConvert performs the type-aware coercion.
func FromNative(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case int:
		return Int(int64(val))
	case int64:
		return Int(val)
	case float64:
		return Float(val)
	case string:
		return Text(val)
	case bool:
		return Bool(val)
	case time.Time:
		return Timestamp(val)
	default:
		return Text(fmt.Sprintf("%v", val))
	}
}

// ParseTimestamp accepts the three wire formats named in the spec:
// YYYY-MM-DD, YYYY-MM-DD HH:MM:SS and YYYY-MM-DDTHH:MM:SS.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as TIMESTAMP", s)
}

// ParseDate accepts YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as DATE", s)
	}
	return t, nil
}

// Compare orders two values using the rules in §4.5: NULL sorts lowest,
// like-typed values compare naturally, and cross-type values fall back to
// their string form.
func Compare(a, b Value) int {
	if a.kind == KindNull && b.kind == KindNull {
		return 0
	}
	if a.kind == KindNull {
		return -1
	}
	if b.kind == KindNull {
		return 1
	}

	if isNumeric(a.kind) && isNumeric(b.kind) {
		af, bf := numeric(a), numeric(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	if (a.kind == KindDate || a.kind == KindTimestamp) && a.kind == b.kind {
		switch {
		case a.timeVal.Before(b.timeVal):
			return -1
		case a.timeVal.After(b.timeVal):
			return 1
		default:
			return 0
		}
	}

	if a.kind == b.kind {
		switch a.kind {
		case KindVarchar, KindText:
			return strings.Compare(a.strVal, b.strVal)
		case KindBool:
			if a.boolVal == b.boolVal {
				return 0
			}
			if !a.boolVal {
				return -1
			}
			return 1
		}
	}

	// Cross-type comparison falls back to string form.
	return strings.Compare(a.String(), b.String())
}

// Equal reports whether a and b compare equal under Compare. Callers that
// need SQL NULL semantics (NULL = anything is unknown) must check IsNull
// themselves; Equal is used by GROUP BY and DISTINCT, which treat NULLs as
// equal to each other.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func isNumeric(k Kind) bool { return k == KindInt || k == KindFloat }

func numeric(v Value) float64 {
	if v.kind == KindInt {
		return float64(v.intVal)
	}
	return v.floatVal
}

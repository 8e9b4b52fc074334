// pkg/types/coltype.go
package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ColumnType is a declared column type: a Kind plus, for VARCHAR, the
// maximum string length.
type ColumnType struct {
	Kind Kind
	Size int // VARCHAR(n); zero means unbounded/not applicable
}

// String renders the type the way DESCRIBE does.
func (ct ColumnType) String() string {
	if ct.Kind == KindVarchar && ct.Size > 0 {
		return fmt.Sprintf("VARCHAR(%d)", ct.Size)
	}
	return ct.Kind.String()
}

var varcharRE = regexp.MustCompile(`^VARCHAR\s*\(\s*(\d+)\s*\)$`)

// ParseType recognizes the type names in §4.1, case-insensitively.
func ParseType(text string) (ColumnType, error) {
	up := strings.ToUpper(strings.TrimSpace(text))

	if m := varcharRE.FindStringSubmatch(up); m != nil {
		n, _ := strconv.Atoi(m[1])
		return ColumnType{Kind: KindVarchar, Size: n}, nil
	}

	switch up {
	case "INTEGER", "INT":
		return ColumnType{Kind: KindInt}, nil
	case "FLOAT", "REAL", "DOUBLE":
		return ColumnType{Kind: KindFloat}, nil
	case "VARCHAR":
		return ColumnType{Kind: KindVarchar}, nil
	case "TEXT", "STRING":
		return ColumnType{Kind: KindText}, nil
	case "BOOLEAN", "BOOL":
		return ColumnType{Kind: KindBool}, nil
	case "DATE":
		return ColumnType{Kind: KindDate}, nil
	case "TIMESTAMP", "DATETIME":
		return ColumnType{Kind: KindTimestamp}, nil
	}

	return ColumnType{}, fmt.Errorf("unknown data type: %s", text)
}

// ValidationError names the column and source value that failed conversion.
type ValidationError struct {
	Column string
	Value  interface{}
	Type   ColumnType
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot convert %v to %s for column %q: %s", e.Value, e.Type, e.Column, e.Reason)
}

// ValidateAndConvert coerces a raw Value to col, per §4.1. column is used
// only to build a useful ValidationError.
func ValidateAndConvert(column string, v Value, col ColumnType) (Value, error) {
	if v.IsNull() {
		return Null(), nil
	}

	switch col.Kind {
	case KindInt:
		switch v.Kind() {
		case KindInt:
			return v, nil
		case KindFloat:
			return Int(int64(v.Float())), nil
		case KindBool:
			if v.Bool() {
				return Int(1), nil
			}
			return Int(0), nil
		case KindVarchar, KindText:
			n, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
			if err != nil {
				return Value{}, &ValidationError{column, v.String(), col, "not an integer"}
			}
			return Int(n), nil
		}
		return Value{}, &ValidationError{column, v.String(), col, "not an integer"}

	case KindFloat:
		switch v.Kind() {
		case KindFloat:
			return v, nil
		case KindInt:
			return Float(float64(v.Int())), nil
		case KindVarchar, KindText:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
			if err != nil {
				return Value{}, &ValidationError{column, v.String(), col, "not a float"}
			}
			return Float(f), nil
		}
		return Value{}, &ValidationError{column, v.String(), col, "not a float"}

	case KindVarchar:
		s := v.String()
		if col.Size > 0 && len(s) > col.Size {
			return Value{}, &ValidationError{column, s, col, fmt.Sprintf("exceeds VARCHAR(%d) limit", col.Size)}
		}
		return Varchar(s), nil

	case KindText:
		return Text(v.String()), nil

	case KindBool:
		switch v.Kind() {
		case KindBool:
			return v, nil
		case KindInt:
			return Bool(v.Int() != 0), nil
		case KindVarchar, KindText:
			switch strings.ToUpper(v.Str()) {
			case "TRUE", "1", "YES":
				return Bool(true), nil
			case "FALSE", "0", "NO":
				return Bool(false), nil
			}
			return Value{}, &ValidationError{column, v.String(), col, "not a boolean"}
		}
		return Value{}, &ValidationError{column, v.String(), col, "not a boolean"}

	case KindDate:
		switch v.Kind() {
		case KindDate:
			return v, nil
		case KindTimestamp:
			return Date(v.Time()), nil
		case KindVarchar, KindText:
			t, err := ParseDate(v.Str())
			if err != nil {
				return Value{}, &ValidationError{column, v.Str(), col, err.Error()}
			}
			return Date(t), nil
		}
		return Value{}, &ValidationError{column, v.String(), col, "not a date"}

	case KindTimestamp:
		switch v.Kind() {
		case KindTimestamp:
			return v, nil
		case KindDate:
			return Timestamp(v.Time()), nil
		case KindVarchar, KindText:
			t, err := ParseTimestamp(v.Str())
			if err != nil {
				return Value{}, &ValidationError{column, v.Str(), col, err.Error()}
			}
			return Timestamp(t), nil
		}
		return Value{}, &ValidationError{column, v.String(), col, "not a timestamp"}
	}

	return Value{}, &ValidationError{column, v.String(), col, "unsupported column type"}
}

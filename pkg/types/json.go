// pkg/types/json.go
package types

import (
	"encoding/json"
	"fmt"
)

// dateWrapper and timestampWrapper are the on-disk encodings for DATE and
// TIMESTAMP values, matching the __date__/__datetime__ tags used by the
// reference implementation this engine was modeled on.
type dateWrapper struct {
	Date string `json:"__date__"`
}

type timestampWrapper struct {
	Datetime string `json:"__datetime__"`
}

// MarshalForColumn encodes v as the JSON representation stored on disk.
func MarshalForColumn(v Value) (interface{}, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindDate:
		return dateWrapper{Date: v.Time().Format(DateLayout)}, nil
	case KindTimestamp:
		return timestampWrapper{Datetime: v.Time().Format(TimestampLayout)}, nil
	default:
		return v.Native(), nil
	}
}

// UnmarshalForColumn decodes a raw JSON value (already unmarshaled into Go
// native types by encoding/json) into a Value of the declared column type.
func UnmarshalForColumn(raw interface{}, col ColumnType) (Value, error) {
	if raw == nil {
		return Null(), nil
	}

	switch col.Kind {
	case KindDate, KindTimestamp:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return Value{}, fmt.Errorf("expected tagged date/timestamp object, got %T", raw)
		}
		if s, ok := m["__date__"].(string); ok {
			t, err := ParseDate(s)
			if err != nil {
				return Value{}, err
			}
			return Date(t), nil
		}
		if s, ok := m["__datetime__"].(string); ok {
			t, err := ParseTimestamp(s)
			if err != nil {
				return Value{}, err
			}
			return Timestamp(t), nil
		}
		return Value{}, fmt.Errorf("unrecognized date/timestamp encoding: %v", raw)

	case KindInt:
		switch n := raw.(type) {
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return Value{}, err
			}
			return Int(i), nil
		case float64:
			return Int(int64(n)), nil
		}
		return Value{}, fmt.Errorf("expected integer, got %T", raw)

	case KindFloat:
		switch n := raw.(type) {
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return Value{}, err
			}
			return Float(f), nil
		case float64:
			return Float(n), nil
		}
		return Value{}, fmt.Errorf("expected float, got %T", raw)

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("expected boolean, got %T", raw)
		}
		return Bool(b), nil

	case KindVarchar:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return Varchar(s), nil

	case KindText:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return Text(s), nil
	}

	return Value{}, fmt.Errorf("unsupported column kind %v", col.Kind)
}

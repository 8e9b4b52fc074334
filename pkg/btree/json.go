// pkg/btree/json.go
package btree

import (
	"encoding/json"
	"fmt"

	"minisql/pkg/types"
)

// keyJSON is the on-disk encoding of one index key. kind lets a key of
// any types.Kind round-trip without the index needing to know a declared
// column type (an index is keyed by raw Values, not a schema column).
type keyJSON struct {
	Kind  types.Kind  `json:"kind"`
	Value interface{} `json:"value"`
}

func marshalKey(v types.Value) keyJSON {
	switch v.Kind() {
	case types.KindDate:
		return keyJSON{Kind: v.Kind(), Value: v.Time().Format(types.DateLayout)}
	case types.KindTimestamp:
		return keyJSON{Kind: v.Kind(), Value: v.Time().Format(types.TimestampLayout)}
	default:
		return keyJSON{Kind: v.Kind(), Value: v.Native()}
	}
}

func unmarshalKey(kj keyJSON) (types.Value, error) {
	switch kj.Kind {
	case types.KindNull:
		return types.Null(), nil
	case types.KindInt:
		n, ok := kj.Value.(json.Number)
		if !ok {
			if f, ok := kj.Value.(float64); ok {
				return types.Int(int64(f)), nil
			}
			return types.Value{}, fmt.Errorf("expected integer key, got %T", kj.Value)
		}
		i, err := n.Int64()
		if err != nil {
			return types.Value{}, err
		}
		return types.Int(i), nil
	case types.KindFloat:
		switch val := kj.Value.(type) {
		case json.Number:
			f, err := val.Float64()
			if err != nil {
				return types.Value{}, err
			}
			return types.Float(f), nil
		case float64:
			return types.Float(val), nil
		}
		return types.Value{}, fmt.Errorf("expected float key, got %T", kj.Value)
	case types.KindVarchar:
		s, _ := kj.Value.(string)
		return types.Varchar(s), nil
	case types.KindText:
		s, _ := kj.Value.(string)
		return types.Text(s), nil
	case types.KindBool:
		b, _ := kj.Value.(bool)
		return types.Bool(b), nil
	case types.KindDate:
		s, _ := kj.Value.(string)
		t, err := types.ParseDate(s)
		if err != nil {
			return types.Value{}, err
		}
		return types.Date(t), nil
	case types.KindTimestamp:
		s, _ := kj.Value.(string)
		t, err := types.ParseTimestamp(s)
		if err != nil {
			return types.Value{}, err
		}
		return types.Timestamp(t), nil
	}
	return types.Value{}, fmt.Errorf("unsupported key kind %v", kj.Kind)
}

type nodeJSON struct {
	ID       int       `json:"node_id"`
	Keys     []keyJSON `json:"keys"`
	Values   [][]int64 `json:"values"`
	Children []int     `json:"children"`
	IsLeaf   bool       `json:"is_leaf"`
}

func nodeToJSON(n *node) (nodeJSON, error) {
	nj := nodeJSON{ID: n.ID, Values: n.Values, Children: n.Children, IsLeaf: n.IsLeaf}
	for _, k := range n.Keys {
		nj.Keys = append(nj.Keys, marshalKey(k))
	}
	return nj, nil
}

func nodeFromJSON(nj nodeJSON) (*node, error) {
	n := &node{ID: nj.ID, Values: nj.Values, Children: nj.Children, IsLeaf: nj.IsLeaf}
	for _, kj := range nj.Keys {
		k, err := unmarshalKey(kj)
		if err != nil {
			return nil, err
		}
		n.Keys = append(n.Keys, k)
	}
	return n, nil
}

type indexFileJSON struct {
	RootID     int        `json:"root_id"`
	NextNodeID int        `json:"next_node_id"`
	Degree     int        `json:"degree"`
	Unique     bool       `json:"unique"`
	Nodes      []nodeJSON `json:"nodes"`
}

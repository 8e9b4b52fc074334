// pkg/btree/cursor.go
package btree

import "minisql/pkg/types"

// Pair is one key/row-id association yielded by a range search.
type Pair struct {
	Key   types.Value
	RowID int64
}

// RangeSearch performs an in-order traversal collecting every key k with
// min <= k <= max (bounds nil mean unbounded, inclusivity controlled by
// includeMin/includeMax), in ascending key order. A key with more than
// one row id yields one Pair per row id, in insertion order.
func (idx *Index) RangeSearch(min, max *types.Value, includeMin, includeMax bool) []Pair {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []Pair
	idx.rangeSearch(idx.rootID, min, max, includeMin, includeMax, &out)
	return out
}

func (idx *Index) rangeSearch(nodeID int, min, max *types.Value, includeMin, includeMax bool, out *[]Pair) {
	n := idx.nodes[nodeID]

	for i, key := range n.Keys {
		if !n.IsLeaf {
			idx.rangeSearch(n.Children[i], min, max, includeMin, includeMax, out)
		}

		if belowMin(key, min, includeMin) {
			continue
		}
		if aboveMax(key, max, includeMax) {
			return
		}
		for _, rowID := range n.Values[i] {
			*out = append(*out, Pair{Key: key, RowID: rowID})
		}
	}

	if !n.IsLeaf {
		idx.rangeSearch(n.Children[len(n.Keys)], min, max, includeMin, includeMax, out)
	}
}

func belowMin(key types.Value, min *types.Value, includeMin bool) bool {
	if min == nil {
		return false
	}
	c := types.Compare(key, *min)
	if includeMin {
		return c < 0
	}
	return c <= 0
}

func aboveMax(key types.Value, max *types.Value, includeMax bool) bool {
	if max == nil {
		return false
	}
	c := types.Compare(key, *max)
	if includeMax {
		return c > 0
	}
	return c >= 0
}

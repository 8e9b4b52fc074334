// pkg/btree/node.go
package btree

import "minisql/pkg/types"

// node is one B-tree node, addressed by integer id in the tree's arena.
// Children, when present, number one more than the key count.
type node struct {
	ID       int
	Keys     []types.Value
	Values   [][]int64
	Children []int
	IsLeaf   bool
}

func newNode(id int, isLeaf bool) *node {
	return &node{ID: id, IsLeaf: isLeaf}
}

// findKey returns the index of the first key >= target, and whether that
// key equals target exactly.
func (n *node) findKey(target types.Value) (int, bool) {
	i := 0
	for i < len(n.Keys) && types.Compare(target, n.Keys[i]) > 0 {
		i++
	}
	return i, i < len(n.Keys) && types.Compare(target, n.Keys[i]) == 0
}

func containsRowID(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// pkg/btree/btree.go
package btree

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"minisql/pkg/types"
)

// DefaultDegree is the minimum degree t used when none is configured.
const DefaultDegree = 50

// ErrDuplicateKey is returned by Insert when a unique index would
// otherwise associate a second distinct row id with an existing key.
type ErrDuplicateKey struct {
	Key types.Value
}

func (e *ErrDuplicateKey) Error() string {
	return fmt.Sprintf("duplicate key %v in unique index", e.Key.Native())
}

// Index is an arena-backed B-tree of minimum degree t mapping a Value
// key to the list of row ids holding that value.
type Index struct {
	Name   string
	Table  string
	Column string
	Unique bool

	degree int
	path   string

	mu         sync.RWMutex
	nodes      map[int]*node
	rootID     int
	nextNodeID int
}

// New creates a fresh, empty index persisted at path.
func New(name, table, column string, unique bool, degree int, path string) *Index {
	if degree <= 0 {
		degree = DefaultDegree
	}
	idx := &Index{
		Name: name, Table: table, Column: column, Unique: unique,
		degree: degree, path: path,
		nodes: make(map[int]*node),
	}
	idx.nodes[0] = newNode(0, true)
	idx.rootID = 0
	idx.nextNodeID = 1
	return idx
}

// Open loads an index from path if it exists, otherwise creates a fresh
// one there.
func Open(name, table, column string, unique bool, degree int, path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(name, table, column, unique, degree, path), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index file %s: %w", path, err)
	}

	var fj indexFileJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return nil, fmt.Errorf("parsing index file %s: %w", path, err)
	}

	idx := &Index{
		Name: name, Table: table, Column: column, Unique: unique,
		degree: fj.Degree, path: path,
		nodes:      make(map[int]*node),
		rootID:     fj.RootID,
		nextNodeID: fj.NextNodeID,
	}
	if idx.degree <= 0 {
		idx.degree = degree
	}
	if idx.degree <= 0 {
		idx.degree = DefaultDegree
	}
	for _, nj := range fj.Nodes {
		n, err := nodeFromJSON(nj)
		if err != nil {
			return nil, err
		}
		idx.nodes[n.ID] = n
	}
	if len(idx.nodes) == 0 {
		idx.nodes[0] = newNode(0, true)
		idx.rootID = 0
		idx.nextNodeID = 1
	}
	return idx, nil
}

func (idx *Index) save() error {
	fj := indexFileJSON{RootID: idx.rootID, NextNodeID: idx.nextNodeID, Degree: idx.degree, Unique: idx.Unique}
	for _, n := range idx.nodes {
		nj, err := nodeToJSON(n)
		if err != nil {
			return err
		}
		fj.Nodes = append(fj.Nodes, nj)
	}
	data, err := json.MarshalIndent(fj, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(idx.path, data, 0o644)
}

// Drop deletes the index's backing file.
func (idx *Index) Drop() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	err := os.Remove(idx.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (idx *Index) allocate(isLeaf bool) *node {
	n := newNode(idx.nextNodeID, isLeaf)
	idx.nodes[n.ID] = n
	idx.nextNodeID++
	return n
}

// Search returns every row id stored under key, or an empty slice if key
// is absent.
func (idx *Index) Search(key types.Value) []int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.search(idx.rootID, key)
}

func (idx *Index) search(nodeID int, key types.Value) []int64 {
	n := idx.nodes[nodeID]
	i, found := n.findKey(key)
	if found {
		out := make([]int64, len(n.Values[i]))
		copy(out, n.Values[i])
		return out
	}
	if n.IsLeaf {
		return nil
	}
	return idx.search(n.Children[i], key)
}

// Insert associates rowID with key. If the root is full it is split
// first; a unique index rejects inserting a distinct row id under a key
// that already maps to a different row id.
func (idx *Index) Insert(key types.Value, rowID int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	root := idx.nodes[idx.rootID]
	if len(root.Keys) == 2*idx.degree-1 {
		newRoot := idx.allocate(false)
		newRoot.Children = append(newRoot.Children, idx.rootID)
		idx.rootID = newRoot.ID
		idx.splitChild(newRoot, 0)
		if err := idx.insertNonFull(newRoot, key, rowID); err != nil {
			return err
		}
	} else if err := idx.insertNonFull(root, key, rowID); err != nil {
		return err
	}

	return idx.save()
}

func (idx *Index) splitChild(parent *node, childIdx int) {
	t := idx.degree
	childID := parent.Children[childIdx]
	child := idx.nodes[childID]

	medianKey := child.Keys[t-1]
	medianValues := child.Values[t-1]

	sibling := idx.allocate(child.IsLeaf)
	sibling.Keys = append(sibling.Keys, child.Keys[t:]...)
	sibling.Values = append(sibling.Values, child.Values[t:]...)
	child.Keys = child.Keys[:t-1 : t-1]
	child.Values = child.Values[:t-1 : t-1]

	if !child.IsLeaf {
		sibling.Children = append(sibling.Children, child.Children[t:]...)
		child.Children = child.Children[:t]
	}

	parent.Children = append(parent.Children, 0)
	copy(parent.Children[childIdx+2:], parent.Children[childIdx+1:])
	parent.Children[childIdx+1] = sibling.ID

	parent.Keys = append(parent.Keys, types.Null())
	copy(parent.Keys[childIdx+1:], parent.Keys[childIdx:])
	parent.Keys[childIdx] = medianKey

	parent.Values = append(parent.Values, nil)
	copy(parent.Values[childIdx+1:], parent.Values[childIdx:])
	parent.Values[childIdx] = medianValues
}

func (idx *Index) insertNonFull(n *node, key types.Value, rowID int64) error {
	if n.IsLeaf {
		i, found := n.findKey(key)
		if found {
			return idx.appendRowID(n, i, key, rowID)
		}
		n.Keys = append(n.Keys, types.Null())
		copy(n.Keys[i+1:], n.Keys[i:])
		n.Keys[i] = key
		n.Values = append(n.Values, nil)
		copy(n.Values[i+1:], n.Values[i:])
		n.Values[i] = []int64{rowID}
		return nil
	}

	i, found := n.findKey(key)
	if found {
		return idx.appendRowID(n, i, key, rowID)
	}

	child := idx.nodes[n.Children[i]]
	if len(child.Keys) == 2*idx.degree-1 {
		idx.splitChild(n, i)
		switch types.Compare(key, n.Keys[i]) {
		case 1:
			i++
		case 0:
			return idx.appendRowID(n, i, key, rowID)
		}
	}
	return idx.insertNonFull(idx.nodes[n.Children[i]], key, rowID)
}

func (idx *Index) appendRowID(n *node, i int, key types.Value, rowID int64) error {
	if containsRowID(n.Values[i], rowID) {
		return nil
	}
	if idx.Unique && len(n.Values[i]) > 0 {
		return &ErrDuplicateKey{Key: key}
	}
	n.Values[i] = append(n.Values[i], rowID)
	return nil
}

// Delete removes rowID from key's row-id list. The key (and its
// possibly-now-empty list) is left in place; the tree does not rebalance
// on delete.
func (idx *Index) Delete(key types.Value, rowID int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.delete(idx.rootID, key, rowID)
	return idx.save()
}

func (idx *Index) delete(nodeID int, key types.Value, rowID int64) bool {
	n := idx.nodes[nodeID]
	i, found := n.findKey(key)
	if found {
		out := n.Values[i][:0]
		removed := false
		for _, id := range n.Values[i] {
			if id == rowID && !removed {
				removed = true
				continue
			}
			out = append(out, id)
		}
		n.Values[i] = out
		return removed
	}
	if n.IsLeaf {
		return false
	}
	return idx.delete(n.Children[i], key, rowID)
}

// pkg/storage/table.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"minisql/pkg/schema"
	"minisql/pkg/types"
)

// Row pairs a row id with its column→value map, the shape scan() yields.
type Row struct {
	ID  int64
	Row map[string]types.Value
}

type tableFileJSON struct {
	Rows       map[string]map[string]interface{} `json:"rows"`
	NextRowID  int64                              `json:"next_row_id"`
}

// TableStorage is the per-table row store: a row-id→row map plus the
// monotonic row-id counter, backed by one JSON file.
type TableStorage struct {
	schema *schema.TableSchema
	path   string

	mu        sync.RWMutex
	rows      map[int64]map[string]types.Value
	nextRowID int64
}

// openTableStorage loads (or initializes) the table file for s inside dir.
func openTableStorage(dir string, s *schema.TableSchema) (*TableStorage, error) {
	t := &TableStorage{
		schema:    s,
		path:      filepath.Join(dir, s.Name+".json"),
		rows:      make(map[int64]map[string]types.Value),
		nextRowID: 1,
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TableStorage) load() error {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading table file %s: %w", t.path, err)
	}

	var tf tableFileJSON
	if err := json.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parsing table file %s: %w", t.path, err)
	}

	for idStr, raw := range tf.Rows {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return fmt.Errorf("table file %s: bad row id %q", t.path, idStr)
		}
		row := make(map[string]types.Value, len(raw))
		for _, col := range t.schema.Columns {
			v, err := types.UnmarshalForColumn(raw[col.Name], col.Type)
			if err != nil {
				return fmt.Errorf("table file %s row %d column %q: %w", t.path, id, col.Name, err)
			}
			row[col.Name] = v
		}
		t.rows[id] = row
	}
	if tf.NextRowID > 0 {
		t.nextRowID = tf.NextRowID
	}
	return nil
}

// save must be called with t.mu held.
func (t *TableStorage) save() error {
	out := tableFileJSON{Rows: make(map[string]map[string]interface{}, len(t.rows)), NextRowID: t.nextRowID}
	for id, row := range t.rows {
		encoded := make(map[string]interface{}, len(row))
		for col, v := range row {
			raw, err := types.MarshalForColumn(v)
			if err != nil {
				return fmt.Errorf("encoding column %q: %w", col, err)
			}
			encoded[col] = raw
		}
		out.Rows[strconv.FormatInt(id, 10)] = encoded
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0o644)
}

// Insert validates row against the schema, enforces every UNIQUE column
// by scanning existing rows, assigns the next row id, and persists.
func (t *TableStorage) Insert(row map[string]types.Value) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	validated, err := t.schema.ValidateRow(row)
	if err != nil {
		return 0, err
	}
	if err := t.checkUnique(validated, -1); err != nil {
		return 0, err
	}

	id := t.nextRowID
	t.nextRowID++
	t.rows[id] = validated

	if err := t.save(); err != nil {
		return 0, err
	}
	return id, nil
}

// checkUnique scans all rows for a conflicting value on any unique
// column, excluding excludeID (pass -1 to exclude nothing).
func (t *TableStorage) checkUnique(row map[string]types.Value, excludeID int64) error {
	for col := range t.schema.UniqueColumns {
		val, ok := row[col]
		if !ok || val.IsNull() {
			continue
		}
		for id, existing := range t.rows {
			if id == excludeID {
				continue
			}
			if ev, ok := existing[col]; ok && !ev.IsNull() && types.Equal(ev, val) {
				return &schema.UniqueError{Column: col, Value: val.Native()}
			}
		}
	}
	return nil
}

// Update merges partial into the existing row (case-insensitive column
// matching is the schema's job via ValidateRow), re-validates, re-checks
// uniqueness excluding rowID, and overwrites.
func (t *TableStorage) Update(rowID int64, partial map[string]types.Value) (map[string]types.Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.rows[rowID]
	if !ok {
		return nil, fmt.Errorf("row %d not found", rowID)
	}

	merged := make(map[string]types.Value, len(existing))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range partial {
		for ek := range merged {
			if ek != k && strings.EqualFold(ek, k) {
				delete(merged, ek)
			}
		}
		merged[k] = v
	}

	validated, err := t.schema.ValidateRow(merged)
	if err != nil {
		return nil, err
	}
	if err := t.checkUnique(validated, rowID); err != nil {
		return nil, err
	}

	t.rows[rowID] = validated
	if err := t.save(); err != nil {
		return nil, err
	}
	return validated, nil
}

// Delete removes rowID. row id is never recycled.
func (t *TableStorage) Delete(rowID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[rowID]; !ok {
		return fmt.Errorf("row %d not found", rowID)
	}
	delete(t.rows, rowID)
	return t.save()
}

// Get returns a copy of the row with the given id.
func (t *TableStorage) Get(rowID int64) (map[string]types.Value, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[rowID]
	if !ok {
		return nil, false
	}
	cp := make(map[string]types.Value, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp, true
}

// Scan yields all rows in row-id-ascending order, deterministically.
func (t *TableStorage) Scan() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Row, len(ids))
	for i, id := range ids {
		out[i] = Row{ID: id, Row: t.rows[id]}
	}
	return out
}

// Count returns the number of live rows.
func (t *TableStorage) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Truncate clears all rows and resets the row-id counter to 1.
func (t *TableStorage) Truncate() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[int64]map[string]types.Value)
	t.nextRowID = 1
	return t.save()
}

// Drop removes the backing file.
func (t *TableStorage) Drop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := os.Remove(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Schema returns the table's schema.
func (t *TableStorage) Schema() *schema.TableSchema { return t.schema }

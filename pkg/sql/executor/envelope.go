// pkg/sql/executor/envelope.go
package executor

import (
	"strings"

	"minisql/pkg/schema"
	"minisql/pkg/types"
)

// envelope is the executor's working representation of an in-flight row
// during join processing: a map from table alias to its contributing
// row, plus a flattened merge for unqualified lookups (last-alias-wins
// in join order) and a record of the row id each alias contributed.
type envelope struct {
	order  []string
	tables map[string]map[string]types.Value
	rowIDs map[string]int64
	flat   map[string]types.Value
}

func newEnvelope() *envelope {
	return &envelope{
		tables: make(map[string]map[string]types.Value),
		rowIDs: make(map[string]int64),
		flat:   make(map[string]types.Value),
	}
}

// with returns a copy of e extended with alias's row, recomputing the
// flattened view so the new alias wins ties on shared column names.
func (e *envelope) with(alias string, row map[string]types.Value, rowID int64) *envelope {
	next := &envelope{
		order:  append(append([]string{}, e.order...), alias),
		tables: make(map[string]map[string]types.Value, len(e.tables)+1),
		rowIDs: make(map[string]int64, len(e.rowIDs)+1),
	}
	for k, v := range e.tables {
		next.tables[k] = v
	}
	for k, v := range e.rowIDs {
		next.rowIDs[k] = v
	}
	next.tables[strings.ToLower(alias)] = row
	next.rowIDs[strings.ToLower(alias)] = rowID

	next.flat = make(map[string]types.Value)
	for _, a := range next.order {
		for col, v := range next.tables[strings.ToLower(a)] {
			next.flat[strings.ToLower(col)] = v
		}
	}
	return next
}

func lookupCaseInsensitive(row map[string]types.Value, name string) (types.Value, bool) {
	lower := strings.ToLower(name)
	for k, v := range row {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return types.Value{}, false
}

// resolve looks up a (possibly qualified) column reference: qualified
// table first, then the flattened view, then any aliased table's row.
func (e *envelope) resolve(table, name string) (types.Value, bool) {
	if table != "" {
		row, ok := e.tables[strings.ToLower(table)]
		if !ok {
			return types.Value{}, false
		}
		return lookupCaseInsensitive(row, name)
	}

	if v, ok := lookupCaseInsensitive(e.flat, name); ok {
		return v, true
	}

	for _, alias := range e.order {
		if v, ok := lookupCaseInsensitive(e.tables[strings.ToLower(alias)], name); ok {
			return v, true
		}
	}
	return types.Value{}, false
}

// flattened returns the merged column->value view used for WHERE/ORDER
// BY evaluation and for `*` projection, walking each alias's declared
// schema column order (per aliasSchemas) rather than ranging the row
// map, so output order is pinned to declaration order instead of Go's
// randomized map iteration (spec's "SELECT * projects every schema
// column in declared order" property). Aliases absent from
// aliasSchemas (the no-FROM shortcut) contribute no columns.
func (e *envelope) flattened(aliasSchemas map[string]*schema.TableSchema) (map[string]types.Value, []string) {
	out := make(map[string]types.Value)
	var names []string
	seen := make(map[string]bool)
	for _, alias := range e.order {
		lower := strings.ToLower(alias)
		row := e.tables[lower]
		s := aliasSchemas[lower]
		if s == nil {
			continue
		}
		for _, col := range s.Columns {
			v, ok := lookupCaseInsensitive(row, col.Name)
			if !ok {
				v = types.Null()
			}
			out[col.Name] = v
			colLower := strings.ToLower(col.Name)
			if !seen[colLower] {
				seen[colLower] = true
				names = append(names, col.Name)
			}
		}
	}
	return out, names
}

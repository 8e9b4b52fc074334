// pkg/sql/executor/select.go
package executor

import (
	"fmt"
	"sort"
	"strings"

	"minisql/pkg/schema"
	"minisql/pkg/sql/parser"
	"minisql/pkg/storage"
	"minisql/pkg/types"
)

func (ex *Executor) execSelect(stmt *parser.SelectStmt) (*Result, error) {
	// Step 1: source.
	if stmt.From == nil {
		env := newEnvelope()
		row, cols, err := ex.project(stmt.Columns, []*envelope{env}, env, nil)
		if err != nil {
			return nil, err
		}
		return &Result{Columns: cols, Rows: []map[string]types.Value{row}}, nil
	}

	baseTable := ex.engine.Table(stmt.From.Name)
	if baseTable == nil {
		return nil, fmt.Errorf("%w: %q", storage.ErrTableNotFound, stmt.From.Name)
	}
	baseAlias := stmt.From.Alias
	if baseAlias == "" {
		baseAlias = stmt.From.Name
	}

	aliasSchemas := map[string]*schema.TableSchema{strings.ToLower(baseAlias): baseTable.Schema()}

	envelopes := make([]*envelope, 0, baseTable.Count())
	for _, row := range baseTable.Scan() {
		envelopes = append(envelopes, newEnvelope().with(baseAlias, row.Row, row.ID))
	}

	// Step 2: joins.
	for _, jc := range stmt.Joins {
		rightTable := ex.engine.Table(jc.Table.Name)
		if rightTable == nil {
			return nil, fmt.Errorf("%w: %q", storage.ErrTableNotFound, jc.Table.Name)
		}
		rightAlias := jc.Table.Alias
		if rightAlias == "" {
			rightAlias = jc.Table.Name
		}

		next, err := ex.applyJoin(envelopes, jc, rightAlias, rightTable, aliasSchemas)
		if err != nil {
			return nil, err
		}
		envelopes = next
		aliasSchemas[strings.ToLower(rightAlias)] = rightTable.Schema()
	}

	// Step 3: WHERE.
	if stmt.Where != nil {
		filtered := envelopes[:0]
		for _, env := range envelopes {
			v, err := evalExpr(stmt.Where, env)
			if err != nil {
				return nil, err
			}
			if v.Truthy() {
				filtered = append(filtered, env)
			}
		}
		envelopes = filtered
	}

	// Step 4 + 5: GROUP BY / aggregates, HAVING.
	groups, reps, err := ex.groupEnvelopes(stmt, envelopes)
	if err != nil {
		return nil, err
	}

	type projected struct {
		row map[string]types.Value
		env *envelope // representative, used for ORDER BY expressions
		grp []*envelope
	}
	var rows []projected
	var columnOrder []string
	seenCol := make(map[string]bool)

	for i, group := range groups {
		rep := reps[i]
		if stmt.Having != nil {
			v, err := evalProjExpr(stmt.Having, group, rep)
			if err != nil {
				return nil, err
			}
			if !v.Truthy() {
				continue
			}
		}
		row, cols, err := ex.projectGroup(stmt.Columns, group, rep, aliasSchemas)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			if !seenCol[strings.ToLower(c)] {
				seenCol[strings.ToLower(c)] = true
				columnOrder = append(columnOrder, c)
			}
		}
		rows = append(rows, projected{row: row, env: rep, grp: group})
	}

	// Step 6: DISTINCT.
	if stmt.Distinct {
		var deduped []projected
		for _, r := range rows {
			dup := false
			for _, seen := range deduped {
				if rowsEqual(seen.row, r.row, columnOrder) {
					dup = true
					break
				}
			}
			if !dup {
				deduped = append(deduped, r)
			}
		}
		rows = deduped
	}

	// Step 7: ORDER BY (stable, NULLs first regardless of direction).
	if len(stmt.OrderBy) > 0 {
		type keyed struct {
			projected
			keys []types.Value
		}
		ks := make([]keyed, len(rows))
		for i, r := range rows {
			keys := make([]types.Value, len(stmt.OrderBy))
			for j, ord := range stmt.OrderBy {
				if ref, isRef := ord.Expr.(*parser.ColumnRef); isRef && ref.Table == "" {
					if pv, ok := lookupCaseInsensitive(r.row, ref.Name); ok {
						keys[j] = pv
						continue
					}
				}
				v, err := evalProjExpr(ord.Expr, r.grp, r.env)
				if err != nil {
					return nil, err
				}
				keys[j] = v
			}
			ks[i] = keyed{projected: r, keys: keys}
		}
		sort.SliceStable(ks, func(i, j int) bool {
			for k, ord := range stmt.OrderBy {
				a, b := ks[i].keys[k], ks[j].keys[k]
				if a.IsNull() && b.IsNull() {
					continue
				}
				if a.IsNull() {
					return true
				}
				if b.IsNull() {
					return false
				}
				c := types.Compare(a, b)
				if c == 0 {
					continue
				}
				if ord.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
		for i, k := range ks {
			rows[i] = k.projected
		}
	}

	// Step 8: OFFSET then LIMIT.
	if stmt.Offset != nil {
		off := int(*stmt.Offset)
		if off >= len(rows) {
			rows = nil
		} else if off > 0 {
			rows = rows[off:]
		}
	}
	if stmt.Limit != nil {
		lim := int(*stmt.Limit)
		if lim < len(rows) {
			rows = rows[:lim]
		}
	}

	out := make([]map[string]types.Value, len(rows))
	for i, r := range rows {
		out[i] = r.row
	}
	return &Result{Columns: columnOrder, Rows: out}, nil
}

func rowsEqual(a, b map[string]types.Value, cols []string) bool {
	for _, c := range cols {
		if !types.Equal(a[c], b[c]) {
			return false
		}
	}
	return true
}

func nullRowFor(s *schema.TableSchema) map[string]types.Value {
	row := make(map[string]types.Value)
	for _, name := range s.ColumnNames() {
		row[name] = types.Null()
	}
	return row
}

// applyJoin processes one JOIN clause against the current set of left
// envelopes, per §4.6 step 2.
func (ex *Executor) applyJoin(lefts []*envelope, jc parser.JoinClause, rightAlias string, rightTable *storage.TableStorage, aliasSchemas map[string]*schema.TableSchema) ([]*envelope, error) {
	rightRows := rightTable.Scan()
	rightMatched := make([]bool, len(rightRows))

	var out []*envelope

	if jc.Type == parser.CrossJoin {
		for _, left := range lefts {
			for i, rr := range rightRows {
				out = append(out, left.with(rightAlias, rr.Row, rr.ID))
				rightMatched[i] = true
			}
		}
		return out, nil
	}

	for _, left := range lefts {
		matchedAny := false
		for i, rr := range rightRows {
			cand := left.with(rightAlias, rr.Row, rr.ID)
			matched := true
			if jc.On != nil {
				v, err := evalExpr(jc.On, cand)
				if err != nil {
					return nil, err
				}
				matched = v.Truthy()
			}
			if matched {
				out = append(out, cand)
				matchedAny = true
				rightMatched[i] = true
			}
		}
		if !matchedAny && (jc.Type == parser.LeftJoin || jc.Type == parser.RightJoin) {
			out = append(out, left.with(rightAlias, nullRowFor(rightTable.Schema()), 0))
		}
	}

	if jc.Type == parser.RightJoin && len(lefts) > 0 {
		template := newEnvelope()
		for _, alias := range lefts[0].order {
			template = template.with(alias, nullRowFor(aliasSchemas[strings.ToLower(alias)]), 0)
		}
		for i, rr := range rightRows {
			if !rightMatched[i] {
				out = append(out, template.with(rightAlias, rr.Row, rr.ID))
			}
		}
	}

	return out, nil
}

// groupEnvelopes partitions envelopes per §4.6 step 4: by GROUP BY key
// tuple if GROUP BY is present or the select list contains an aggregate,
// otherwise each envelope is its own singleton group (representative =
// itself). It returns each group's envelopes and a representative
// envelope used to resolve non-aggregated column references.
func (ex *Executor) groupEnvelopes(stmt *parser.SelectStmt, envelopes []*envelope) ([][]*envelope, []*envelope, error) {
	if len(stmt.GroupBy) == 0 && !selectListHasAggregate(stmt.Columns) {
		groups := make([][]*envelope, len(envelopes))
		reps := make([]*envelope, len(envelopes))
		for i, env := range envelopes {
			groups[i] = []*envelope{env}
			reps[i] = env
		}
		return groups, reps, nil
	}

	type bucket struct {
		key  []types.Value
		envs []*envelope
	}
	var buckets []*bucket

	for _, env := range envelopes {
		key := make([]types.Value, len(stmt.GroupBy))
		for i, ge := range stmt.GroupBy {
			v, err := evalExpr(ge, env)
			if err != nil {
				return nil, nil, err
			}
			key[i] = v
		}

		var found *bucket
		for _, b := range buckets {
			if keysEqual(b.key, key) {
				found = b
				break
			}
		}
		if found == nil {
			found = &bucket{key: key}
			buckets = append(buckets, found)
		}
		found.envs = append(found.envs, env)
	}

	// No GROUP BY but an aggregate in the select list: a single group
	// over all rows (empty input still yields one row of aggregates).
	if len(stmt.GroupBy) == 0 && len(buckets) == 0 {
		return [][]*envelope{nil}, []*envelope{newEnvelope()}, nil
	}

	groups := make([][]*envelope, len(buckets))
	reps := make([]*envelope, len(buckets))
	for i, b := range buckets {
		groups[i] = b.envs
		reps[i] = b.envs[0]
	}
	return groups, reps, nil
}

func keysEqual(a, b []types.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !types.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// project implements §4.6 step 9 for the non-grouped, non-aggregate
// case (kept separate from projectGroup for the no-FROM shortcut).
func (ex *Executor) project(items []parser.SelectItem, group []*envelope, rep *envelope, aliasSchemas map[string]*schema.TableSchema) (map[string]types.Value, []string, error) {
	return ex.projectGroup(items, group, rep, aliasSchemas)
}

// projectGroup builds one output row from a select list evaluated
// against group/rep, per §4.6 step 9.
func (ex *Executor) projectGroup(items []parser.SelectItem, group []*envelope, rep *envelope, aliasSchemas map[string]*schema.TableSchema) (map[string]types.Value, []string, error) {
	row := make(map[string]types.Value)
	var cols []string

	for _, item := range items {
		if item.Star {
			flat, names := rep.flattened(aliasSchemas)
			for _, name := range names {
				row[name] = flat[name]
				cols = append(cols, name)
			}
			continue
		}

		name := columnLabel(item)
		v, err := evalProjExpr(item.Expr, group, rep)
		if err != nil {
			return nil, nil, err
		}
		row[name] = v
		cols = append(cols, name)
	}

	return row, cols, nil
}

// columnLabel names a select-list item's output column per §4.6 step 9:
// its alias if any, else for a bare ColumnRef its column name, else for
// an aggregate `FN(args)`.
func columnLabel(item parser.SelectItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := item.Expr.(type) {
	case *parser.ColumnRef:
		return e.Name
	case *parser.FunctionCall:
		return functionLabel(e)
	default:
		return "?column?"
	}
}

func functionLabel(fc *parser.FunctionCall) string {
	if fc.Star {
		return fmt.Sprintf("%s(*)", strings.ToUpper(fc.Name))
	}
	var args []string
	for _, a := range fc.Args {
		if ref, ok := a.(*parser.ColumnRef); ok {
			args = append(args, ref.Name)
		} else {
			args = append(args, "expr")
		}
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(fc.Name), strings.Join(args, ", "))
}

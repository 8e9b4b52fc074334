// pkg/sql/executor/aggregate.go
package executor

import (
	"fmt"
	"strings"

	"minisql/pkg/sql/lexer"
	"minisql/pkg/sql/parser"
	"minisql/pkg/types"
)

// containsAggregate reports whether expr contains a FunctionCall node
// anywhere in its tree.
func containsAggregate(expr parser.Expression) bool {
	switch e := expr.(type) {
	case *parser.FunctionCall:
		return true
	case *parser.BinaryOp:
		return containsAggregate(e.Left) || containsAggregate(e.Right)
	case *parser.UnaryOp:
		return containsAggregate(e.Expr)
	case *parser.IsNullExpr:
		return containsAggregate(e.Expr)
	case *parser.LikeExpr:
		return containsAggregate(e.Expr) || containsAggregate(e.Pattern)
	case *parser.InExpr:
		if containsAggregate(e.Expr) {
			return true
		}
		for _, item := range e.List {
			if containsAggregate(item) {
				return true
			}
		}
		return false
	}
	return false
}

func selectListHasAggregate(items []parser.SelectItem) bool {
	for _, item := range items {
		if item.Expr != nil && containsAggregate(item.Expr) {
			return true
		}
	}
	return false
}

// computeAggregate evaluates one aggregate function call over group,
// per §4.6: COUNT(*) counts envelopes, COUNT(expr) counts non-NULL
// values, SUM/AVG ignore NULL (AVG of empty input is NULL, SUM is 0),
// MIN/MAX return NULL for empty input, and DISTINCT deduplicates the
// value stream first.
func computeAggregate(fc *parser.FunctionCall, group []*envelope) (types.Value, error) {
	name := strings.ToUpper(fc.Name)

	if name == "COUNT" && fc.Star {
		return types.Int(int64(len(group))), nil
	}

	if len(fc.Args) != 1 {
		return types.Value{}, fmt.Errorf("%w: %s takes exactly one argument", ErrExecution, name)
	}

	values := make([]types.Value, 0, len(group))
	for _, env := range group {
		v, err := evalExpr(fc.Args[0], env)
		if err != nil {
			return types.Value{}, err
		}
		if !v.IsNull() {
			values = append(values, v)
		}
	}

	if fc.Distinct {
		values = dedupValues(values)
	}

	switch name {
	case "COUNT":
		return types.Int(int64(len(values))), nil
	case "SUM":
		if len(values) == 0 {
			return types.Int(0), nil
		}
		return sumValues(values), nil
	case "AVG":
		if len(values) == 0 {
			return types.Null(), nil
		}
		sum := sumValues(values)
		return types.Float(asFloat(sum) / float64(len(values))), nil
	case "MIN":
		if len(values) == 0 {
			return types.Null(), nil
		}
		m := values[0]
		for _, v := range values[1:] {
			if types.Compare(v, m) < 0 {
				m = v
			}
		}
		return m, nil
	case "MAX":
		if len(values) == 0 {
			return types.Null(), nil
		}
		m := values[0]
		for _, v := range values[1:] {
			if types.Compare(v, m) > 0 {
				m = v
			}
		}
		return m, nil
	}

	return types.Value{}, fmt.Errorf("%w: unknown aggregate function %s", ErrExecution, fc.Name)
}

func dedupValues(values []types.Value) []types.Value {
	var out []types.Value
	for _, v := range values {
		dup := false
		for _, seen := range out {
			if types.Equal(seen, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func sumValues(values []types.Value) types.Value {
	allInt := true
	for _, v := range values {
		if v.Kind() != types.KindInt {
			allInt = false
			break
		}
	}
	if allInt {
		var total int64
		for _, v := range values {
			total += v.Int()
		}
		return types.Int(total)
	}
	var total float64
	for _, v := range values {
		total += asFloat(v)
	}
	return types.Float(total)
}

// evalProjExpr evaluates a select-list/ORDER BY/HAVING expression against
// one post-group row: FunctionCall nodes are computed from group, every
// other node composes normally by recursing into this same evaluator so
// arithmetic over an aggregate (e.g. `SUM(a) - SUM(b)`) works.
func evalProjExpr(expr parser.Expression, group []*envelope, rep *envelope) (types.Value, error) {
	switch e := expr.(type) {
	case *parser.FunctionCall:
		return computeAggregate(e, group)
	case *parser.BinaryOp:
		l, err := evalProjExpr(e.Left, group, rep)
		if err != nil {
			return types.Value{}, err
		}
		r, err := evalProjExpr(e.Right, group, rep)
		if err != nil {
			return types.Value{}, err
		}
		return combineValues(e.Op, l, r)
	case *parser.UnaryOp:
		v, err := evalProjExpr(e.Expr, group, rep)
		if err != nil {
			return types.Value{}, err
		}
		if e.Op == lexer.NOT {
			return types.Bool(!v.Truthy()), nil
		}
		if v.IsNull() {
			return types.Null(), nil
		}
		if v.Kind() == types.KindFloat {
			return types.Float(-v.Float()), nil
		}
		return types.Int(-v.Int()), nil
	case *parser.IsNullExpr:
		v, err := evalProjExpr(e.Expr, group, rep)
		if err != nil {
			return types.Value{}, err
		}
		result := v.IsNull()
		if e.Negate {
			result = !result
		}
		return types.Bool(result), nil
	default:
		return evalExpr(expr, rep)
	}
}

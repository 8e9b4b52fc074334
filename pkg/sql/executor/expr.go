// pkg/sql/executor/expr.go
package executor

import (
	"fmt"
	"strings"

	"minisql/pkg/sql/lexer"
	"minisql/pkg/sql/parser"
	"minisql/pkg/types"
)

// evalExpr evaluates expr against env. FunctionCall nodes are only valid
// inside aggregate computation (see aggregate.go); encountering one here
// is an aggregate-misuse execution error.
func evalExpr(expr parser.Expression, env *envelope) (types.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil

	case *parser.ColumnRef:
		if e.Name == "*" {
			return types.Value{}, fmt.Errorf("%w: \"*\" used outside of COUNT(*)", ErrExecution)
		}
		v, ok := env.resolve(e.Table, e.Name)
		if !ok {
			if e.Table != "" {
				return types.Value{}, fmt.Errorf("%w: unknown column %q.%q", ErrExecution, e.Table, e.Name)
			}
			return types.Value{}, fmt.Errorf("%w: unknown column %q", ErrExecution, e.Name)
		}
		return v, nil

	case *parser.UnaryOp:
		v, err := evalExpr(e.Expr, env)
		if err != nil {
			return types.Value{}, err
		}
		switch e.Op {
		case lexer.NOT:
			return types.Bool(!v.Truthy()), nil
		case lexer.MINUS:
			if v.IsNull() {
				return types.Null(), nil
			}
			if v.Kind() == types.KindFloat {
				return types.Float(-v.Float()), nil
			}
			return types.Int(-v.Int()), nil
		}
		return types.Value{}, fmt.Errorf("%w: unsupported unary operator %s", ErrExecution, e.Op)

	case *parser.BinaryOp:
		return evalBinary(e, env)

	case *parser.IsNullExpr:
		v, err := evalExpr(e.Expr, env)
		if err != nil {
			return types.Value{}, err
		}
		result := v.IsNull()
		if e.Negate {
			result = !result
		}
		return types.Bool(result), nil

	case *parser.LikeExpr:
		return evalLike(e, env)

	case *parser.InExpr:
		return evalIn(e, env)

	case *parser.FunctionCall:
		return types.Value{}, fmt.Errorf("%w: aggregate function %s used outside of SELECT/HAVING context", ErrExecution, e.Name)
	}

	return types.Value{}, fmt.Errorf("%w: unsupported expression %T", ErrExecution, expr)
}

func evalBinary(e *parser.BinaryOp, env *envelope) (types.Value, error) {
	switch e.Op {
	case lexer.AND:
		l, err := evalExpr(e.Left, env)
		if err != nil {
			return types.Value{}, err
		}
		if !l.Truthy() {
			return types.Bool(false), nil
		}
		r, err := evalExpr(e.Right, env)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(r.Truthy()), nil

	case lexer.OR:
		l, err := evalExpr(e.Left, env)
		if err != nil {
			return types.Value{}, err
		}
		if l.Truthy() {
			return types.Bool(true), nil
		}
		r, err := evalExpr(e.Right, env)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(r.Truthy()), nil
	}

	l, err := evalExpr(e.Left, env)
	if err != nil {
		return types.Value{}, err
	}
	r, err := evalExpr(e.Right, env)
	if err != nil {
		return types.Value{}, err
	}

	return combineValues(e.Op, l, r)
}

// combineValues applies a non-AND/OR binary operator to two already-
// evaluated operands. AND/OR are handled by evalBinary with
// short-circuit evaluation, but combineValues still accepts them
// (evaluating both sides' truthiness) for callers, such as aggregate
// projection, that already have both operands in hand.
func combineValues(op lexer.TokenType, l, r types.Value) (types.Value, error) {
	switch op {
	case lexer.AND:
		return types.Bool(l.Truthy() && r.Truthy()), nil
	case lexer.OR:
		return types.Bool(l.Truthy() || r.Truthy()), nil
	case lexer.EQ:
		if l.IsNull() || r.IsNull() {
			return types.Bool(false), nil
		}
		return types.Bool(types.Compare(l, r) == 0), nil
	case lexer.NEQ:
		if l.IsNull() || r.IsNull() {
			return types.Bool(false), nil
		}
		return types.Bool(types.Compare(l, r) != 0), nil
	case lexer.LT:
		if l.IsNull() || r.IsNull() {
			return types.Bool(false), nil
		}
		return types.Bool(types.Compare(l, r) < 0), nil
	case lexer.GT:
		if l.IsNull() || r.IsNull() {
			return types.Bool(false), nil
		}
		return types.Bool(types.Compare(l, r) > 0), nil
	case lexer.LTE:
		if l.IsNull() || r.IsNull() {
			return types.Bool(false), nil
		}
		return types.Bool(types.Compare(l, r) <= 0), nil
	case lexer.GTE:
		if l.IsNull() || r.IsNull() {
			return types.Bool(false), nil
		}
		return types.Bool(types.Compare(l, r) >= 0), nil

	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH:
		return evalArith(op, l, r)
	}

	return types.Value{}, fmt.Errorf("%w: unsupported binary operator %s", ErrExecution, op)
}

func evalArith(op lexer.TokenType, l, r types.Value) (types.Value, error) {
	if l.IsNull() || r.IsNull() {
		return types.Null(), nil
	}

	bothInt := l.Kind() == types.KindInt && r.Kind() == types.KindInt
	lf, rf := asFloat(l), asFloat(r)

	switch op {
	case lexer.PLUS:
		if bothInt {
			return types.Int(l.Int() + r.Int()), nil
		}
		return types.Float(lf + rf), nil
	case lexer.MINUS:
		if bothInt {
			return types.Int(l.Int() - r.Int()), nil
		}
		return types.Float(lf - rf), nil
	case lexer.STAR:
		if bothInt {
			return types.Int(l.Int() * r.Int()), nil
		}
		return types.Float(lf * rf), nil
	case lexer.SLASH:
		if rf == 0 {
			return types.Null(), nil
		}
		return types.Float(lf / rf), nil
	}
	return types.Value{}, fmt.Errorf("%w: unsupported arithmetic operator %s", ErrExecution, op)
}

func asFloat(v types.Value) float64 {
	if v.Kind() == types.KindInt {
		return float64(v.Int())
	}
	return v.Float()
}

func evalLike(e *parser.LikeExpr, env *envelope) (types.Value, error) {
	v, err := evalExpr(e.Expr, env)
	if err != nil {
		return types.Value{}, err
	}
	if v.IsNull() {
		return types.Bool(false), nil
	}
	pat, err := evalExpr(e.Pattern, env)
	if err != nil {
		return types.Value{}, err
	}
	if pat.IsNull() {
		return types.Bool(false), nil
	}

	matched := likeMatch(v.String(), pat.String())
	if e.Negate {
		matched = !matched
	}
	return types.Bool(matched), nil
}

// likeMatch implements SQL LIKE semantics case-insensitively: % matches
// any run of characters, _ matches exactly one.
func likeMatch(s, pattern string) bool {
	s = strings.ToUpper(s)
	pattern = strings.ToUpper(pattern)
	return likeMatchRunes([]rune(s), []rune(pattern))
}

func likeMatchRunes(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	switch p[0] {
	case '%':
		if likeMatchRunes(s, p[1:]) {
			return true
		}
		for i := range s {
			if likeMatchRunes(s[i+1:], p[1:]) {
				return true
			}
		}
		return false
	case '_':
		if len(s) == 0 {
			return false
		}
		return likeMatchRunes(s[1:], p[1:])
	default:
		if len(s) == 0 || s[0] != p[0] {
			return false
		}
		return likeMatchRunes(s[1:], p[1:])
	}
}

func evalIn(e *parser.InExpr, env *envelope) (types.Value, error) {
	v, err := evalExpr(e.Expr, env)
	if err != nil {
		return types.Value{}, err
	}
	if v.IsNull() {
		return types.Bool(false), nil
	}

	found := false
	for _, item := range e.List {
		iv, err := evalExpr(item, env)
		if err != nil {
			return types.Value{}, err
		}
		if !iv.IsNull() && types.Compare(v, iv) == 0 {
			found = true
			break
		}
	}
	if e.Negate {
		found = !found
	}
	return types.Bool(found), nil
}

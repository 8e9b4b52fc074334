// pkg/sql/parser/parser.go
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"minisql/pkg/sql/lexer"
	"minisql/pkg/types"
)

// SyntaxError is a parse error carrying the offending token's position.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser is a recursive-descent parser with explicit precedence climbing
// for expressions.
type Parser struct {
	l    *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

// New builds a Parser over the SQL text in input.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.cur.Line, Column: p.cur.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.curIs(t) {
		return lexer.Token{}, p.errorf("expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.nextToken()
	return tok, nil
}

// Parse parses exactly one statement, consuming a trailing semicolon if
// present.
func (p *Parser) Parse() (Statement, error) {
	var (
		stmt Statement
		err  error
	)

	switch p.cur.Type {
	case lexer.SELECT:
		stmt, err = p.parseSelect()
	case lexer.INSERT:
		stmt, err = p.parseInsert()
	case lexer.UPDATE:
		stmt, err = p.parseUpdate()
	case lexer.DELETE:
		stmt, err = p.parseDelete()
	case lexer.CREATE:
		stmt, err = p.parseCreate()
	case lexer.DROP:
		stmt, err = p.parseDrop()
	case lexer.SHOW:
		stmt, err = p.parseShowTables()
	case lexer.DESCRIBE:
		stmt, err = p.parseDescribe()
	case lexer.TRUNCATE:
		stmt, err = p.parseTruncate()
	default:
		return nil, p.errorf("unexpected token %s (%q); expected a statement keyword", p.cur.Type, p.cur.Literal)
	}
	if err != nil {
		return nil, err
	}

	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt, nil
}

// ---------------------------------------------------------------- SELECT

func (p *Parser) parseSelect() (*SelectStmt, error) {
	stmt := &SelectStmt{}
	p.nextToken() // consume SELECT

	if p.curIs(lexer.DISTINCT) {
		stmt.Distinct = true
		p.nextToken()
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	stmt.Columns = items

	if p.curIs(lexer.FROM) {
		p.nextToken()
		table, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		stmt.From = &table

		for p.isJoinStart() {
			jc, err := p.parseJoinClause()
			if err != nil {
				return nil, err
			}
			stmt.Joins = append(stmt.Joins, jc)
		}
	}

	if p.curIs(lexer.WHERE) {
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.curIs(lexer.GROUP) {
		p.nextToken()
		if _, err := p.expect(lexer.BY); err != nil {
			return nil, err
		}
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, expr)
			if p.curIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}

	if p.curIs(lexer.HAVING) {
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Having = expr
	}

	if p.curIs(lexer.ORDER) {
		p.nextToken()
		if _, err := p.expect(lexer.BY); err != nil {
			return nil, err
		}
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			item := OrderItem{Expr: expr}
			if p.curIs(lexer.DESC) {
				item.Desc = true
				p.nextToken()
			} else if p.curIs(lexer.ASC) {
				p.nextToken()
			}
			stmt.OrderBy = append(stmt.OrderBy, item)
			if p.curIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}

	if p.curIs(lexer.LIMIT) {
		p.nextToken()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Limit = &n
	}

	if p.curIs(lexer.OFFSET) {
		p.nextToken()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Offset = &n
	}

	return stmt, nil
}

func (p *Parser) parseIntLiteral() (int64, error) {
	if !p.curIs(lexer.INT) {
		return 0, p.errorf("expected integer literal, got %s (%q)", p.cur.Type, p.cur.Literal)
	}
	n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		return 0, p.errorf("invalid integer literal %q", p.cur.Literal)
	}
	p.nextToken()
	return n, nil
}

var clauseStartKeywords = map[lexer.TokenType]bool{
	lexer.FROM:  true,
	lexer.WHERE: true,
	lexer.GROUP: true,
	lexer.ORDER: true,
	lexer.LIMIT: true,
	lexer.JOIN:  true,
}

func (p *Parser) parseSelectList() ([]SelectItem, error) {
	var items []SelectItem
	for {
		if p.curIs(lexer.STAR) {
			items = append(items, SelectItem{Star: true})
			p.nextToken()
		} else {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			item := SelectItem{Expr: expr}
			if p.curIs(lexer.AS) {
				p.nextToken()
				tok, err := p.expect(lexer.IDENT)
				if err != nil {
					return nil, err
				}
				item.Alias = tok.Literal
			} else if p.curIs(lexer.IDENT) && !clauseStartKeywords[p.cur.Type] {
				item.Alias = p.cur.Literal
				p.nextToken()
			}
			items = append(items, item)
		}

		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseTableRef() (TableRef, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return TableRef{}, err
	}
	ref := TableRef{Name: tok.Literal, Alias: tok.Literal}

	if p.curIs(lexer.AS) {
		p.nextToken()
		aliasTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return TableRef{}, err
		}
		ref.Alias = aliasTok.Literal
	} else if p.curIs(lexer.IDENT) {
		ref.Alias = p.cur.Literal
		p.nextToken()
	}
	return ref, nil
}

func (p *Parser) isJoinStart() bool {
	switch p.cur.Type {
	case lexer.JOIN, lexer.INNER, lexer.LEFT, lexer.RIGHT, lexer.CROSS:
		return true
	}
	return false
}

func (p *Parser) parseJoinClause() (JoinClause, error) {
	jc := JoinClause{Type: InnerJoin}

	switch p.cur.Type {
	case lexer.INNER:
		p.nextToken()
		if _, err := p.expect(lexer.JOIN); err != nil {
			return jc, err
		}
	case lexer.LEFT:
		jc.Type = LeftJoin
		p.nextToken()
		if p.curIs(lexer.OUTER) {
			p.nextToken()
		}
		if _, err := p.expect(lexer.JOIN); err != nil {
			return jc, err
		}
	case lexer.RIGHT:
		jc.Type = RightJoin
		p.nextToken()
		if p.curIs(lexer.OUTER) {
			p.nextToken()
		}
		if _, err := p.expect(lexer.JOIN); err != nil {
			return jc, err
		}
	case lexer.CROSS:
		jc.Type = CrossJoin
		p.nextToken()
		if _, err := p.expect(lexer.JOIN); err != nil {
			return jc, err
		}
	case lexer.JOIN:
		p.nextToken()
	default:
		return jc, p.errorf("expected JOIN clause, got %s", p.cur.Type)
	}

	table, err := p.parseTableRef()
	if err != nil {
		return jc, err
	}
	jc.Table = table

	if jc.Type != CrossJoin && p.curIs(lexer.ON) {
		p.nextToken()
		cond, err := p.parseExpression()
		if err != nil {
			return jc, err
		}
		jc.On = cond
	}

	return jc, nil
}

// ---------------------------------------------------------------- INSERT

func (p *Parser) parseInsert() (*InsertStmt, error) {
	stmt := &InsertStmt{}
	p.nextToken() // INSERT
	if _, err := p.expect(lexer.INTO); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = tableTok.Literal

	if p.curIs(lexer.LPAREN) {
		p.nextToken()
		for {
			colTok, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, colTok.Literal)
			if p.curIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.VALUES); err != nil {
		return nil, err
	}

	for {
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		var row []Expression
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			row = append(row, expr)
			if p.curIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		stmt.Rows = append(stmt.Rows, row)

		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	return stmt, nil
}

// ---------------------------------------------------------------- UPDATE

func (p *Parser) parseUpdate() (*UpdateStmt, error) {
	stmt := &UpdateStmt{}
	p.nextToken() // UPDATE
	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = tableTok.Literal

	if _, err := p.expect(lexer.SET); err != nil {
		return nil, err
	}

	for {
		colTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQ); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: colTok.Literal, Value: val})

		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if p.curIs(lexer.WHERE) {
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	return stmt, nil
}

// ---------------------------------------------------------------- DELETE

func (p *Parser) parseDelete() (*DeleteStmt, error) {
	stmt := &DeleteStmt{}
	p.nextToken() // DELETE
	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = tableTok.Literal

	if p.curIs(lexer.WHERE) {
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	return stmt, nil
}

// ---------------------------------------------------------------- CREATE

func (p *Parser) parseCreate() (Statement, error) {
	p.nextToken() // CREATE

	if p.curIs(lexer.TABLE) {
		return p.parseCreateTable()
	}

	unique := false
	if p.curIs(lexer.UNIQUE) {
		unique = true
		p.nextToken()
	}
	if p.curIs(lexer.INDEX) {
		return p.parseCreateIndex(unique)
	}

	return nil, p.errorf("expected TABLE or INDEX after CREATE, got %s", p.cur.Type)
}

func (p *Parser) parseCreateTable() (*CreateTableStmt, error) {
	stmt := &CreateTableStmt{}
	p.nextToken() // TABLE

	if p.curIs(lexer.IF) {
		p.nextToken()
		if _, err := p.expect(lexer.NOT); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EXISTS); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
	}

	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = tableTok.Literal

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) parseColumnDef() (ColumnDef, error) {
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return ColumnDef{}, err
	}
	col := ColumnDef{Name: nameTok.Literal}

	typeTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return ColumnDef{}, err
	}
	typeText := typeTok.Literal
	if p.curIs(lexer.LPAREN) {
		p.nextToken()
		sizeTok, err := p.expect(lexer.INT)
		if err != nil {
			return ColumnDef{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return ColumnDef{}, err
		}
		typeText = fmt.Sprintf("%s(%s)", typeText, sizeTok.Literal)
	}
	ct, err := types.ParseType(typeText)
	if err != nil {
		return ColumnDef{}, p.errorf("%s", err.Error())
	}
	col.Type = ct

	for {
		switch p.cur.Type {
		case lexer.PRIMARY:
			p.nextToken()
			if _, err := p.expect(lexer.KEY); err != nil {
				return ColumnDef{}, err
			}
			col.PrimaryKey = true
			continue
		case lexer.UNIQUE:
			p.nextToken()
			col.Unique = true
			continue
		case lexer.NOT:
			p.nextToken()
			if _, err := p.expect(lexer.NULL_KW); err != nil {
				return ColumnDef{}, err
			}
			col.NotNull = true
			continue
		case lexer.DEFAULT:
			p.nextToken()
			def, err := p.parsePrimary()
			if err != nil {
				return ColumnDef{}, err
			}
			col.Default = def
			continue
		}
		break
	}

	return col, nil
}

func (p *Parser) parseCreateIndex(unique bool) (*CreateIndexStmt, error) {
	stmt := &CreateIndexStmt{Unique: unique}
	p.nextToken() // INDEX

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Name = nameTok.Literal

	if _, err := p.expect(lexer.ON); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Table = tableTok.Literal

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	colTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Column = colTok.Literal
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return stmt, nil
}

// ------------------------------------------------------------------ DROP

func (p *Parser) parseDrop() (Statement, error) {
	p.nextToken() // DROP

	switch p.cur.Type {
	case lexer.TABLE:
		p.nextToken()
		ifExists := false
		if p.curIs(lexer.IF) {
			p.nextToken()
			if _, err := p.expect(lexer.EXISTS); err != nil {
				return nil, err
			}
			ifExists = true
		}
		tableTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &DropTableStmt{Table: tableTok.Literal, IfExists: ifExists}, nil

	case lexer.INDEX:
		p.nextToken()
		ifExists := false
		if p.curIs(lexer.IF) {
			p.nextToken()
			if _, err := p.expect(lexer.EXISTS); err != nil {
				return nil, err
			}
			ifExists = true
		}
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &DropIndexStmt{Name: nameTok.Literal, IfExists: ifExists}, nil
	}

	return nil, p.errorf("expected TABLE or INDEX after DROP, got %s", p.cur.Type)
}

// ---------------------------------------------------------- misc statements

func (p *Parser) parseShowTables() (*ShowTablesStmt, error) {
	p.nextToken() // SHOW
	if _, err := p.expect(lexer.TABLES); err != nil {
		return nil, err
	}
	return &ShowTablesStmt{}, nil
}

func (p *Parser) parseDescribe() (*DescribeStmt, error) {
	p.nextToken() // DESCRIBE
	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &DescribeStmt{Table: tableTok.Literal}, nil
}

func (p *Parser) parseTruncate() (*TruncateStmt, error) {
	p.nextToken() // TRUNCATE
	if p.curIs(lexer.TABLE) {
		p.nextToken()
	}
	tableTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &TruncateStmt{Table: tableTok.Literal}, nil
}

// ------------------------------------------------------------- expressions
//
// Precedence, lowest to highest: OR, AND, NOT, comparison, additive,
// multiplicative, unary, primary.

func (p *Parser) parseExpression() (Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.OR) {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: lexer.OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.AND) {
		p.nextToken()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: lexer.AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expression, error) {
	if p.curIs(lexer.NOT) {
		p.nextToken()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: lexer.NOT, Expr: expr}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: op, Left: left, Right: right}, nil

	case lexer.IS:
		p.nextToken()
		negate := false
		if p.curIs(lexer.NOT) {
			negate = true
			p.nextToken()
		}
		if _, err := p.expect(lexer.NULL_KW); err != nil {
			return nil, err
		}
		return &IsNullExpr{Expr: left, Negate: negate}, nil

	case lexer.NOT:
		p.nextToken()
		switch p.cur.Type {
		case lexer.BETWEEN:
			return p.parseBetween(left, true)
		case lexer.LIKE:
			return p.parseLike(left, true)
		case lexer.IN:
			return p.parseIn(left, true)
		}
		return nil, p.errorf("expected BETWEEN, LIKE or IN after NOT, got %s", p.cur.Type)

	case lexer.BETWEEN:
		return p.parseBetween(left, false)

	case lexer.LIKE:
		return p.parseLike(left, false)

	case lexer.IN:
		return p.parseIn(left, false)
	}

	return left, nil
}

func (p *Parser) parseBetween(left Expression, negate bool) (Expression, error) {
	p.nextToken() // BETWEEN
	low, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.AND); err != nil {
		return nil, err
	}
	high, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	between := &BinaryOp{
		Op:    lexer.AND,
		Left:  &BinaryOp{Op: lexer.GTE, Left: left, Right: low},
		Right: &BinaryOp{Op: lexer.LTE, Left: left, Right: high},
	}
	if negate {
		return &UnaryOp{Op: lexer.NOT, Expr: between}, nil
	}
	return between, nil
}

func (p *Parser) parseLike(left Expression, negate bool) (Expression, error) {
	p.nextToken() // LIKE
	pattern, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &LikeExpr{Expr: left, Pattern: pattern, Negate: negate}, nil
}

func (p *Parser) parseIn(left Expression, negate bool) (Expression, error) {
	p.nextToken() // IN
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var list []Expression
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &InExpr{Expr: left, List: list, Negate: negate}, nil
}

func (p *Parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH {
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expression, error) {
	if p.curIs(lexer.MINUS) {
		p.nextToken()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: lexer.MINUS, Expr: expr}, nil
	}
	return p.parsePrimary()
}

var aggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

func (p *Parser) parsePrimary() (Expression, error) {
	switch p.cur.Type {
	case lexer.LPAREN:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.INT:
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", p.cur.Literal)
		}
		p.nextToken()
		return &Literal{Value: types.Int(n)}, nil

	case lexer.FLOAT:
		f, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal %q", p.cur.Literal)
		}
		p.nextToken()
		return &Literal{Value: types.Float(f)}, nil

	case lexer.STRING:
		s := p.cur.Literal
		p.nextToken()
		return &Literal{Value: types.Text(s)}, nil

	case lexer.TRUE_KW:
		p.nextToken()
		return &Literal{Value: types.Bool(true)}, nil

	case lexer.FALSE_KW:
		p.nextToken()
		return &Literal{Value: types.Bool(false)}, nil

	case lexer.NULL_KW:
		p.nextToken()
		return &Literal{Value: types.Null()}, nil

	case lexer.STAR:
		p.nextToken()
		return &ColumnRef{Name: "*"}, nil

	case lexer.IDENT:
		return p.parseIdentOrCall()
	}

	return nil, p.errorf("unexpected token %s (%q) in expression", p.cur.Type, p.cur.Literal)
}

func (p *Parser) parseIdentOrCall() (Expression, error) {
	name := p.cur.Literal
	p.nextToken()

	if p.curIs(lexer.LPAREN) && aggregateNames[strings.ToUpper(name)] {
		return p.parseFunctionCall(strings.ToUpper(name))
	}
	if p.curIs(lexer.LPAREN) {
		return p.parseFunctionCall(name)
	}

	if p.curIs(lexer.DOT) {
		p.nextToken()
		if p.curIs(lexer.STAR) {
			p.nextToken()
			return &ColumnRef{Table: name, Name: "*"}, nil
		}
		colTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &ColumnRef{Table: name, Name: colTok.Literal}, nil
	}

	return &ColumnRef{Name: name}, nil
}

func (p *Parser) parseFunctionCall(name string) (Expression, error) {
	p.nextToken() // LPAREN
	call := &FunctionCall{Name: name}

	if p.curIs(lexer.DISTINCT) {
		call.Distinct = true
		p.nextToken()
	}

	if p.curIs(lexer.STAR) {
		call.Star = true
		p.nextToken()
	} else if !p.curIs(lexer.RPAREN) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.curIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

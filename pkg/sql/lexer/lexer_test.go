package lexer

import "testing"

func collect(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestNextToken_Basic(t *testing.T) {
	input := "SELECT id, name FROM users WHERE id = 1;"
	want := []TokenType{
		SELECT, IDENT, COMMA, IDENT, FROM, IDENT, WHERE, IDENT, EQ, INT, SEMICOLON, EOF,
	}
	toks := collect(input)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_KeywordsCaseInsensitive(t *testing.T) {
	toks := collect("select From WHERE")
	want := []TokenType{SELECT, FROM, WHERE, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	toks := collect("= != <> < > <= >=")
	want := []TokenType{EQ, NEQ, NEQ, LT, GT, LTE, GTE, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_Strings(t *testing.T) {
	toks := collect(`'it\'s' "he said \"hi\""`)
	if toks[0].Type != STRING || toks[0].Literal != "it's" {
		t.Errorf("single-quoted escaped string: got %+v", toks[0])
	}
	if toks[1].Type != STRING || toks[1].Literal != `he said "hi"` {
		t.Errorf("double-quoted escaped string: got %+v", toks[1])
	}
}

func TestNextToken_Numbers(t *testing.T) {
	toks := collect("42 3.14 .5")
	if toks[0].Type != INT || toks[0].Literal != "42" {
		t.Errorf("int: got %+v", toks[0])
	}
	if toks[1].Type != FLOAT || toks[1].Literal != "3.14" {
		t.Errorf("float: got %+v", toks[1])
	}
	if toks[2].Type != FLOAT || toks[2].Literal != ".5" {
		t.Errorf("leading-dot float: got %+v", toks[2])
	}
}

func TestNextToken_Comments(t *testing.T) {
	toks := collect("SELECT 1 -- trailing comment\nFROM /* multi\nline */ t")
	want := []TokenType{SELECT, INT, FROM, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_LineAndColumn(t *testing.T) {
	l := New("SELECT\n  id")
	first := l.NextToken()
	if first.Line != 1 {
		t.Errorf("SELECT line = %d, want 1", first.Line)
	}
	second := l.NextToken()
	if second.Line != 2 {
		t.Errorf("id line = %d, want 2", second.Line)
	}
}

func TestNextToken_UnknownCharactersSkipped(t *testing.T) {
	toks := collect("SELECT # 1")
	want := []TokenType{SELECT, INT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
}

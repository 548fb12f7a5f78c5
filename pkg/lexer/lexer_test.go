package lexer

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(NewCursor(src))
	var toks []Token
	for {
		tok := l.Advance()
		toks = append(toks, tok)
		if tok.Kind == Eof || tok.Kind == Illegal {
			break
		}
	}
	return toks
}

func TestLexer_Keywords(t *testing.T) {
	toks := lexAll(t, "ScriptName Function EndFunction")
	want := []TokenKind{ScriptName, Function, EndFunction, Eof}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexer_KeywordsCaseInsensitive(t *testing.T) {
	toks := lexAll(t, "SCRIPTNAME scriptname ScRiPtNaMe")
	for i, tok := range toks[:3] {
		if tok.Kind != ScriptName {
			t.Errorf("token %d kind = %v, want ScriptName", i, tok.Kind)
		}
	}
}

func TestLexer_Identifier(t *testing.T) {
	toks := lexAll(t, "myVar _hidden $ui")
	for i, tok := range toks[:3] {
		if tok.Kind != Name {
			t.Errorf("token %d kind = %v, want Name", i, tok.Kind)
		}
	}
	if toks[0].Val != "myVar" {
		t.Errorf("Val = %q, want myVar", toks[0].Val)
	}
}

func TestLexer_Numbers(t *testing.T) {
	cases := []struct {
		src string
		val string
	}{
		{"123", "123"},
		{"0x1F", "0x1F"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"1e-5", "1e-5"},
		{".5", ".5"},
	}
	for _, c := range cases {
		toks := lexAll(t, c.src)
		if toks[0].Kind != Num {
			t.Errorf("%q: kind = %v, want Num", c.src, toks[0].Kind)
			continue
		}
		if toks[0].Val != c.val {
			t.Errorf("%q: val = %q, want %q", c.src, toks[0].Val, c.val)
		}
	}
}

func TestLexer_NumberFollowedByIdentIsError(t *testing.T) {
	toks := lexAll(t, "123abc")
	if toks[0].Kind != Illegal {
		t.Fatalf("kind = %v, want Illegal", toks[0].Kind)
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\tc\"d"`)
	if toks[0].Kind != String {
		t.Fatalf("kind = %v, want String", toks[0].Kind)
	}
	want := "a\nb\tc\"d"
	if toks[0].Val != want {
		t.Errorf("Val = %q, want %q", toks[0].Val, want)
	}
}

func TestLexer_StringHexEscape(t *testing.T) {
	toks := lexAll(t, `"\x41"`)
	if toks[0].Kind != String || toks[0].Val != "A" {
		t.Errorf("got kind=%v val=%q, want String \"A\"", toks[0].Kind, toks[0].Val)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	toks := lexAll(t, `"abc`)
	if toks[0].Kind != Illegal {
		t.Fatalf("kind = %v, want Illegal", toks[0].Kind)
	}
}

func TestLexer_StringCannotSpanNewline(t *testing.T) {
	toks := lexAll(t, "\"abc\ndef\"")
	if toks[0].Kind != Illegal {
		t.Fatalf("kind = %v, want Illegal", toks[0].Kind)
	}
}

func TestLexer_CharLiteral(t *testing.T) {
	toks := lexAll(t, "'a'")
	if toks[0].Kind != Char || toks[0].Val != "a" {
		t.Errorf("got kind=%v val=%q, want Char \"a\"", toks[0].Kind, toks[0].Val)
	}
}

func TestLexer_Operators(t *testing.T) {
	cases := []struct {
		src  string
		kind TokenKind
	}{
		{"+", PlusMinus},
		{"-", PlusMinus},
		{"+=", Assign},
		{"-=", Assign},
		{"*", Star},
		{"**", StarStar},
		{"*=", Assign},
		{"/", Slash},
		{"/=", Assign},
		{"%", Modulo},
		{"%=", Assign},
		{"=", Assign},
		{"==", Equality},
		{"!=", Equality},
		{"!", Prefix},
		{"<", Relational},
		{"<=", Relational},
		{">", Relational},
		{">=", Relational},
		{"&&", LogicalAnd},
		{"||", LogicalOr},
		{".", Dot},
		{"(", ParenL},
		{")", ParenR},
		{"[", BracketL},
		{"]", BracketR},
		{",", Comma},
	}
	for _, c := range cases {
		toks := lexAll(t, c.src)
		if toks[0].Kind != c.kind {
			t.Errorf("%q: kind = %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestLexer_DoublePlusIsError(t *testing.T) {
	toks := lexAll(t, "++")
	if toks[0].Kind != Illegal {
		t.Fatalf("kind = %v, want Illegal", toks[0].Kind)
	}
}

func TestLexer_LineComment(t *testing.T) {
	toks := lexAll(t, "Foo ; this is a comment\nBar")
	if toks[0].Kind != Name || toks[0].Val != "Foo" {
		t.Fatalf("token 0 = %+v", toks[0])
	}
	if toks[1].Kind != Name || toks[1].Val != "Bar" {
		t.Fatalf("token 1 = %+v", toks[1])
	}
}

func TestLexer_BlockComment(t *testing.T) {
	toks := lexAll(t, "Foo ;/ block \n comment /; Bar")
	if toks[0].Val != "Foo" || toks[1].Val != "Bar" {
		t.Fatalf("got %+v, %+v", toks[0], toks[1])
	}
}

func TestLexer_UnterminatedBlockComment(t *testing.T) {
	toks := lexAll(t, "Foo ;/ never closed")
	if toks[1].Kind != Illegal {
		t.Fatalf("kind = %v, want Illegal", toks[1].Kind)
	}
}

func TestLexer_DocComment(t *testing.T) {
	toks := lexAll(t, "Foo { doc comment } Bar")
	if toks[0].Val != "Foo" || toks[1].Val != "Bar" {
		t.Fatalf("got %+v, %+v", toks[0], toks[1])
	}
}

func TestLexer_LineContinuation(t *testing.T) {
	toks := lexAll(t, "Foo \\\n Bar")
	if toks[0].Val != "Foo" || toks[1].Val != "Bar" {
		t.Fatalf("got %+v, %+v", toks[0], toks[1])
	}
	if lexHasNewlineBetween(t, "Foo \\\n Bar") {
		t.Error("line continuation must suppress the newline between tokens")
	}
}

func lexHasNewlineBetween(t *testing.T, src string) bool {
	t.Helper()
	l := NewLexer(NewCursor(src))
	l.Advance()
	l.Advance()
	return l.HasNewlineBeforeCurrent()
}

func TestLexer_DoubleLineContinuationIsError(t *testing.T) {
	toks := lexAll(t, "Foo \\\n\\\n Bar")
	if toks[1].Kind != Illegal {
		t.Fatalf("kind = %v, want Illegal", toks[1].Kind)
	}
}

func TestLexer_HasNewlineBeforeCurrent(t *testing.T) {
	l := NewLexer(NewCursor("Foo\nBar"))
	l.Advance()
	l.Advance()
	if !l.HasNewlineBeforeCurrent() {
		t.Error("expected a newline between Foo and Bar")
	}
}

func TestLexer_NoNewlineBeforeCurrentOnSameLine(t *testing.T) {
	l := NewLexer(NewCursor("Foo Bar"))
	l.Advance()
	l.Advance()
	if l.HasNewlineBeforeCurrent() {
		t.Error("did not expect a newline between Foo and Bar on one line")
	}
}

func TestLexer_Eof(t *testing.T) {
	toks := lexAll(t, "")
	if len(toks) != 1 || toks[0].Kind != Eof {
		t.Fatalf("got %+v, want single Eof", toks)
	}
}

package token

import "testing"

func TestNewSetsSpanAndLexeme(t *testing.T) {
	tok := New(PLUS, "+", 4, 5, 0)

	if tok.Kind != PLUS {
		t.Errorf("Kind = %v, want %v", tok.Kind, PLUS)
	}
	if tok.Lexeme != "+" {
		t.Errorf("Lexeme = %q, want %q", tok.Lexeme, "+")
	}
	if tok.Span.From != 4 || tok.Span.To != 5 {
		t.Errorf("Span = %+v, want From=4 To=5", tok.Span)
	}
}

func TestIsEOF(t *testing.T) {
	if !New(EOF, "", 0, 0, 0).IsEOF() {
		t.Error("IsEOF() = false for an EOF token, want true")
	}
	if New(IDENTIFIER, "x", 0, 1, 0).IsEOF() {
		t.Error("IsEOF() = true for an IDENTIFIER token, want false")
	}
}

func TestKeywordsMatchTable(t *testing.T) {
	cases := map[string]Kind{
		"fn":     FN,
		"return": RETURN,
		"if":     IF,
		"extern": EXTERN,
		"true":   TRUE,
		"false":  FALSE,
		"i32":    I32,
		"f64":    F64,
		"string": STRINGT,
	}
	for lexeme, want := range cases {
		got, ok := Keywords[lexeme]
		if !ok {
			t.Errorf("Keywords[%q] missing", lexeme)
			continue
		}
		if got != want {
			t.Errorf("Keywords[%q] = %v, want %v", lexeme, got, want)
		}
	}

	if _, ok := Keywords["notakeyword"]; ok {
		t.Error("Keywords contains an entry for a non-keyword lexeme")
	}
}

func TestTypeKeywordsSubsetOfKeywords(t *testing.T) {
	for kind := range TypeKeywords {
		found := false
		for _, k := range Keywords {
			if k == kind {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("TypeKeywords contains %v which is not in Keywords", kind)
		}
	}
}

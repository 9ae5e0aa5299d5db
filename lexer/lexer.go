// Package lexer turns Language source text into a flat, ordered sequence of
// tokens. Scanning is a pure, total, single forward pass: unrecognized bytes
// are reported to standard error and skipped rather than failing the scan.
package lexer

import (
	"fmt"
	"os"

	"github.com/jorisshh/testlang/token"
)

func isLetter(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isIdentifierPart(b byte) bool {
	return isLetter(b) || isDigit(b)
}

func isInlineWhitespace(b byte) bool {
	return b == ' ' || b == '\t'
}

// Lexer is a single-pass byte-cursor scanner over one source buffer.
type Lexer struct {
	source []byte
	i      int32 // byte cursor
	line   int32 // current 0-based line
	tokens []token.Token
	errors []error
}

// New constructs a Lexer over the given source text.
func New(source string) *Lexer {
	return &Lexer{source: []byte(source)}
}

func (lx *Lexer) finished() bool {
	return int(lx.i) >= len(lx.source)
}

func (lx *Lexer) current() byte {
	if lx.finished() {
		return 0
	}
	return lx.source[lx.i]
}

func (lx *Lexer) at(offset int32) byte {
	pos := lx.i + offset
	if int(pos) >= len(lx.source) || pos < 0 {
		return 0
	}
	return lx.source[pos]
}

func (lx *Lexer) startsWith(s string) bool {
	end := int(lx.i) + len(s)
	if end > len(lx.source) {
		return false
	}
	return string(lx.source[lx.i:end]) == s
}

func (lx *Lexer) emit(kind token.Kind, from, to int32) {
	lx.tokens = append(lx.tokens, token.New(kind, string(lx.source[from:to]), from, to, lx.line))
}

// Scan runs the full lexing pass and returns the token sequence, always
// terminated by an EOF token. Scanning itself never fails; unrecognized bytes
// produce a diagnostic on standard error and are skipped (spec.md §7.1).
func (lx *Lexer) Scan() []token.Token {
	for !lx.finished() {
		lx.step()
	}
	lx.tokens = append(lx.tokens, token.New(token.EOF, "", lx.i, lx.i, lx.line))
	return lx.tokens
}

// Errors returns every diagnostic collected during Scan: unrecognized bytes
// (also printed to standard error as they are found) and unterminated string
// literals.
func (lx *Lexer) Errors() []error {
	return lx.errors
}

func (lx *Lexer) step() {
	b := lx.current()

	switch {
	case b == '\n' || b == '\r':
		lx.i++
		lx.line++
		return
	case isInlineWhitespace(b):
		lx.i++
		return
	case lx.startsWith("//"):
		lx.lexComment()
		return
	case b == '"':
		lx.lexString()
		return
	case isLetter(b):
		lx.lexIdentifierOrKeyword()
		return
	case b == '=' || b == '!' || b == '<' || b == '>' || b == '&' || b == '^' || b == '|' ||
		b == '+' || b == '-' || b == '*' || b == '/' || b == '%':
		lx.lexOperator()
		return
	case isPunct(b):
		from := lx.i
		lx.i++
		lx.emit(punctKind(b), from, lx.i)
		return
	case isDigit(b):
		lx.lexNumber()
		return
	default:
		lx.reportUnrecognized(b)
		lx.i++
		return
	}
}

func isPunct(b byte) bool {
	switch b {
	case '.', ',', ':', '(', ')', '[', ']', '{', '}', '~':
		return true
	}
	return false
}

func punctKind(b byte) token.Kind {
	switch b {
	case '.':
		return token.DOT
	case ',':
		return token.COMMA
	case ':':
		return token.COLON
	case '(':
		return token.LPAREN
	case ')':
		return token.RPAREN
	case '[':
		return token.LBRACKET
	case ']':
		return token.RBRACKET
	case '{':
		return token.LBRACE
	case '}':
		return token.RBRACE
	case '~':
		return token.TILDE
	}
	panic("punctKind called on a non-punctuation byte")
}

// lexComment consumes step 3: `//` up to (but excluding) the next `\n`, or to
// end of file. Comments are emitted as COMMENT tokens so the parser can see
// and skip them explicitly (spec.md §4.2's "COMMENT: skip and recurse").
func (lx *Lexer) lexComment() {
	from := lx.i
	lx.i += 2
	for !lx.finished() && lx.current() != '\n' {
		lx.i++
	}
	lx.emit(token.COMMENT, from, lx.i)
}

// lexString consumes step 4: content between double quotes, no escapes.
func (lx *Lexer) lexString() {
	openLine := lx.line
	open := lx.i
	lx.i++ // opening quote
	contentStart := lx.i
	for !lx.finished() && lx.current() != '"' {
		if lx.current() == '\n' {
			lx.line++
		}
		lx.i++
	}
	if lx.finished() {
		lx.errors = append(lx.errors, fmt.Errorf("unterminated string literal starting at line %d, byte %d", openLine, open))
		return
	}
	contentEnd := lx.i
	lx.i++ // closing quote
	lx.tokens = append(lx.tokens, token.New(token.STRING, string(lx.source[contentStart:contentEnd]), contentStart, contentEnd, openLine))
}

// lexIdentifierOrKeyword implements steps 5 and 6. Keyword recognition uses a
// longest-prefix-literal match from a fixed table and does NOT require a
// following non-identifier boundary: this is a known pitfall preserved for
// compatibility (spec.md §4.1 step 5, §9) — "ifoo" lexes as `if` then `oo`.
func (lx *Lexer) lexIdentifierOrKeyword() {
	from := lx.i

	for _, kw := range sortedKeywordsByLength() {
		if lx.startsWith(kw) {
			to := lx.i + int32(len(kw))
			lx.i = to
			lx.emit(token.Keywords[kw], from, to)
			return
		}
	}

	for !lx.finished() && isIdentifierPart(lx.current()) {
		lx.i++
	}
	lexeme := string(lx.source[from:lx.i])
	if kind, ok := token.Keywords[lexeme]; ok {
		lx.emit(kind, from, lx.i)
		return
	}
	lx.emit(token.IDENTIFIER, from, lx.i)
}

var keywordsByLength []string

// sortedKeywordsByLength returns every keyword lexeme ordered longest-first so
// the greedy prefix match tries "while" before "i" would ever be considered
// (no keyword is itself a prefix of another in this table, but the ordering
// keeps step 5's "longest prefix-literal match" rule honest regardless).
func sortedKeywordsByLength() []string {
	if keywordsByLength != nil {
		return keywordsByLength
	}
	for kw := range token.Keywords {
		keywordsByLength = append(keywordsByLength, kw)
	}
	for i := 1; i < len(keywordsByLength); i++ {
		for j := i; j > 0 && len(keywordsByLength[j-1]) < len(keywordsByLength[j]); j-- {
			keywordsByLength[j], keywordsByLength[j-1] = keywordsByLength[j-1], keywordsByLength[j]
		}
	}
	return keywordsByLength
}

// lexOperator implements step 7 (two-char compound operators before
// single-char fallback) for every operator-starting byte. `/=` is not in the
// compound table: it lexes as `/` followed by `=`.
func (lx *Lexer) lexOperator() {
	from := lx.i
	two := string(lx.source[from:min32(from+2, int32(len(lx.source)))])

	compound := map[string]token.Kind{
		"==": token.EQUAL_EQUAL, "!=": token.NOT_EQUAL,
		">=": token.GREATER_EQUAL, "<=": token.LESS_EQUAL,
		"&&": token.AND_AND, "^^": token.XOR_XOR, "||": token.OR_OR,
		"<<": token.SHIFT_LEFT, ">>": token.SHIFT_RIGHT,
		"+=": token.PLUS_EQUAL, "-=": token.MINUS_EQUAL,
		"*=": token.STAR_EQUAL, "%=": token.PERCENT_EQUAL,
		"&=": token.AMP_EQUAL, "|=": token.PIPE_EQUAL, "^=": token.CARET_EQUAL,
	}
	if kind, ok := compound[two]; ok {
		lx.i += 2
		lx.emit(kind, from, lx.i)
		return
	}

	single := map[byte]token.Kind{
		'=': token.ASSIGN, '!': token.BANG, '<': token.LESS, '>': token.GREATER,
		'&': token.AMP, '^': token.CARET, '|': token.PIPE,
		'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
	}
	lx.i++
	lx.emit(single[lx.source[from]], from, lx.i)
}

// lexNumber implements step 9: maximal run of digits, optional `.` followed by
// digits, then any run of letters and digits taken as the type suffix (such
// as f32, u64, i8), classified per spec.md §4.1 step 9's rules.
func (lx *Lexer) lexNumber() {
	from := lx.i
	for !lx.finished() && isDigit(lx.current()) {
		lx.i++
	}
	hasDot := false
	if lx.current() == '.' && isDigit(lx.at(1)) {
		hasDot = true
		lx.i++
		for !lx.finished() && isDigit(lx.current()) {
			lx.i++
		}
	}
	suffixStart := lx.i
	for !lx.finished() && (isLetter(lx.current()) || isDigit(lx.current())) {
		lx.i++
	}
	suffix := string(lx.source[suffixStart:lx.i])

	lx.emit(classifyNumber(hasDot, suffix), from, lx.i)
}

// classifyNumber implements the classification table in spec.md §4.1 step 9:
// a `.` or an `f32`/`f64` suffix makes it a float (default float is FLOAT32);
// a `u64`/`i64` suffix makes it INTEGER64; anything else is INTEGER32.
// Unsigned suffixes are recognized lexically but do not change the resulting
// Kind beyond width (spec.md §9: "unsigned integer literals are lexed but
// emitted as signed").
func classifyNumber(hasDot bool, suffix string) token.Kind {
	if hasDot || suffix == "f32" {
		return token.FLOAT32
	}
	if suffix == "f64" {
		return token.FLOAT64
	}
	if suffix == "u64" || suffix == "i64" {
		return token.INTEGER64
	}
	return token.INTEGER32
}

func (lx *Lexer) reportUnrecognized(b byte) {
	err := fmt.Errorf("lexer: unrecognized character %q at line %d, byte %d", b, lx.line, lx.i)
	lx.errors = append(lx.errors, err)
	fmt.Fprintln(os.Stderr, err)
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

package parser

import (
	"strconv"
	"strings"
)

// numericSuffixes lists every type suffix the lexer recognizes (lexer.lexNumber),
// longest first so "f32" is tried before a hypothetical shorter overlap.
var numericSuffixes = []string{"f32", "f64", "u64", "u32", "u16", "u8", "i64", "i32", "i16", "i8"}

func stripNumericSuffix(lexeme string) string {
	for _, suf := range numericSuffixes {
		if strings.HasSuffix(lexeme, suf) {
			return strings.TrimSuffix(lexeme, suf)
		}
	}
	return lexeme
}

// parseInt and parseFloat strip the lexer's type-suffix letters (f32, u64,
// i16, ...) before delegating to strconv. A malformed literal — the lexer
// takes any run of letters and digits after a number as its suffix, so
// `12abc` reaches here — parses as zero rather than failing the whole
// compilation over a single constant.
func parseInt(lexeme string) int64 {
	n, _ := strconv.ParseInt(stripNumericSuffix(lexeme), 10, 64)
	return n
}

func parseFloat(lexeme string) float64 {
	f, _ := strconv.ParseFloat(stripNumericSuffix(lexeme), 64)
	return f
}

package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TokenHook rewrites the token stream before resolution. It is the extension
// point for negation or multi-word handling; the default leaves tokens as is.
type TokenHook func(tokens []Token) []Token

// NormalizeWord folds case and strips every rune that is not a letter, digit
// or combining mark. The result may be empty.
func NormalizeWord(word string) string {
	folded := cases.Fold().String(norm.NFKC.String(word))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize splits text on whitespace and normalizes each word. Words that are
// empty after normalization are dropped and never counted.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		n := NormalizeWord(f)
		if utf8.RuneCountInString(n) < 1 {
			continue
		}
		tokens = append(tokens, Token{Text: f, Normalized: n})
	}
	return tokens
}

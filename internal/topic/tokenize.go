package topic

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// minTokenRunes drops single-character fragments produced by splitting;
// they carry no topical signal and bloat the vocabulary.
const minTokenRunes = 2

// Tokenize splits text on non-alphanumeric boundaries and case-folds each
// token. Tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	folder := cases.Fold()
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := folder.String(f)
		if len([]rune(tok)) < minTokenRunes {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

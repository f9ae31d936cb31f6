package knowledge

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuestion folds a question to the key used for exact duplicate detection:
// NFKC (full-width to half-width), lower case, punctuation and symbols removed,
// whitespace collapsed.
func NormalizeQuestion(question string) string {
	return strings.Join(tokenize(norm.NFKC.String(question)), " ")
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

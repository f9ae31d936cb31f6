package calc

import (
	"regexp"
	"strings"
)

var (
	candidatePattern = regexp.MustCompile(`[\d+\-*/().\s]+`)
	operatorPattern  = regexp.MustCompile(`[+\-*/]`)
)

// FindExpressions returns the arithmetic substrings of text in order of appearance.
// A candidate is a maximal run of digits, operators, parentheses, dots, and
// whitespace that, once trimmed, is longer than two characters and contains an operator.
func FindExpressions(text string) []string {
	var exprs []string
	for _, match := range candidatePattern.FindAllString(text, -1) {
		expr := strings.TrimSpace(match)
		if len(expr) <= 2 || !operatorPattern.MatchString(expr) {
			continue
		}
		exprs = append(exprs, expr)
	}
	return exprs
}

// Solve evaluates the first expression in text that evaluates cleanly.
// ok is false when no candidate exists or every candidate fails.
func Solve(text string) (expr string, value float64, ok bool) {
	for _, candidate := range FindExpressions(text) {
		v, err := Eval(candidate)
		if err != nil {
			continue
		}
		return candidate, v, true
	}
	return "", 0, false
}

// Package calc evaluates restricted arithmetic expressions: decimal numbers,
// + - * /, unary signs, and parentheses.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrSyntax is returned for expressions that cannot be parsed.
	ErrSyntax = errors.New("invalid expression")
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// maxDepth bounds parenthesis and unary sign nesting.
const maxDepth = 256

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind  tokenKind
	value float64
	op    byte
	pos   int
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokOp, op: c, pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i})
			i++
		case isDigit(c) || c == '.':
			start := i
			dots := 0
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				if expr[i] == '.' {
					dots++
				}
				i++
			}
			literal := expr[start:i]
			if dots > 1 || literal == "." || hasLeadingZero(literal) {
				return nil, fmt.Errorf("%w: malformed number %q at %d", ErrSyntax, literal, start)
			}
			v, err := strconv.ParseFloat(literal, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed number %q at %d", ErrSyntax, literal, start)
			}
			tokens = append(tokens, token{kind: tokNumber, value: v, pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrSyntax, c, i)
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(expr)})
	return tokens, nil
}

// hasLeadingZero reports integer parts like "01". "0" and "0.5" are fine.
func hasLeadingZero(literal string) bool {
	return len(literal) > 1 && literal[0] == '0' && literal[1] != '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parser is a recursive-descent evaluator over:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
	depth  int
}

// Eval evaluates expr and returns its value.
func Eval(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 1 {
		return 0, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	p := &parser{tokens: tokens}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return 0, fmt.Errorf("%w: unexpected token at %d", ErrSyntax, tok.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result out of range", ErrSyntax)
	}
	return v, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.op != '+' && tok.op != '-') {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if tok.op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.op != '*' && tok.op != '/') {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if tok.op == '*' {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

func (p *parser) unary() (float64, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.op == '+' || tok.op == '-') {
		p.next()
		if err := p.enter(tok.pos); err != nil {
			return 0, err
		}
		defer p.leave()

		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if tok.op == '-' {
			return -v, nil
		}
		return v, nil
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return tok.value, nil
	case tokLParen:
		if err := p.enter(tok.pos); err != nil {
			return 0, err
		}
		defer p.leave()

		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, fmt.Errorf("%w: missing closing parenthesis for %d", ErrSyntax, tok.pos)
		}
		return v, nil
	case tokEOF:
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	default:
		return 0, fmt.Errorf("%w: unexpected token at %d", ErrSyntax, tok.pos)
	}
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("%w: nesting too deep at %d", ErrSyntax, pos)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// Format renders a result without exponent and with the shortest
// representation that round-trips. Integral values have no fractional part.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

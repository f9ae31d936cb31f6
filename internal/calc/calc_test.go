package calc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{name: "addition", expr: "1+2", want: 3},
		{name: "precedence", expr: "2+3*4", want: 14},
		{name: "parentheses", expr: "(2+3)*4", want: 20},
		{name: "left associative subtraction", expr: "10-4-3", want: 3},
		{name: "left associative division", expr: "100/10/5", want: 2},
		{name: "decimals", expr: "1.5*2", want: 3},
		{name: "leading dot", expr: ".5+.25", want: 0.75},
		{name: "trailing dot", expr: "3.*2", want: 6},
		{name: "unary minus", expr: "-3+5", want: 2},
		{name: "double unary", expr: "--3", want: 3},
		{name: "unary plus", expr: "+4*-2", want: -8},
		{name: "unary in parentheses", expr: "-(2+3)", want: -5},
		{name: "whitespace", expr: " 12 /\t4 ", want: 3},
		{name: "nested parentheses", expr: "((1+2)*(3+4))/7", want: 3},
		{name: "fractional result", expr: "7/2", want: 3.5},
		{name: "zero", expr: "0+1", want: 1},
		{name: "zero point", expr: "0.5*4", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{name: "empty", expr: "", wantErr: ErrSyntax},
		{name: "only whitespace", expr: "   ", wantErr: ErrSyntax},
		{name: "division by zero", expr: "1/0", wantErr: ErrDivisionByZero},
		{name: "division by zero expression", expr: "4/(2-2)", wantErr: ErrDivisionByZero},
		{name: "dangling operator", expr: "1+", wantErr: ErrSyntax},
		{name: "double operator", expr: "1*/2", wantErr: ErrSyntax},
		{name: "unbalanced open", expr: "(1+2", wantErr: ErrSyntax},
		{name: "unbalanced close", expr: "1+2)", wantErr: ErrSyntax},
		{name: "empty parentheses", expr: "()", wantErr: ErrSyntax},
		{name: "two dots", expr: "1.2.3+1", wantErr: ErrSyntax},
		{name: "lone dot", expr: ".+1", wantErr: ErrSyntax},
		{name: "leading zero", expr: "01+1", wantErr: ErrSyntax},
		{name: "leading zero decimal", expr: "00.5+1", wantErr: ErrSyntax},
		{name: "adjacent numbers", expr: "1 2", wantErr: ErrSyntax},
		{name: "identifier", expr: "abs(1)", wantErr: ErrSyntax},
		{name: "power operator", expr: "2**3", wantErr: ErrSyntax},
		{name: "too deep", expr: strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300), wantErr: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.expr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormat(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		v    float64
		want string
	}{
		{v: 3, want: "3"},
		{v: 3.5, want: "3.5"},
		{v: -8, want: "-8"},
		{v: a + b, want: "0.30000000000000004"},
		{v: 1e21, want: "1000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.v))
		})
	}
}

func TestFormat_NegativeZero(t *testing.T) {
	v, err := Eval("-0*5")
	require.NoError(t, err)
	assert.Equal(t, "0", Format(v))
}

package interp

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/Knetic/govaluate"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEval(t *testing.T) {
	vars := NewVariables()
	_ = vars.Declare("x", "4", NumberValue(4))
	_ = vars.Declare("flag", "true", BoolValue(true))
	vars.Bind("i", 2)

	tests := []struct {
		name string
		expr string
		want float64
	}{
		{name: "literal", expr: "42", want: 42},
		{name: "float literal", expr: "2.5", want: 2.5},
		{name: "multiplication before addition", expr: "2+3*4", want: 14},
		{name: "integer division", expr: "10:3", want: 3},
		{name: "integer division floors", expr: "7.5:2", want: 3},
		{name: "remainder", expr: "10%3", want: 1},
		{name: "parentheses", expr: "(2+3)*4", want: 20},
		{name: "nested parentheses", expr: "((2))*(1+(2*3))", want: 14},
		{name: "left to right subtraction", expr: "10-3-2", want: 5},
		{name: "chained multiplication", expr: "2*3*4", want: 24},
		{name: "chained division", expr: "8/2/2", want: 2},
		{name: "all multiplication before division", expr: "2*3/4*2", want: 0.75},
		{name: "division before integer division", expr: "9:2/2", want: 9},
		{name: "whitespace is ignored", expr: " 1 +\t2 ", want: 3},
		{name: "variable", expr: "x*2", want: 8},
		{name: "loop variable", expr: "i+1", want: 3},
		{name: "boolean variable", expr: "flag+1", want: 2},
		{name: "leading minus", expr: "-5", want: -5},
		{name: "leading minus then product", expr: "-2*3", want: -6},
		{name: "leading plus", expr: "+5", want: 5},
		{name: "negated group", expr: "-(2+3)", want: -5},
		{name: "negative inside group", expr: "5*(-2)", want: -10},
		{name: "exponent literal", expr: "1e3", want: 1000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var reported []error
			e := NewEvaluator(vars, func(err error) { reported = append(reported, err) })

			got := e.Eval(tc.expr)
			if got != tc.want {
				t.Errorf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
			}
			if len(reported) != 0 {
				t.Errorf("Eval(%q) reported %v, want nothing", tc.expr, reported)
			}
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	e := NewEvaluator(NewVariables(), nil)
	if got := e.Eval("1/0"); !math.IsInf(got, 1) {
		t.Errorf("Eval(1/0) = %v, want +Inf", got)
	}
	if got := e.Eval("1%0"); !math.IsNaN(got) {
		t.Errorf("Eval(1%%0) = %v, want NaN", got)
	}
}

func TestEvalOutOfRangeLiterals(t *testing.T) {
	tests := []struct {
		expr string
		sign int
	}{
		{"1e400", 1},
		{"-1e400", -1},
		{"2*1e400", 1},
	}

	for _, tc := range tests {
		var reported []error
		e := NewEvaluator(NewVariables(), func(err error) { reported = append(reported, err) })
		if got := e.Eval(tc.expr); !math.IsInf(got, tc.sign) {
			t.Errorf("Eval(%q) = %v, want Inf with sign %d", tc.expr, got, tc.sign)
		}
		if len(reported) != 0 {
			t.Errorf("Eval(%q) reported %v, want nothing", tc.expr, reported)
		}
	}
}

func TestEvalFailsSoft(t *testing.T) {
	tests := []struct {
		name         string
		expr         string
		wantReported int
	}{
		{name: "unknown variable", expr: "nope+1", wantReported: 1},
		{name: "garbage literal", expr: "3abc", wantReported: 1},
		{name: "empty expression", expr: "", wantReported: 1},
		{name: "missing closing paren", expr: "(1+2", wantReported: 1},
		{name: "stray closing paren", expr: "2)", wantReported: 1},
		{name: "NaN poisons the product", expr: "2*nope+1", wantReported: 1},
		{name: "two bad tokens", expr: "a+b", wantReported: 2},
		{name: "sign after operator is not unary", expr: "3*-2", wantReported: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var reported []error
			e := NewEvaluator(NewVariables(), func(err error) { reported = append(reported, err) })

			got := e.Eval(tc.expr)
			if !math.IsNaN(got) {
				t.Errorf("Eval(%q) = %v, want NaN", tc.expr, got)
			}
			if len(reported) != tc.wantReported {
				t.Fatalf("Eval(%q) reported %d errors, want %d: %v", tc.expr, len(reported), tc.wantReported, reported)
			}
			for _, err := range reported {
				if !errors.Is(err, ErrEval) {
					t.Errorf("reported %v, want ErrEval", err)
				}
			}
		})
	}
}

// Without '/', ':' and '%' the tiered scheme agrees with conventional
// precedence, so a general-purpose evaluator serves as an oracle.
func TestEvalMatchesConventionalPrecedence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	operators := []string{"+", "-", "*"}

	properties.Property("+, - and * agree with govaluate", prop.ForAll(
		func(first int, rest []int, opIdx []int) bool {
			var b strings.Builder
			b.WriteString(strconv.Itoa(first))
			for i, n := range rest {
				op := "+"
				if i < len(opIdx) {
					op = operators[opIdx[i]]
				}
				b.WriteString(op)
				b.WriteString(strconv.Itoa(n))
			}
			expr := b.String()

			oracle, err := govaluate.NewEvaluableExpression(expr)
			if err != nil {
				return false
			}
			want, err := oracle.Evaluate(nil)
			if err != nil {
				return false
			}

			got := NewEvaluator(NewVariables(), nil).Eval(expr)
			return got == want.(float64)
		},
		gen.IntRange(0, 99),
		gen.SliceOfN(6, gen.IntRange(0, 99)),
		gen.SliceOfN(6, gen.IntRange(0, len(operators)-1)),
	))

	properties.TestingRun(t)
}

func TestTokenize(t *testing.T) {
	operands, ops := tokenize("15+9*(6+5)-x")

	var texts []string
	for _, o := range operands {
		texts = append(texts, o.text)
	}
	if got, want := strings.Join(texts, "|"), "15|9|(6+5)|x"; got != want {
		t.Errorf("operands = %q, want %q", got, want)
	}
	if got, want := string(ops), "+*-"; got != want {
		t.Errorf("operators = %q, want %q", got, want)
	}
}

package interp

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Operator tiers, collapsed one after another before the additive fold.
// Every '*' is resolved before any '/', every '/' before any ':', and so on.
var tiers = []byte{'*', '/', ':', '%'}

// operand is one token of an expression. Once resolved it carries a number
// and its text is no longer consulted.
type operand struct {
	text     string
	value    float64
	resolved bool
}

// Evaluator computes arithmetic expressions against a variable store.
// It never fails hard: a token it cannot resolve evaluates to NaN and is
// reported, and the NaN propagates through the surrounding arithmetic.
type Evaluator struct {
	vars   *Variables
	report func(error)
}

// NewEvaluator creates an Evaluator. report receives one *Error per
// unresolvable token; it may be nil.
func NewEvaluator(vars *Variables, report func(error)) *Evaluator {
	if report == nil {
		report = func(error) {}
	}
	return &Evaluator{vars: vars, report: report}
}

// Eval evaluates expr.
func (e *Evaluator) Eval(expr string) float64 {
	operands, ops := tokenize(stripSpace(expr))

	for _, tier := range tiers {
		operands, ops = e.collapse(operands, ops, tier)
	}

	var result float64
	first := &operands[0]
	if !first.resolved && first.text == "" && len(ops) > 0 && (ops[0] == '+' || ops[0] == '-') {
		// Leading sign: "-5" reads as "0-5".
		result = 0
	} else {
		result = e.resolve(first)
	}

	for i, op := range ops {
		v := e.resolve(&operands[i+1])
		switch op {
		case '+':
			result += v
		case '-':
			result -= v
		}
	}
	return result
}

// collapse applies every operator of one tier left to right. Each result
// replaces the right-hand operand so chains like 2*3*4 fold in order.
func (e *Evaluator) collapse(operands []operand, ops []byte, tier byte) ([]operand, []byte) {
	if !slices.Contains(ops, tier) {
		return operands, ops
	}

	removed := make([]bool, len(ops))
	for i, op := range ops {
		if op != tier {
			continue
		}
		a := e.resolve(&operands[i])
		b := e.resolve(&operands[i+1])
		operands[i+1] = operand{value: apply(tier, a, b), resolved: true}
		removed[i] = true
	}

	keptOperands := make([]operand, 0, len(operands))
	keptOps := make([]byte, 0, len(ops))
	for i := range ops {
		if !removed[i] {
			keptOperands = append(keptOperands, operands[i])
			keptOps = append(keptOps, ops[i])
		}
	}
	keptOperands = append(keptOperands, operands[len(operands)-1])
	return keptOperands, keptOps
}

func apply(op byte, a, b float64) float64 {
	switch op {
	case '*':
		return a * b
	case '/':
		return a / b
	case ':':
		return math.Floor(a / b)
	case '%':
		return math.Mod(a, b)
	}
	return math.NaN()
}

// resolve turns an operand into a number: a bracketed sub-expression, a
// variable or a literal.
func (e *Evaluator) resolve(op *operand) float64 {
	if op.resolved {
		return op.value
	}

	text := op.text
	var v float64
	switch {
	case strings.ContainsAny(text, "()"):
		open := strings.IndexByte(text, '(')
		if open < 0 {
			v = e.fail(text, "unmatched \")\"")
			break
		}
		inner := text[open+1:]
		closing := strings.LastIndexByte(inner, ')')
		if closing < 0 {
			v = e.fail(text, "missing \")\"")
			break
		}
		v = e.Eval(inner[:closing])
	default:
		if variable, ok := e.vars.Lookup(text); ok {
			v = variable.Value.Float()
			break
		}
		// Literals beyond float64 range parse to ±Inf with ErrRange and
		// are kept as such.
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			v = e.fail(text, "not a number or known variable")
			break
		}
		v = f
	}

	op.value = v
	op.resolved = true
	return v
}

func (e *Evaluator) fail(token, reason string) float64 {
	e.report(newError(ErrEval, "", "cannot evaluate %q: %s", token, reason))
	return math.NaN()
}

// tokenize splits src on operators found outside parentheses. There is
// always one more operand than operators.
func tokenize(src string) ([]operand, []byte) {
	var (
		operands []operand
		ops      []byte
		current  strings.Builder
		depth    int
	)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case depth == 0 && isOperator(c):
			operands = append(operands, operand{text: current.String()})
			ops = append(ops, c)
			current.Reset()
		case c == '(':
			depth++
			current.WriteByte(c)
		case c == ')':
			depth--
			current.WriteByte(c)
		default:
			current.WriteByte(c)
		}
	}
	operands = append(operands, operand{text: current.String()})
	return operands, ops
}

func isOperator(c byte) bool {
	return strings.IndexByte("+-*/:%", c) >= 0
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

package interp

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
)

// maxLoopBound keeps loop bounds within the range where float64 holds every
// integer exactly.
const maxLoopBound = 1 << 53

// repeat runs the block once per integer in [from, to), rebinding the loop
// variable before each pass. The variable is left bound after the loop.
func (in *Interpreter) repeat(ctx context.Context, st Statement, depth int) error {
	if !st.HasBlock {
		return newError(ErrParse, st.Source, "repeat: missing block")
	}
	name := st.Args[0]
	if !IsIdentifier(name) {
		return newError(ErrParse, st.Source, "repeat: invalid loop variable %q", name)
	}

	from, err := in.loopBound(st, "from", st.Args[1])
	if err != nil {
		return err
	}
	to, err := in.loopBound(st, "to", st.Args[2])
	if err != nil {
		return err
	}
	if from > to {
		return newError(ErrRange, st.Source, "repeat: start %d is greater than end %d", from, to)
	}
	if from == to {
		return nil
	}

	if in.config.MaxDepth > 0 && depth+1 > in.config.MaxDepth {
		return newError(ErrResourceExhausted, st.Source, "repeat: blocks nested deeper than %d", in.config.MaxDepth)
	}

	in.log.WithFields(logrus.Fields{
		"var":   name,
		"from":  from,
		"to":    to,
		"depth": depth + 1,
	}).Debug("entering repeat")

	for i := from; i < to; i++ {
		if err := ctx.Err(); err != nil {
			return &Error{Kind: ErrCancelled, Statement: st.Source, Msg: "execution cancelled", Err: err}
		}
		in.iterations++
		if in.config.MaxIterations > 0 && in.iterations > in.config.MaxIterations {
			return newError(ErrResourceExhausted, st.Source, "repeat: more than %d iterations in one run", in.config.MaxIterations)
		}

		in.vars.Bind(name, i)
		if err := in.runProgram(ctx, st.Block, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// loopBound evaluates a repeat bound, which must be a finite integer.
func (in *Interpreter) loopBound(st Statement, which, expr string) (int, error) {
	v := in.eval.Eval(expr)
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > maxLoopBound {
		return 0, newError(ErrRange, st.Source, "repeat: %s bound %s is not an integer", which, formatNumber(v))
	}
	return int(v), nil
}

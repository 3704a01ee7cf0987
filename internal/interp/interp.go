// Package interp implements the turtle command language: statement
// chaining, parsing, arithmetic evaluation, command dispatch and bounded
// repeat loops.
//
// Errors are contained per statement. A failing statement appends one line
// to the turtle's diagnostic log and execution moves on to the next one.
// Only an exhausted resource budget or a cancelled context ends a run early.
package interp

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/itsmostafa/goturtle/internal/turtle"
)

// Config holds the execution limits of an Interpreter.
type Config struct {
	// MaxDepth is the maximum nesting depth of repeat blocks (0 = unlimited)
	MaxDepth int

	// MaxIterations is the total number of repeat iterations allowed in one
	// Run, across all loops (0 = unlimited)
	MaxIterations int

	// Logger receives operator-facing trace output. Nil discards it.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:      32,
		MaxIterations: 100000,
	}
}

// Interpreter runs programs against one turtle and one variable store.
// It is not safe for concurrent use; see the session package for that.
type Interpreter struct {
	turtle *turtle.Turtle
	vars   *Variables
	eval   *Evaluator
	config Config
	log    logrus.FieldLogger

	iterations int
}

// New creates an Interpreter that mutates t and vars.
func New(t *turtle.Turtle, vars *Variables, config Config) *Interpreter {
	log := config.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	in := &Interpreter{
		turtle: t,
		vars:   vars,
		config: config,
		log:    log,
	}
	in.eval = NewEvaluator(vars, in.report)
	return in
}

// Turtle returns the turtle the interpreter drives.
func (in *Interpreter) Turtle() *turtle.Turtle {
	return in.turtle
}

// Variables returns the variable store.
func (in *Interpreter) Variables() *Variables {
	return in.vars
}

// Eval evaluates a single expression against the current variables.
func (in *Interpreter) Eval(expr string) float64 {
	return in.eval.Eval(expr)
}

// Run executes a program. Statement-level failures are logged to the
// turtle's history and do not stop the run. The returned error is non-nil
// only when the run was cut short by ErrResourceExhausted or ErrCancelled;
// that error has also been logged.
func (in *Interpreter) Run(ctx context.Context, src string) error {
	in.iterations = 0
	if err := in.runProgram(ctx, src, 0); err != nil {
		in.report(err)
		in.log.WithError(err).Warn("run aborted")
		return err
	}
	return nil
}

// runProgram chains src and executes each statement. It returns only fatal
// errors.
func (in *Interpreter) runProgram(ctx context.Context, src string, depth int) error {
	stmts, dropped := Chain(src)
	if dropped != "" {
		in.log.WithError(newError(ErrLex, dropped, "unbalanced braces")).
			WithField("depth", depth).
			Warn("dropping unterminated block")
	}

	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return &Error{Kind: ErrCancelled, Msg: "execution cancelled", Err: err}
		}
		if err := in.exec(ctx, stmt, depth); err != nil {
			if isFatal(err) {
				return err
			}
			in.report(err)
		}
	}
	return nil
}

// exec runs one statement.
func (in *Interpreter) exec(ctx context.Context, src string, depth int) error {
	st, err := Parse(src)
	if err != nil {
		return err
	}

	in.log.WithFields(logrus.Fields{
		"name":  st.Name,
		"args":  st.Args,
		"block": st.HasBlock,
		"depth": depth,
	}).Debug("executing statement")

	if st.Kind == KindAssignment {
		return in.assign(st)
	}

	cmd := LookupCommand(st.Name)
	if cmd == CmdUnknown {
		return newError(ErrUnknownCommand, st.Source, "unknown command %q, see help()", st.Name)
	}
	if st.HasBlock && cmd != CmdRepeat {
		return newError(ErrParse, st.Source, "%s does not take a block", cmd)
	}
	if len(st.Args) != cmd.Arity() {
		return newError(ErrParse, st.Source, "%s expects %d argument(s), got %d", cmd, cmd.Arity(), len(st.Args))
	}

	return in.dispatch(ctx, cmd, st, depth)
}

// dispatch applies a resolved command to the turtle.
func (in *Interpreter) dispatch(ctx context.Context, cmd Command, st Statement, depth int) error {
	t := in.turtle

	switch cmd {
	case CmdForward:
		return in.wrapTurtle(st, t.Forward(in.eval.Eval(st.Args[0])))
	case CmdRight:
		return in.wrapTurtle(st, t.RotateRight(in.eval.Eval(st.Args[0])))
	case CmdLeft:
		return in.wrapTurtle(st, t.RotateLeft(in.eval.Eval(st.Args[0])))
	case CmdPenColor:
		return in.penColor(st)
	case CmdPenWidth:
		return in.wrapTurtle(st, t.SetPenWidth(in.eval.Eval(st.Args[0])))
	case CmdPenUp:
		t.LiftPen()
	case CmdPenDown:
		t.LowerPen()
	case CmdPrint, CmdPrintRaw:
		name := st.Args[0]
		v, ok := in.vars.Lookup(name)
		if !ok {
			return newError(ErrUndefined, st.Source, "variable %q is undefined", name)
		}
		if cmd == CmdPrint {
			t.Logf("%s = %s", name, v.Value)
		} else {
			t.Logf("%s = %s", name, v.Raw)
		}
	case CmdClear:
		t.ClearHistory()
	case CmdReset:
		t.Reset()
		in.vars.Clear()
	case CmdHelp:
		t.Log(HelpText)
	case CmdRepeat:
		return in.repeat(ctx, st, depth)
	}
	return nil
}

// assign evaluates the right-hand side and stores it. The literals true and
// false produce boolean variables.
func (in *Interpreter) assign(st Statement) error {
	raw := st.Args[0]

	var value Value
	switch strings.ToLower(raw) {
	case "true":
		value = BoolValue(true)
	case "false":
		value = BoolValue(false)
	default:
		value = NumberValue(in.eval.Eval(raw))
	}

	if err := in.vars.Declare(st.Name, raw, value); err != nil {
		if e, ok := err.(*Error); ok {
			e.Statement = st.Source
		}
		return err
	}
	return nil
}

// penColor validates all four channels before touching the turtle.
func (in *Interpreter) penColor(st Statement) error {
	var channels [4]uint8
	for i, arg := range st.Args {
		v := in.eval.Eval(arg)
		if math.IsNaN(v) || v != math.Trunc(v) || v < 0 || v > 255 {
			return newError(ErrRange, st.Source, "pencolor: channel %d (%s) must be an integer between 0 and 255", i+1, formatNumber(v))
		}
		channels[i] = uint8(v)
	}
	in.turtle.SetPenColor(turtle.NewColor(channels[0], channels[1], channels[2], channels[3]))
	return nil
}

// wrapTurtle converts an error from a turtle operation into a range error.
func (in *Interpreter) wrapTurtle(st Statement, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:      ErrRange,
		Statement: st.Source,
		Msg:       fmt.Sprintf("%s: argument is not a finite number", LookupCommand(st.Name)),
		Err:       err,
	}
}

// report appends err to the diagnostic log.
func (in *Interpreter) report(err error) {
	in.turtle.Log(err.Error())
}

// Package session pairs a turtle, a variable store and an interpreter behind
// a mutex, and tracks many such sessions by ID.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/itsmostafa/goturtle/internal/config"
	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/turtle"
)

// Session is one interpreter with its own turtle and variables. It is safe
// for concurrent use; runs are serialized.
type Session struct {
	ID        string
	StartedAt time.Time

	mu          sync.Mutex
	turtle      *turtle.Turtle
	vars        *interp.Variables
	interp      *interp.Interpreter
	clearOnRun  bool
	runs        int
	lastUpdated time.Time
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	SessionID   string                     `json:"session_id"`
	Runs        int                        `json:"runs"`
	StartedAt   time.Time                  `json:"started_at"`
	LastUpdated time.Time                  `json:"last_updated"`
	Turtle      *turtle.Turtle             `json:"turtle"`
	Heading     float64                    `json:"heading_degrees"`
	Variables   map[string]interp.Variable `json:"variables"`
}

// New creates a session configured by cfg. log may be nil.
func New(cfg config.Config, log logrus.FieldLogger) *Session {
	id := uuid.New().String()
	if log != nil {
		log = log.WithField("session", id)
	}

	ic := cfg.InterpConfig()
	ic.Logger = log

	t := turtle.New(cfg.TurtleOptions())
	vars := interp.NewVariables()
	now := time.Now()
	return &Session{
		ID:          id,
		StartedAt:   now,
		turtle:      t,
		vars:        vars,
		interp:      interp.New(t, vars, ic),
		clearOnRun:  cfg.ClearVariablesOnRun,
		lastUpdated: now,
	}
}

// KeepVariables makes later runs see variables set by earlier ones,
// regardless of the configuration.
func (s *Session) KeepVariables() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearOnRun = false
}

// Run executes src. See interp.Interpreter.Run for the error contract.
func (s *Session) Run(ctx context.Context, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clearOnRun {
		s.vars.Clear()
	}
	s.runs++
	s.lastUpdated = time.Now()
	return s.interp.Run(ctx, src)
}

// Eval evaluates one expression against the session's variables. Problems
// are logged to the turtle's history like any other statement.
func (s *Session) Eval(expr string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interp.Eval(expr)
}

// HistoryMark records how far the diagnostic log had grown at one point.
type HistoryMark struct {
	epoch uint64
	n     int
}

// HistoryMark returns a mark for the current end of the diagnostic log.
func (s *Session) HistoryMark() HistoryMark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HistoryMark{epoch: s.turtle.HistoryEpoch(), n: len(s.turtle.History)}
}

// HistorySince returns the log lines written after m. If the log was
// cleared, reset or restored in the meantime, it returns the whole log.
func (s *Session) HistorySince(m HistoryMark) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.turtle.History
	if m.epoch == s.turtle.HistoryEpoch() && m.n <= len(lines) {
		lines = lines[m.n:]
	}
	return append([]string(nil), lines...)
}

// Restore loads the turtle and variables of snap into the session. The
// session keeps its own ID, run count and configured starting pen.
func (s *Session) Restore(snap *Snapshot) error {
	if snap == nil || snap.Turtle == nil {
		return errors.New("snapshot has no turtle state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turtle.Restore(snap.Turtle)
	s.vars.Restore(snap.Variables)
	s.lastUpdated = time.Now()
	return nil
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{
		SessionID:   s.ID,
		Runs:        s.runs,
		StartedAt:   s.StartedAt,
		LastUpdated: s.lastUpdated,
		Turtle:      s.turtle.Clone(),
		Heading:     s.turtle.Heading(),
		Variables:   s.vars.Snapshot(),
	}
}

// Reset returns the turtle to its starting state and drops all variables.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turtle.Reset()
	s.vars.Clear()
	s.lastUpdated = time.Now()
}

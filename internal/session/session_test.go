package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/goturtle/internal/config"
	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/turtle"
)

func TestSessionRun(t *testing.T) {
	s := New(config.Default(), nil)
	require.NotEmpty(t, s.ID)

	require.NoError(t, s.Run(context.Background(), "x=5;forward(x);print(x)"))

	snap := s.Snapshot()
	assert.Equal(t, s.ID, snap.SessionID)
	assert.Equal(t, 1, snap.Runs)
	assert.Equal(t, turtle.NewPoint(0, -5), snap.Turtle.Position)
	assert.Equal(t, []string{"x = 5"}, snap.Turtle.History)
	assert.Contains(t, snap.Variables, "x")
}

func TestSessionUsesConfiguredStart(t *testing.T) {
	cfg := config.Default()
	cfg.Start = config.Start{X: 100, Y: 50}
	cfg.Pen = config.Pen{Color: []int{255, 0, 0, 255}, Width: 4}

	s := New(cfg, nil)
	require.NoError(t, s.Run(context.Background(), "forward(10);reset()"))

	snap := s.Snapshot()
	assert.Equal(t, turtle.NewPoint(100, 50), snap.Turtle.Position)
	assert.Equal(t, turtle.NewColor(255, 0, 0, 255), snap.Turtle.PenColor)
	assert.Equal(t, float32(4), snap.Turtle.PenWidth)
}

func TestSessionVariablesBetweenRuns(t *testing.T) {
	tests := []struct {
		name        string
		clearOnRun  bool
		keep        bool
		wantDefined bool
	}{
		{name: "cleared when configured", clearOnRun: true},
		{name: "kept when configured", wantDefined: true},
		{name: "KeepVariables overrides config", clearOnRun: true, keep: true, wantDefined: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.ClearVariablesOnRun = tc.clearOnRun
			s := New(cfg, nil)
			if tc.keep {
				s.KeepVariables()
			}

			require.NoError(t, s.Run(context.Background(), "x=3"))
			require.NoError(t, s.Run(context.Background(), "print(x)"))

			history := s.Snapshot().Turtle.History
			require.Len(t, history, 1)
			if tc.wantDefined {
				assert.Equal(t, "x = 3", history[0])
			} else {
				assert.Contains(t, history[0], "undefined")
			}
		})
	}
}

func TestSessionRunReturnsFatalErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxIterations = 3
	s := New(cfg, nil)

	err := s.Run(context.Background(), "repeat(i,0,10){forward(1)}")
	assert.ErrorIs(t, err, interp.ErrResourceExhausted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Run(ctx, "forward(1)")
	assert.ErrorIs(t, err, interp.ErrCancelled)
}

func TestSessionSnapshotIsIndependent(t *testing.T) {
	s := New(config.Default(), nil)
	require.NoError(t, s.Run(context.Background(), "forward(1)"))

	snap := s.Snapshot()
	require.NoError(t, s.Run(context.Background(), "forward(1);y=2"))

	assert.Len(t, snap.Turtle.Path[0], 2)
	assert.NotContains(t, snap.Variables, "y")
}

func TestSessionHistorySince(t *testing.T) {
	s := New(config.Default(), nil)
	require.NoError(t, s.Run(context.Background(), "a=1;print(a)"))
	mark := s.HistoryMark()
	require.NoError(t, s.Run(context.Background(), "a=2;print(a)"))

	assert.Equal(t, []string{"a = 2"}, s.HistorySince(mark))

	require.NoError(t, s.Run(context.Background(), "clear()"))
	assert.Empty(t, s.HistorySince(mark))
}

func TestSessionHistorySinceClearThenLongerLog(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "clear", src: "clear();print(a);print(a);print(a)"},
		{name: "reset", src: "reset();a=7;print(a);print(a);print(a)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(config.Default(), nil)
			s.KeepVariables()
			require.NoError(t, s.Run(context.Background(), "a=1;print(a);print(a)"))

			mark := s.HistoryMark()
			require.NoError(t, s.Run(context.Background(), tc.src))

			got := s.HistorySince(mark)
			assert.Len(t, got, 3)
			assert.Equal(t, s.Snapshot().Turtle.History, got)
		})
	}
}

func TestSessionRestore(t *testing.T) {
	saved := New(config.Default(), nil)
	require.NoError(t, saved.Run(context.Background(), "right(90);forward(3);side=4;repeat(i,0,2){print(i)}"))

	store := NewStore(t.TempDir())
	_, err := store.Save(saved.Snapshot())
	require.NoError(t, err)
	snap, err := store.Load(saved.ID)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Start = config.Start{X: 10, Y: 10}
	cfg.Pen = config.Pen{Color: []int{255, 0, 0, 255}, Width: 3}
	s := New(cfg, nil)
	s.KeepVariables()
	mark := s.HistoryMark()
	require.NoError(t, s.Restore(snap))

	got := s.Snapshot()
	assert.NotEqual(t, saved.ID, got.SessionID)
	assert.Equal(t, snap.Turtle.Position, got.Turtle.Position)
	assert.InDelta(t, 270, got.Heading, 1e-3)
	assert.Equal(t, snap.Turtle.History, s.HistorySince(mark))
	assert.Equal(t, 16.0, s.Eval("side*side"))

	require.NoError(t, s.Run(context.Background(), "i=5"))
	assert.Contains(t, s.Snapshot().Turtle.History[2], "cannot be changed")

	require.NoError(t, s.Run(context.Background(), "reset()"))
	got = s.Snapshot()
	assert.Equal(t, turtle.NewPoint(10, 10), got.Turtle.Position)
	assert.Equal(t, turtle.NewColor(255, 0, 0, 255), got.Turtle.PenColor)
	assert.Equal(t, float32(3), got.Turtle.PenWidth)
}

func TestSessionRestoreRejectsEmptySnapshot(t *testing.T) {
	s := New(config.Default(), nil)
	assert.Error(t, s.Restore(&Snapshot{}))
	assert.Error(t, s.Restore(nil))
}

func TestSessionReset(t *testing.T) {
	s := New(config.Default(), nil)
	require.NoError(t, s.Run(context.Background(), "x=1;forward(5);pencolor(1,2,3,4)"))

	s.Reset()
	snap := s.Snapshot()
	assert.Equal(t, turtle.Point{}, snap.Turtle.Position)
	assert.Equal(t, 1, snap.Turtle.Segments())
	assert.Empty(t, snap.Variables)
}

func TestSessionEval(t *testing.T) {
	s := New(config.Default(), nil)
	require.NoError(t, s.Run(context.Background(), "side=4"))
	assert.Equal(t, 16.0, s.Eval("side*side"))
}

func TestSessionConcurrentRuns(t *testing.T) {
	s := New(config.Default(), nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Run(context.Background(), "repeat(i,0,10){forward(1)}"))
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 8, snap.Runs)
	assert.Equal(t, float32(-80), snap.Turtle.Position.Y)
	assert.Equal(t, 160, snap.Turtle.Points())
}

func TestManager(t *testing.T) {
	m := NewManager(config.Default(), nil)

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, m.Run(context.Background(), b.ID, "forward(3)"))
	assert.Equal(t, turtle.Point{}, a.Snapshot().Turtle.Position)
	assert.Equal(t, turtle.NewPoint(0, -3), b.Snapshot().Turtle.Position)

	m.Remove(a.ID)
	assert.Equal(t, 1, m.Len())
	_, err = m.Get(a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = m.Run(context.Background(), "missing", "forward(1)")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerConcurrentSessions(t *testing.T) {
	m := NewManager(config.Default(), nil)

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Create()
			ids[i] = s.ID
			assert.NoError(t, s.Run(context.Background(), fmt.Sprintf("forward(%d)", i)))
		}()
	}
	wg.Wait()

	require.Equal(t, len(ids), m.Len())
	for i, id := range ids {
		s, err := m.Get(id)
		require.NoError(t, err)
		assert.Equal(t, float32(-i), s.Snapshot().Turtle.Position.Y)
	}
}

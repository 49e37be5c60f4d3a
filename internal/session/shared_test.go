package session

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/eotj/internal/clock"
	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
	"git.lost.host/meutraa/eotj/internal/score"
)

const ms = time.Millisecond

func newShared(src clock.Source, notes ...*game.Note) *Shared {
	scorer := &score.DefaultScorer{
		Tolerance: 150 * ms,
		Tiers:     []string{"Exact", "Ridiculous", "Marvelous", "Great", "Good", "Okay", "Miss"},
	}
	clk := clock.New(src, 0, 0, 1)
	return New(&game.Chart{Notes: notes}, scorer, clk, log.New(io.Discard))
}

func TestTickJudgesAndSweeps(t *testing.T) {
	src := clock.NewMock(time.Unix(0, 0))
	up := &game.Note{Direction: game.Up, Time: 1000 * ms, TimeEnd: game.NoEnd}
	down := &game.Note{Direction: game.Down, Time: 1000 * ms, TimeEnd: game.NoEnd}
	s := newShared(src, up, down)

	src.Advance(950 * ms)
	s.Do(func(st *RunState) {
		st.Edges.Set(game.Up, input.Press)
	})
	require.True(t, s.Tick())

	s.Do(func(st *RunState) {
		assert.Equal(t, 950*ms, st.Time)
		assert.True(t, up.Hit)
		assert.Equal(t, 50*ms, st.Score)
		require.Len(t, st.Messages, 1)
		assert.Equal(t, "Marvelous", st.Messages[0].Name)
		assert.Equal(t, []input.Timed{{Edge: input.Edge{Direction: game.Up, Kind: input.Press}, At: 950 * ms}}, st.Inputs)
		assert.False(t, st.Edges.Pending(), "edges are consumed")
	})

	src.Advance(201 * ms)
	require.True(t, s.Tick())
	s.Do(func(st *RunState) {
		assert.True(t, down.Hit)
		assert.Equal(t, 200*ms, st.Score)
		assert.Equal(t, []time.Duration{50 * ms, -150 * ms}, st.Errors)
		assert.Len(t, st.Judgements, 2)
		assert.True(t, st.Finished())
	})
}

func TestPausedTickDropsEdges(t *testing.T) {
	src := clock.NewMock(time.Unix(0, 0))
	up := &game.Note{Direction: game.Up, Time: 0, TimeEnd: game.NoEnd}
	s := newShared(src, up)

	s.Do(func(st *RunState) {
		st.Paused = true
		st.Edges.Set(game.Up, input.Press)
	})
	require.True(t, s.Tick())
	s.Do(func(st *RunState) {
		assert.False(t, up.Hit)
		assert.False(t, st.Edges.Pending())
		assert.Empty(t, st.Inputs)
	})
}

func TestPruneMessages(t *testing.T) {
	st := RunState{
		Time: 1000 * ms,
		Messages: []game.Judgement{
			{At: 100 * ms},
			{At: 500 * ms},
			{At: 900 * ms},
		},
	}
	st.PruneMessages(500 * ms)
	assert.Equal(t, []game.Judgement{{At: 500 * ms}, {At: 900 * ms}}, st.Messages)
}

func TestStopEndsJudgementTask(t *testing.T) {
	s := newShared(clock.System{}, &game.Note{Direction: game.Left, Time: time.Hour, TimeEnd: game.NoEnd})
	s.Start(time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("judgement task did not stop")
	}
	assert.False(t, s.Tick())
}

func TestStopWithoutStart(t *testing.T) {
	s := newShared(clock.System{})
	s.Stop()
	s.Start(time.Millisecond)
	assert.False(t, s.Tick())
}

func TestLockIsNotHeldWhileSleeping(t *testing.T) {
	s := newShared(clock.System{})
	s.Start(time.Second)
	defer s.Stop()

	// Let the task finish its first pass and go to sleep
	time.Sleep(50 * time.Millisecond)

	acquired := make(chan struct{})
	go func() {
		s.Do(func(st *RunState) {})
		close(acquired)
	}()
	select {
	case <-acquired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("state lock held across the tick sleep")
	}
}

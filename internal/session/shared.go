// Package session owns the state of one run and the judgement task.
//
// The state is guarded by a single mutex. The judgement task takes it for one
// pass and releases it before sleeping, the presentation task takes it once
// per frame through Do.
package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
	"git.lost.host/meutraa/eotj/internal/score"
)

type Clock interface {
	GameTime() time.Duration
}

type Shared struct {
	mu    sync.Mutex
	state RunState

	scorer score.Scorer
	clock  Clock
	logger *log.Logger

	start sync.Once
	done  chan struct{}
}

// New takes ownership of chart, its notes are mutated by the run
func New(chart *game.Chart, scorer score.Scorer, clock Clock, logger *log.Logger) *Shared {
	return &Shared{
		state: RunState{
			Chart: chart,
			Notes: chart.Notes,
			Time:  clock.GameTime(),
		},
		scorer: scorer,
		clock:  clock,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Do runs f with the state locked. f must not block.
func (s *Shared) Do(f func(*RunState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.state)
}

// Tick runs one judgement pass and reports false once the run has quit
func (s *Shared) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &s.state
	if st.Quit {
		return false
	}
	st.Time = s.clock.GameTime()
	edges := st.Edges.Consume()
	if st.Paused {
		return true
	}

	for _, e := range edges {
		st.Inputs = append(st.Inputs, input.Timed{Edge: e, At: st.Time})
	}
	res := s.scorer.Judge(st.Notes, st.Time, edges)
	res.Add(s.scorer.Sweep(st.Notes, st.Time))
	for _, j := range res.Judgements {
		s.logger.Debug("judged", "lane", j.Direction, "tier", j.Name, "error", j.Error, "at", j.At)
	}
	st.Apply(res)
	return true
}

// Start runs the judgement task until Stop
func (s *Shared) Start(interval time.Duration) {
	s.start.Do(func() {
		go s.run(interval)
	})
}

func (s *Shared) run(interval time.Duration) {
	defer close(s.done)
	for s.Tick() {
		time.Sleep(interval)
	}
	s.logger.Debug("judgement task stopped")
}

// Stop sets the quit flag and waits for the judgement task, if it was started
func (s *Shared) Stop() {
	s.Do(func(st *RunState) {
		st.Quit = true
	})
	started := true
	s.start.Do(func() {
		started = false
	})
	if started {
		<-s.done
	}
}

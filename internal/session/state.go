package session

import (
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
	"git.lost.host/meutraa/eotj/internal/score"
)

// RunState is everything that changes during a run. It is only ever
// touched while holding the Shared lock.
type RunState struct {
	Chart *game.Chart
	Notes []*game.Note

	Score      time.Duration    // Cumulative absolute error, lower is better
	Messages   []game.Judgement // Recent judgements, for display
	Judgements []game.Judgement // Every judgement of the run
	Errors     []time.Duration  // Signed errors, for the histogram

	Time   time.Duration // Game time of the last tick
	Edges  input.Edges   // Set by the input poller, consumed by the judge
	Inputs []input.Timed // Every consumed edge, for replays

	Paused bool
	Quit   bool
}

func (s *RunState) Apply(r score.Result) {
	s.Score += r.Score
	s.Errors = append(s.Errors, r.Errors...)
	s.Messages = append(s.Messages, r.Judgements...)
	s.Judgements = append(s.Judgements, r.Judgements...)
}

// PruneMessages drops judgements older than ttl
func (s *RunState) PruneMessages(ttl time.Duration) {
	kept := s.Messages[:0]
	for _, m := range s.Messages {
		if s.Time-m.At <= ttl {
			kept = append(kept, m)
		}
	}
	s.Messages = kept
}

// Finished reports whether every note has been resolved
func (s *RunState) Finished() bool {
	for _, n := range s.Notes {
		if !n.Hit {
			return false
		}
	}
	return true
}

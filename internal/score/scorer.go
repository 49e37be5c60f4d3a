package score

import (
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
)

type Scorer interface {
	// Judge resolves at most one note per edge
	Judge(notes []*game.Note, now time.Duration, edges []input.Edge) Result

	// Sweep resolves every note that can no longer be hit as a miss
	Sweep(notes []*game.Note, now time.Duration) Result

	// Replay scores a copy of the chart against recorded inputs
	Replay(chart *game.Chart, inputs []input.Timed) Result

	Tier(distance time.Duration) (int, string)
}

// Result is what one pass changed, to be folded into the run
type Result struct {
	Judgements []game.Judgement
	Score      time.Duration   // Added to the cumulative error
	Errors     []time.Duration // Appended to the error history
}

func (r *Result) Add(o Result) {
	r.Judgements = append(r.Judgements, o.Judgements...)
	r.Score += o.Score
	r.Errors = append(r.Errors, o.Errors...)
}

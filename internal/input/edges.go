package input

import (
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
)

type Kind uint8

const (
	Press Kind = iota
	Release
)

func (k Kind) String() string {
	if k == Release {
		return "release"
	}
	return "press"
}

// Edge is one lane changing state
type Edge struct {
	Direction game.Direction
	Kind      Kind
}

// Timed is an edge as it was consumed, kept for replays
type Timed struct {
	Edge
	At time.Duration
}

// Edges holds at most one pending press and one pending release per lane.
// Flags are set by the input poller and cleared when the judge consumes them.
type Edges struct {
	flags [game.NKeys][2]bool
}

func (e *Edges) Set(d game.Direction, k Kind) {
	if int(d) >= game.NKeys {
		return
	}
	e.flags[d][k] = true
}

func (e *Edges) Pending() bool {
	for _, f := range e.flags {
		if f[Press] || f[Release] {
			return true
		}
	}
	return false
}

// Consume returns the set edges in lane order, a lane's press before its release,
// and clears them
func (e *Edges) Consume() []Edge {
	edges := []Edge{}
	for d := range e.flags {
		for _, k := range []Kind{Press, Release} {
			if e.flags[d][k] {
				edges = append(edges, Edge{Direction: game.Direction(d), Kind: k})
				e.flags[d][k] = false
			}
		}
	}
	return edges
}

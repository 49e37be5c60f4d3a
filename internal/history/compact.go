package history

import (
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
)

// InputsCompact is every edge of one lane, stored instead of one row per input
type InputsCompact struct {
	Direction game.Direction
	Presses   []time.Duration
	Releases  []time.Duration
}

func compactInputs(inputs []input.Timed) []InputsCompact {
	colCount := 0
	for _, i := range inputs {
		if int(i.Direction) >= colCount {
			colCount = int(i.Direction) + 1
		}
	}
	ins := make([]InputsCompact, colCount)
	for d := range ins {
		ins[d] = InputsCompact{
			Direction: game.Direction(d),
			Presses:   []time.Duration{},
			Releases:  []time.Duration{},
		}
	}
	for _, i := range inputs {
		c := &ins[i.Direction]
		if i.Kind == input.Release {
			c.Releases = append(c.Releases, i.At)
		} else {
			c.Presses = append(c.Presses, i.At)
		}
	}
	return ins
}

// uncompactInputs returns the inputs lane by lane, callers sort if they need time order
func uncompactInputs(inputs []InputsCompact) []input.Timed {
	ins := []input.Timed{}
	for _, c := range inputs {
		for _, t := range c.Presses {
			ins = append(ins, input.Timed{Edge: input.Edge{Direction: c.Direction, Kind: input.Press}, At: t})
		}
		for _, t := range c.Releases {
			ins = append(ins, input.Timed{Edge: input.Edge{Direction: c.Direction, Kind: input.Release}, At: t})
		}
	}
	return ins
}

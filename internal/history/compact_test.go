package history

import (
	"reflect"
	"testing"
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
)

func timed(d game.Direction, k input.Kind, at time.Duration) input.Timed {
	return input.Timed{Edge: input.Edge{Direction: d, Kind: k}, At: at}
}

var compactTests = []struct {
	inputs  []input.Timed
	compact []InputsCompact
}{
	{[]input.Timed{}, []InputsCompact{}},
	{
		[]input.Timed{timed(game.Left, input.Press, 100), timed(game.Right, input.Press, 200)},
		[]InputsCompact{
			{Direction: game.Left, Presses: []time.Duration{100}, Releases: []time.Duration{}},
			{Direction: game.Down, Presses: []time.Duration{}, Releases: []time.Duration{}},
			{Direction: game.Up, Presses: []time.Duration{}, Releases: []time.Duration{}},
			{Direction: game.Right, Presses: []time.Duration{200}, Releases: []time.Duration{}},
		},
	},
	{
		[]input.Timed{timed(game.Down, input.Press, 2), timed(game.Down, input.Press, 1), timed(game.Down, input.Release, 3)},
		[]InputsCompact{
			{Direction: game.Left, Presses: []time.Duration{}, Releases: []time.Duration{}},
			{Direction: game.Down, Presses: []time.Duration{2, 1}, Releases: []time.Duration{3}},
		},
	},
}

func TestCompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := compactInputs(test.inputs)
		if !reflect.DeepEqual(out, test.compact) {
			t.Log("out     ", out)
			t.Log("expected", test.compact)
			t.Fail()
		}
	}
}

func TestUncompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := uncompactInputs(test.compact)
		if !reflect.DeepEqual(out, test.inputs) {
			t.Log("out     ", out)
			t.Log("expected", test.inputs)
			t.Fail()
		}
	}
}

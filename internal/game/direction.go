package game

import "fmt"

// Direction is one of the four lanes, in dance-single column order
type Direction uint8

const (
	Left Direction = iota
	Down
	Up
	Right
)

// NKeys is the number of lanes of a chart
const NKeys = 4

var Directions = [NKeys]Direction{Left, Down, Up, Right}

var directionLetters = [NKeys]string{"L", "D", "U", "R"}

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Down:
		return "Down"
	case Up:
		return "Up"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Letter is the single letter used by the tsv chart format
func (d Direction) Letter() string {
	if int(d) >= NKeys {
		return "?"
	}
	return directionLetters[d]
}

func ParseLetter(s string) (Direction, error) {
	for i, l := range directionLetters {
		if l == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

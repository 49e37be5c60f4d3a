package game

import (
	"math"
	"time"
)

// NoEnd is the TimeEnd of a note that is not a hold
const NoEnd = time.Duration(math.MinInt64)

type Note struct {
	Direction Direction     // The lane
	Denom     int           // The beat length, as a denominator, 4 = 1/4 beat
	Time      time.Duration // The time the note should be hit
	TimeEnd   time.Duration // The time a hold should be released, NoEnd otherwise

	// This is state
	HitStart bool // The head of a hold has been resolved
	Hit      bool // Fully resolved, hit or missed
}

func (n *Note) IsHold() bool {
	return n.TimeEnd != NoEnd
}

// Due is the time the next unresolved part of the note should be hit
func (n *Note) Due() time.Duration {
	if n.HitStart {
		return n.TimeEnd
	}
	return n.Time
}

// Valid reports whether TimeEnd is either NoEnd or after Time
func (n *Note) Valid() bool {
	return n.TimeEnd == NoEnd || n.TimeEnd > n.Time
}

// Reset clears all judgement state
func (n *Note) Reset() {
	n.HitStart = false
	n.Hit = false
}

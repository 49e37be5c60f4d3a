package game

import (
	"time"
)

// Judgement is produced every time a note, or part of a hold, is resolved
type Judgement struct {
	Tier      int
	Name      string
	Miss      bool
	Direction Direction
	At        time.Duration // Game time the judgement was made
	Error     time.Duration // Signed, clamped, positive is early
}

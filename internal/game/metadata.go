package game

import "time"

type BPM struct {
	StartingBeat float64
	Value        float64
}

type Metadata struct {
	Title    string
	Subtitle string
	Artist   string
	Credit   string
	Music    string
	Offset   time.Duration // Start delay of the first beat, the negated #OFFSET
	BPMs     []BPM
}

package game

import (
	"sort"
	"time"
)

type Chart struct {
	Notes      []*Note
	Measures   []*Measure
	NoteCount  int64
	HoldCount  int64
	MineCount  int64
	Difficulty Difficulty
}

// Song is everything parsed from one chart file
type Song struct {
	Metadata Metadata
	Charts   []*Chart
}

// Chart returns the chart of the named difficulty
func (s *Song) Chart(name string) (*Chart, bool) {
	for _, c := range s.Charts {
		if c.Difficulty.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Length is the time of the last note, or the end of the last hold
func (c *Chart) Length() time.Duration {
	var end time.Duration
	for _, n := range c.Notes {
		t := n.Time
		if n.IsHold() {
			t = n.TimeEnd
		}
		if t > end {
			end = t
		}
	}
	return end
}

// Sorted returns a copy of the notes ordered by time, then lane
func (c *Chart) Sorted() []*Note {
	notes := make([]*Note, len(c.Notes))
	copy(notes, c.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		return notes[i].Direction < notes[j].Direction
	})
	return notes
}

// Clone deep copies the notes so a run can mutate them
func (c *Chart) Clone() *Chart {
	nn := make([]*Note, len(c.Notes))
	for i, n := range c.Notes {
		nnn := *n
		nn[i] = &nnn
	}
	return &Chart{
		Notes:      nn,
		Measures:   c.Measures,
		NoteCount:  c.NoteCount,
		HoldCount:  c.HoldCount,
		MineCount:  c.MineCount,
		Difficulty: c.Difficulty,
	}
}

package score

import (
	"sort"
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
)

type DefaultScorer struct {
	Tolerance time.Duration
	// Best to worst, the last one is the miss
	Tiers []string
	// Penalize presses that match no note
	PenalizeStray bool
	// Keep swept misses out of the error history
	ExcludeMisses bool
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

func (s *DefaultScorer) clamp(d time.Duration) time.Duration {
	if d > s.Tolerance {
		return s.Tolerance
	}
	if d < -s.Tolerance {
		return -s.Tolerance
	}
	return d
}

// Distance is positive when the input is early
func Distance(n *game.Note, hitTime time.Duration) time.Duration {
	return n.Time - hitTime
}

// ReleaseDistance is zero anywhere inside the hold
func ReleaseDistance(n *game.Note, releaseTime time.Duration) time.Duration {
	if releaseTime > n.Time && releaseTime < n.TimeEnd {
		return 0
	}
	return n.TimeEnd - releaseTime
}

func (s *DefaultScorer) miss() int {
	return len(s.Tiers) - 1
}

// Tier splits the tolerance into equal bands, one per tier except the miss
func (s *DefaultScorer) Tier(distance time.Duration) (int, string) {
	bands := len(s.Tiers) - 1
	if bands < 1 || s.Tolerance <= 0 {
		return s.miss(), s.missName()
	}
	d := abs(distance)
	if d >= s.Tolerance {
		return s.miss(), s.missName()
	}
	idx := int(d * time.Duration(bands) / s.Tolerance)
	if idx >= bands {
		idx = bands - 1
	}
	return idx, s.Tiers[idx]
}

func (s *DefaultScorer) missName() string {
	if len(s.Tiers) == 0 {
		return "Miss"
	}
	return s.Tiers[len(s.Tiers)-1]
}

func (s *DefaultScorer) missJudgement(dir game.Direction, now time.Duration) game.Judgement {
	return game.Judgement{
		Tier:      s.miss(),
		Name:      s.missName(),
		Miss:      true,
		Direction: dir,
		At:        now,
		Error:     -s.Tolerance,
	}
}

// closest finds the nearest candidate within tolerance. Equal distances go
// to the earlier note, then to chart order.
func (s *DefaultScorer) closest(notes []*game.Note, edge input.Edge, now time.Duration) (*game.Note, time.Duration) {
	var closestNote *game.Note
	var distance time.Duration
	absDistance := s.Tolerance

	for _, note := range notes {
		if note.Hit || note.Direction != edge.Direction {
			continue
		}
		var dd time.Duration
		switch edge.Kind {
		case input.Press:
			if note.HitStart {
				continue
			}
			dd = Distance(note, now)
		case input.Release:
			if !note.HitStart {
				continue
			}
			dd = ReleaseDistance(note, now)
		}
		d := abs(dd)
		if d < absDistance || (nil != closestNote && d == absDistance && note.Time < closestNote.Time) {
			distance = dd
			absDistance = d
			closestNote = note
		}
	}
	return closestNote, distance
}

func (s *DefaultScorer) Judge(notes []*game.Note, now time.Duration, edges []input.Edge) Result {
	var res Result
	for _, edge := range edges {
		note, distance := s.closest(notes, edge, now)
		if nil == note {
			if edge.Kind == input.Press && s.PenalizeStray {
				res.Score += s.Tolerance
				res.Judgements = append(res.Judgements, s.missJudgement(edge.Direction, now))
			}
			continue
		}

		if edge.Kind == input.Press && note.IsHold() {
			note.HitStart = true
		} else {
			note.Hit = true
		}

		distance = s.clamp(distance)
		idx, name := s.Tier(distance)
		res.Score += abs(distance)
		res.Errors = append(res.Errors, distance)
		res.Judgements = append(res.Judgements, game.Judgement{
			Tier:      idx,
			Name:      name,
			Direction: edge.Direction,
			At:        now,
			Error:     distance,
		})
	}
	return res
}

// Sweep takes a hold that was never started through HitStart and
// straight on to Hit, with a single miss for the whole note
func (s *DefaultScorer) Sweep(notes []*game.Note, now time.Duration) Result {
	var res Result
	for _, note := range notes {
		if note.Hit {
			continue
		}
		if note.Due()-now >= -s.Tolerance {
			continue
		}
		if note.IsHold() && !note.HitStart {
			note.HitStart = true
		}
		note.Hit = true

		res.Score += s.Tolerance
		if !s.ExcludeMisses {
			res.Errors = append(res.Errors, -s.Tolerance)
		}
		res.Judgements = append(res.Judgements, s.missJudgement(note.Direction, now))
	}
	return res
}

func (s *DefaultScorer) Replay(ch *game.Chart, inputs []input.Timed) Result {
	chart := ch.Clone()
	for _, n := range chart.Notes {
		n.Reset()
	}

	ordered := make([]input.Timed, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].At < ordered[j].At
	})

	var res Result
	for _, in := range ordered {
		res.Add(s.Sweep(chart.Notes, in.At))
		res.Add(s.Judge(chart.Notes, in.At, []input.Edge{in.Edge}))
	}

	end := chart.Length() + s.Tolerance + 1
	if len(ordered) > 0 && ordered[len(ordered)-1].At > end {
		end = ordered[len(ordered)-1].At + s.Tolerance + 1
	}
	res.Add(s.Sweep(chart.Notes, end))
	return res
}

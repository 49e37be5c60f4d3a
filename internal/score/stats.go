package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
)

type Stats struct {
	Counts []int // Per tier
	Hits   int
	Misses int
	Mean   time.Duration // Of the signed error of hits
	Stdev  time.Duration
}

// Summarize counts judgements per tier and the spread of the hit errors
func Summarize(judgements []game.Judgement, tiers int) Stats {
	stats := Stats{Counts: make([]int, tiers)}
	sumOfDistance := 0.0
	for _, j := range judgements {
		if j.Tier >= 0 && j.Tier < tiers {
			stats.Counts[j.Tier]++
		}
		if j.Miss {
			stats.Misses++
			continue
		}
		stats.Hits++
		sumOfDistance += float64(j.Error)
	}
	if stats.Hits == 0 {
		return stats
	}

	mean := sumOfDistance / float64(stats.Hits)
	stats.Mean = time.Duration(math.Round(mean))
	if stats.Hits > 1 {
		stdev := 0.0
		for _, j := range judgements {
			if j.Miss {
				continue
			}
			xi := float64(j.Error) - mean
			stdev += xi * xi
		}
		stdev /= float64(stats.Hits - 1)
		stats.Stdev = time.Duration(math.Round(math.Sqrt(stdev)))
	}
	return stats
}

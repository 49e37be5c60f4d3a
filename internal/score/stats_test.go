package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"git.lost.host/meutraa/eotj/internal/game"
)

func TestSummarize(t *testing.T) {
	judgements := []game.Judgement{
		{Tier: 0, Error: 10 * ms},
		{Tier: 1, Error: -30 * ms},
		{Tier: 0, Error: 20 * ms},
		{Tier: 6, Miss: true, Error: -150 * ms},
	}
	stats := Summarize(judgements, len(tiers))

	assert.Equal(t, []int{2, 1, 0, 0, 0, 0, 1}, stats.Counts)
	assert.Equal(t, 3, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 0*time.Millisecond, stats.Mean)
	// sqrt((100+900+400)/2) ms
	assert.InDelta(t, 26.4575, float64(stats.Stdev)/float64(time.Millisecond), 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil, 3)
	assert.Equal(t, []int{0, 0, 0}, stats.Counts)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.Stdev)
}

package render

import (
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
)

// Layout places lanes and notes on a terminal of Width by Height cells, rows and columns start at 1
type Layout struct {
	Width, Height int
	BarRow        int // rows above the bottom
	Spacing       int
	ScrollSpeed   time.Duration // game time per row
}

func (l Layout) Columns() [game.NKeys]int {
	mc := l.Width >> 1
	return [game.NKeys]int{
		mc - l.Spacing*3,
		mc - l.Spacing,
		mc + l.Spacing,
		mc + l.Spacing*3,
	}
}

func (l Layout) HitRow() int {
	return l.Height - l.BarRow
}

// Row is where something due at t is drawn at game time now, later notes are higher up
func (l Layout) Row(t, now time.Duration) int {
	return l.HitRow() - int((t-now)/l.ScrollSpeed)
}

func (l Layout) InField(row int) bool {
	return row > 0 && row < l.Height
}

// SideColumn is where the statistics start, left of the lanes
func (l Layout) SideColumn() int {
	c := l.Columns()[0] - 36
	if c < 2 {
		c = 2
	}
	return c
}

package main

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/eotj/internal/clock"
	"git.lost.host/meutraa/eotj/internal/config"
	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/histogram"
	"git.lost.host/meutraa/eotj/internal/input"
	"git.lost.host/meutraa/eotj/internal/parser"
	"git.lost.host/meutraa/eotj/internal/render"
	"git.lost.host/meutraa/eotj/internal/session"
	"git.lost.host/meutraa/eotj/internal/testdata"
	"git.lost.host/meutraa/eotj/internal/theme"
)

type cell struct {
	row, col int
}

// recorder keeps the last thing drawn in every cell
type recorder struct {
	cells       map[cell]string
	decorations int
}

func (r *recorder) Init() error { return nil }
func (r *recorder) Deinit() error { return nil }
func (r *recorder) Size() (int, int, error) { return 80, 40, nil }
func (r *recorder) RenderLoop(func(time.Time) bool) {}
func (r *recorder) Clear() { r.cells = map[cell]string{} }
func (r *recorder) Fill(row, column int, message string) {
	r.cells[cell{row, column}] = message
}
func (r *recorder) AddDecoration(col, row int, content string, frames int) {
	r.decorations++
	r.Fill(row, col, content)
}

func (r *recorder) contains(s string) bool {
	for _, v := range r.cells {
		if strings.Contains(v, s) {
			return true
		}
	}
	return false
}

func program(t *testing.T) (*Program, *recorder) {
	t.Helper()
	cfg := config.Default()
	h, err := histogram.New(cfg.Tolerance, cfg.Bins)
	require.NoError(t, err)
	r := &recorder{cells: map[cell]string{}}
	p := &Program{
		Config:    cfg,
		Logger:    log.New(io.Discard),
		Renderer:  r,
		Theme:     &theme.DefaultTheme{},
		Scorer:    newScorer(cfg),
		Histogram: h,
		layout: render.Layout{
			Width: 80, Height: 40, BarRow: cfg.BarRow, Spacing: cfg.ColumnSpacing,
			ScrollSpeed: time.Duration(cfg.ScrollSpeed) * time.Millisecond,
		},
		events: make(chan input.Event, 8),
	}
	return p, r
}

func chart(t *testing.T) *game.Chart {
	t.Helper()
	s, err := (&parser.DefaultParser{}).Parse(strings.NewReader(testdata.SM))
	require.NoError(t, err)
	return s.Charts[0]
}

func TestPressed(t *testing.T) {
	at := func(d game.Direction, k input.Kind) input.Timed {
		return input.Timed{Edge: input.Edge{Direction: d, Kind: k}}
	}
	lanes := pressed([]input.Timed{
		at(game.Left, input.Press),
		at(game.Down, input.Press),
		at(game.Down, input.Release),
		at(game.Up, input.Release),
		at(game.Up, input.Press),
	})
	assert.Equal(t, [game.NKeys]bool{true, false, true, false}, lanes)
	assert.Equal(t, [game.NKeys]bool{}, pressed(nil))
}

func TestUpdate(t *testing.T) {
	p, _ := program(t)
	mock := clock.NewMock(time.Unix(0, 0))
	p.clock = clock.New(mock, 0, 0, 1)
	st := &session.RunState{}

	p.events <- input.Event{Edge: input.Edge{Direction: game.Up, Kind: input.Press}}
	p.events <- input.Event{Pause: true}
	assert.False(t, p.update(st))
	assert.True(t, st.Paused)
	assert.True(t, p.clock.Paused())
	assert.Equal(t, []input.Edge{{Direction: game.Up, Kind: input.Press}}, st.Edges.Consume())

	p.events <- input.Event{Pause: true}
	p.events <- input.Event{Quit: true}
	assert.True(t, p.update(st))
	assert.False(t, st.Paused)
}

func TestDraw(t *testing.T) {
	p, r := program(t)
	c := chart(t)
	st := &session.RunState{Chart: c, Notes: c.Notes, Time: 400 * time.Millisecond}

	p.draw(st)
	hitRow := p.layout.HitRow()
	cols := p.layout.Columns()
	// 100ms early at 12ms per row
	assert.Contains(t, r.cells[cell{hitRow - 8, cols[game.Left]}], "⬤")
	assert.Equal(t, "-", r.cells[cell{hitRow, cols[game.Right]}])
	assert.True(t, r.contains("Total"))

	st.Judgements = []game.Judgement{{Name: "Miss", Miss: true, Tier: 6, Direction: game.Down}}
	st.Messages = st.Judgements
	st.Errors = []time.Duration{-p.Config.Tolerance}
	p.draw(st)
	assert.Equal(t, 4, r.decorations)
	assert.True(t, r.contains("Miss"))

	p.draw(st)
	assert.Equal(t, 4, r.decorations, "each judgement is decorated once")
}

func TestDrawUnsorted(t *testing.T) {
	p, r := program(t)
	s, err := (&parser.TSVParser{}).Parse(strings.NewReader("Time\tDirection\n60000\tR\n500\tL\n"))
	require.NoError(t, err)
	c := s.Charts[0]
	st := &session.RunState{Chart: c, Notes: c.Notes, Time: 400 * time.Millisecond}

	// A far off note first must not hide the ones after it
	p.draw(st)
	assert.Contains(t, r.cells[cell{p.layout.HitRow() - 8, p.layout.Columns()[game.Left]}], "⬤")
}

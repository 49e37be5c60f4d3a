package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"git.lost.host/meutraa/eotj/internal/audio"
	"git.lost.host/meutraa/eotj/internal/clock"
	"git.lost.host/meutraa/eotj/internal/config"
	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/histogram"
	"git.lost.host/meutraa/eotj/internal/input"
	"git.lost.host/meutraa/eotj/internal/render"
	"git.lost.host/meutraa/eotj/internal/score"
	"git.lost.host/meutraa/eotj/internal/session"
	"git.lost.host/meutraa/eotj/internal/theme"
)

const histogramHeight = 8

type Program struct {
	Config    *config.Config
	Logger    *log.Logger
	Renderer  render.Renderer
	Theme     theme.Theme
	Scorer    *score.DefaultScorer
	Histogram *histogram.Histogram

	layout  render.Layout
	clock   *clock.Clock
	player  *audio.Player
	events  chan input.Event
	closers []func() error

	// Judgements already decorated
	seen int
}

// Outcome is what is left of a run once it is over
type Outcome struct {
	Judgements []game.Judgement
	Inputs     []input.Timed
	Errors     []time.Duration
	Score      time.Duration
	Stats      score.Stats
	Quit       bool
}

func (p *Program) Init(player *audio.Player) error {
	cols, rows, err := p.Renderer.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	p.layout = render.Layout{
		Width:       cols,
		Height:      rows,
		BarRow:      p.Config.BarRow,
		Spacing:     p.Config.ColumnSpacing,
		ScrollSpeed: time.Duration(p.Config.ScrollSpeed) * time.Millisecond,
	}
	p.player = player
	p.events = make(chan input.Event, 128)

	keys := []rune(p.Config.Keys)
	if p.Config.Device != "" {
		// Lanes come from the device, the terminal is only for escape and pause
		keys = nil
		closeDevice, err := input.ReadDevice(p.Config.Device, input.DefaultCodes, p.events, p.Logger)
		if nil != err {
			return fmt.Errorf("unable to open %s: %w", p.Config.Device, err)
		}
		p.closers = append(p.closers, closeDevice)
	}
	closeKeyboard, err := input.ReadKeyboard(keys, p.Config.ReleaseDelay, p.events)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	p.closers = append(p.closers, closeKeyboard)
	return nil
}

func (p *Program) Deinit() {
	for _, c := range p.closers {
		if err := c(); nil != err {
			p.Logger.Warn("unable to close", "err", err)
		}
	}
}

// Run plays chart until every note is judged or the player quits
func (p *Program) Run(chart *game.Chart) (Outcome, error) {
	// Parsers keep file order
	chart.Notes = chart.Sorted()
	p.clock = clock.New(clock.System{}, p.Config.Delay, p.Config.Offset, p.Config.Rate)
	sess := session.New(chart, p.Scorer, p.clock, p.Logger)

	if err := p.Renderer.Init(); nil != err {
		return Outcome{}, err
	}
	if nil != p.player {
		if err := p.player.Play(p.Config.Delay); nil != err {
			p.Renderer.Deinit()
			return Outcome{}, err
		}
	}
	sess.Start(p.Config.TickInterval)

	end := chart.Length() + p.Config.Tolerance
	quit := false
	p.Renderer.RenderLoop(func(now time.Time) bool {
		cont := true
		sess.Do(func(st *session.RunState) {
			if p.update(st) {
				quit = true
				cont = false
				return
			}
			st.PruneMessages(p.Config.MessageTTL)
			p.draw(st)
			if st.Finished() && st.Time > end {
				cont = false
			}
		})
		return cont
	})

	sess.Stop()
	if err := p.Renderer.Deinit(); nil != err {
		p.Logger.Warn("unable to restore terminal", "err", err)
	}

	var out Outcome
	sess.Do(func(st *session.RunState) {
		out = Outcome{
			Judgements: append([]game.Judgement{}, st.Judgements...),
			Inputs:     append([]input.Timed{}, st.Inputs...),
			Errors:     append([]time.Duration{}, st.Errors...),
			Score:      st.Score,
			Stats:      score.Summarize(st.Judgements, len(p.Scorer.Tiers)),
			Quit:       quit,
		}
	})
	return out, nil
}

// update moves pending input events into the run and reports whether to quit
func (p *Program) update(st *session.RunState) bool {
	for {
		select {
		case ev := <-p.events:
			switch {
			case ev.Quit:
				return true
			case ev.Pause:
				p.togglePause(st)
			default:
				st.Edges.Set(ev.Direction, ev.Kind)
			}
		default:
			return false
		}
	}
}

func (p *Program) togglePause(st *session.RunState) {
	st.Paused = !st.Paused
	if st.Paused {
		p.clock.Pause()
	} else {
		p.clock.Resume()
	}
	if nil != p.player {
		p.player.SetPaused(st.Paused)
	}
}

// pressed reports the lanes whose last recorded edge is a press
func pressed(inputs []input.Timed) [game.NKeys]bool {
	var lanes [game.NKeys]bool
	var seen [game.NKeys]bool
	for i := len(inputs) - 1; i >= 0; i-- {
		in := inputs[i]
		if int(in.Direction) >= game.NKeys || seen[in.Direction] {
			continue
		}
		seen[in.Direction] = true
		lanes[in.Direction] = in.Kind == input.Press
	}
	return lanes
}

func (p *Program) draw(st *session.RunState) {
	r, th, l := p.Renderer, p.Theme, p.layout
	cis := l.Columns()
	hitRow := l.HitRow()
	r.Clear()

	// Render the hit bar
	down := pressed(st.Inputs)
	for _, d := range game.Directions {
		r.Fill(hitRow, cis[d], th.RenderHitField(d, down[d]))
	}

	// Render notes, heads over their hold bodies
	for _, note := range st.Notes {
		if note.Hit {
			continue
		}
		col := cis[note.Direction]
		head := l.Row(note.Time, st.Time)
		if note.HitStart {
			head = hitRow
		}
		if head < 1 {
			continue
		}
		if note.IsHold() {
			from := head - 1
			if from > l.Height-1 {
				from = l.Height - 1
			}
			for row := from; row > l.Row(note.TimeEnd, st.Time) && row > 0; row-- {
				r.Fill(row, col, th.RenderHold(note.Direction))
			}
		}
		if l.InField(head) {
			r.Fill(head, col, th.RenderNote(note.Direction, note.Denom))
		}
	}

	// Bracket the lane of every new miss
	for ; p.seen < len(st.Judgements); p.seen++ {
		j := st.Judgements[p.seen]
		if !j.Miss || int(j.Direction) >= game.NKeys {
			continue
		}
		col := cis[j.Direction]
		r.AddDecoration(col-1, hitRow-1, "╭", 60)
		r.AddDecoration(col+1, hitRow-1, "╮", 60)
		r.AddDecoration(col-1, hitRow+1, "╰", 60)
		r.AddDecoration(col+1, hitRow+1, "╯", 60)
	}

	tiers := len(p.Scorer.Tiers)
	if n := len(st.Messages); n > 0 {
		m := st.Messages[n-1]
		r.Fill(l.Height/2, cis[1], fmt.Sprintf("%v %+v", th.RenderJudgement(m, tiers), m.Error.Round(time.Millisecond)))
	}
	if st.Paused {
		r.Fill(l.Height/2+1, cis[1], "Paused")
	}

	sideCol := l.SideColumn()
	stats := score.Summarize(st.Judgements, tiers)
	r.Fill(10, sideCol, fmt.Sprintf("   Error dt:  %8v", st.Score.Round(time.Millisecond)))
	r.Fill(11, sideCol, fmt.Sprintf("      Stdev:  %8v", stats.Stdev.Round(time.Microsecond)))
	r.Fill(12, sideCol, fmt.Sprintf("       Mean:  %8v", stats.Mean.Round(time.Microsecond)))
	r.Fill(13, sideCol, fmt.Sprintf("      Total:  %8v", st.Chart.NoteCount))
	r.Fill(14, sideCol, fmt.Sprintf("      Holds:  %8v", st.Chart.HoldCount))
	for i, name := range p.Scorer.Tiers {
		r.Fill(16+i, sideCol, fmt.Sprintf("%11v:  %8v", name, stats.Counts[i]))
	}

	// Error histogram under the statistics, early on the left
	bins := p.Histogram.Compute(st.Errors)
	top := 17 + tiers
	for i, count := range bins.Counts {
		height := 0
		if bins.Max > 0 {
			height = count * histogramHeight / bins.Max
		}
		for j, cell := range th.RenderBar(height, histogramHeight) {
			r.Fill(top+j, sideCol+i, cell)
		}
	}
}

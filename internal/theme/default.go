package theme

import (
	"github.com/charmbracelet/lipgloss"

	"git.lost.host/meutraa/eotj/internal/game"
)

type DefaultTheme struct{}

func (t *DefaultTheme) RenderNote(direction game.Direction, denom int) string {
	return lipgloss.NewStyle().Foreground(noteColor(denom)).Render(syms[direction%game.NKeys])
}

func (t *DefaultTheme) RenderHold(direction game.Direction) string {
	return lipgloss.NewStyle().Foreground(holdColor).Render(holdSym)
}

func (t *DefaultTheme) RenderHitField(direction game.Direction, pressed bool) string {
	if pressed {
		return lipgloss.NewStyle().Bold(true).Render(pressedSyms[direction%game.NKeys])
	}
	return barSyms[direction%game.NKeys]
}

// RenderJudgement colours tiers from green to red, the miss is always red
func (t *DefaultTheme) RenderJudgement(j game.Judgement, tiers int) string {
	style := lipgloss.NewStyle().Bold(true)
	if j.Miss || tiers < 2 {
		return style.Foreground(missColor).Render(j.Name)
	}
	i := j.Tier * (len(tierColors) - 1) / (tiers - 1)
	if i >= len(tierColors) {
		i = len(tierColors) - 1
	}
	return style.Foreground(tierColors[i]).Render(j.Name)
}

// RenderBar is one histogram column, top row first, height of max rows filled from the bottom
func (t *DefaultTheme) RenderBar(height, max int) []string {
	style := lipgloss.NewStyle().Foreground(histogramColor)
	rows := make([]string, max)
	for i := range rows {
		if i >= max-height {
			rows[i] = style.Render(barSym)
		} else {
			rows[i] = " "
		}
	}
	return rows
}

const (
	holdSym = "┃"
	barSym  = "█"
)

var (
	syms        = [...]string{"⬤", "⬤", "⬤", "⬤"}
	barSyms     = [...]string{"-", "-", "-", "-"}
	pressedSyms = [...]string{"=", "=", "=", "="}

	holdColor      = lipgloss.Color("#6a6a6a")
	missColor      = lipgloss.Color("#ec1e00")
	histogramColor = lipgloss.Color("#0076ec")
	tierColors     = []lipgloss.Color{"#00ec80", "#adecec", "#0076ec", "#ecc300", "#ec8000", "#ec006a"}

	noteColors = map[int]lipgloss.Color{
		1:  "#ec1e00", // 1/4 red
		2:  "#0076ec", // 1/8 blue
		3:  "#6a00ec", // 1/12 purple
		4:  "#ecc300", // 1/16 yellow
		6:  "#ec006a", // 1/24 pink
		8:  "#ec8000", // 1/32 orange
		12: "#adecec", // 1/48 light blue
		16: "#00ec80", // 1/64 green
		48: "#6e9359", // 1/192 olive
		-1: "#6a6a6a", // other grey
	}
)

func noteColor(d int) lipgloss.Color {
	col, ok := noteColors[d]
	if !ok {
		return noteColors[-1]
	}
	return col
}

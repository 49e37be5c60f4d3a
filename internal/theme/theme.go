package theme

import "git.lost.host/meutraa/eotj/internal/game"

type Theme interface {
	RenderNote(direction game.Direction, denom int) string
	RenderHold(direction game.Direction) string
	RenderHitField(direction game.Direction, pressed bool) string
	RenderJudgement(j game.Judgement, tiers int) string
	RenderBar(height, max int) []string
}

package render

import (
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	AddDecoration(col, row int, content string, frames int)
	RenderLoop(render func(now time.Time) bool)
	Fill(row, column int, message string)
	Clear()
}

package render

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// DefaultRenderer draws with ANSI escapes into a buffer that is written once per frame
type DefaultRenderer struct {
	Out         io.Writer
	Fd          int
	FramePeriod time.Duration

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

func NewDefaultRenderer(framePeriod time.Duration) *DefaultRenderer {
	return &DefaultRenderer{
		Out:         os.Stdout,
		Fd:          int(os.Stdout.Fd()),
		FramePeriod: framePeriod,
	}
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(r.Fd) {
		state, err := term.MakeRaw(r.Fd)
		if nil != err {
			return err
		}
		r.restoreState = state
	}

	r.buffer.WriteString("\033[?1049h") // Enable alternate buffer
	r.buffer.WriteString("\033[?25l")   // Make the cursor invisible
	r.buffer.WriteString("\033[J")      // Clear the screen
	return r.flush()
}

func (r *DefaultRenderer) Deinit() error {
	r.buffer.WriteString("\033[?1049l") // Disable alternate buffer
	r.buffer.WriteString("\033[?25h")   // Make the cursor visible
	if err := r.flush(); nil != err {
		return err
	}
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.Fd, r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int, error) {
	return term.GetSize(r.Fd)
}

func (r *DefaultRenderer) AddDecoration(col, row int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, " ")
			continue
		}
		// Redrawn every frame, the screen may have been cleared
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// RenderLoop calls render once per frame period until it returns false
func (r *DefaultRenderer) RenderLoop(render func(now time.Time) bool) {
	cont := true
	for cont {
		now := time.Now()
		deadline := now.Add(r.FramePeriod)

		cont = render(now)

		r.tickDecorations()
		r.flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) flush() error {
	_, err := io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
	return err
}

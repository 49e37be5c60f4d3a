package input

import (
	"sync"
	"time"

	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/eotj/internal/game"
)

// ReadKeyboard reads key presses from the terminal. Terminals do not report
// releases, so a lane is released delay after the last autorepeat of its key.
// The returned function stops reading and closes the keyboard.
func ReadKeyboard(keys []rune, delay time.Duration, events chan<- Event) (func() error, error) {
	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		rel := Releaser{Delay: delay}
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		defer timer.Stop()
		for {
			var out []Event
			select {
			case <-done:
				return
			case key, ok := <-keyChannel:
				if !ok {
					return
				}
				if nil != key.Err {
					continue
				}
				now := time.Now()
				for _, ev := range keyEvents(key, keys) {
					if ev.Quit || ev.Pause {
						out = append(out, ev)
						continue
					}
					out = append(out, rel.Key(ev.Direction, now)...)
				}
			case now := <-timer.C:
				out = rel.Expire(now)
			}
			for _, ev := range out {
				if !send(events, ev, done) {
					return
				}
			}
			if next, ok := rel.Next(); ok {
				timer.Reset(time.Until(next))
			} else {
				timer.Stop()
			}
		}
	}()
	var once sync.Once
	return func() error {
		err := error(nil)
		once.Do(func() {
			close(done)
			err = keyboard.Close()
		})
		return err
	}, nil
}

// Releaser turns terminal key events, which have no releases, into press and
// release edges. A lane stays down while its key keeps autorepeating and is
// released Delay after its last event.
type Releaser struct {
	Delay time.Duration

	last [game.NKeys]time.Time
	down [game.NKeys]bool
}

// Key records an event for dir at now, pressing the lane if it is up
func (r *Releaser) Key(dir game.Direction, now time.Time) []Event {
	if int(dir) >= game.NKeys {
		return nil
	}
	r.last[dir] = now
	if r.down[dir] {
		return nil
	}
	r.down[dir] = true
	return []Event{{Edge: Edge{Direction: dir, Kind: Press}}}
}

// Expire releases every lane that has been quiet for Delay
func (r *Releaser) Expire(now time.Time) []Event {
	var out []Event
	for i := range r.down {
		if r.down[i] && now.Sub(r.last[i]) >= r.Delay {
			r.down[i] = false
			out = append(out, Event{Edge: Edge{Direction: game.Direction(i), Kind: Release}})
		}
	}
	return out
}

// Next is the earliest pending release
func (r *Releaser) Next() (time.Time, bool) {
	var next time.Time
	found := false
	for i := range r.down {
		if !r.down[i] {
			continue
		}
		at := r.last[i].Add(r.Delay)
		if !found || at.Before(next) {
			next, found = at, true
		}
	}
	return next, found
}

func keyEvents(key keyboard.KeyEvent, keys []rune) []Event {
	if key.Key == keyboard.KeyEsc || key.Key == keyboard.KeyCtrlC {
		return []Event{{Quit: true}}
	}
	if key.Key == keyboard.KeySpace {
		return []Event{{Pause: true}}
	}
	index := KeyColumn(key.Rune, keys)
	if index < 0 {
		return nil
	}
	return []Event{{Edge: Edge{Direction: game.Direction(index), Kind: Press}}}
}

func KeyColumn(r rune, keys []rune) int {
	for i, c := range keys {
		if i >= game.NKeys {
			break
		}
		if r == c {
			return i
		}
	}
	return -1
}

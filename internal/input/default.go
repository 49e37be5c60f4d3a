package input

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"git.lost.host/meutraa/eotj/internal/game"
)

// From linux/input-event-codes.h
const (
	evKey = 0x01

	KeyUp    = 103
	KeyLeft  = 105
	KeyRight = 106
	KeyDown  = 108
)

// DefaultCodes maps the arrow keys to lanes
var DefaultCodes = map[uint16]game.Direction{
	KeyLeft:  game.Left,
	KeyDown:  game.Down,
	KeyUp:    game.Up,
	KeyRight: game.Right,
}

// timeval as laid out in struct input_event on 64 bit linux
type timeval struct {
	Sec  int64
	Usec int64
}

type keyEvent struct {
	Time  timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Event is delivered by the input sources
type Event struct {
	Edge
	Quit  bool
	Pause bool // toggles
}

// ReadDevice reads press and release events from an evdev keyboard until it
// fails or the returned function is called
func ReadDevice(kbd string, codes map[uint16]game.Direction, events chan<- Event, logger *log.Logger) (func() error, error) {
	file, err := os.Open(kbd)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		if err := readEvents(file, codes, events, done); nil != err {
			logger.Error("unable to read keyboard input", "device", kbd, "err", err)
		}
	}()
	var once sync.Once
	return func() error {
		err := error(nil)
		once.Do(func() {
			close(done)
			// Unblocks the pending read
			err = file.Close()
		})
		return err
	}, nil
}

// send gives up once done is closed, nobody is reading events any more
func send(events chan<- Event, ev Event, done <-chan struct{}) bool {
	select {
	case events <- ev:
		return true
	case <-done:
		return false
	}
}

func stopped(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func readEvents(r io.Reader, codes map[uint16]game.Direction, events chan<- Event, done <-chan struct{}) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if err == io.EOF || stopped(done) {
				return nil
			}
			return err
		}
		// 2 is autorepeat
		if ev.Type != evKey || ev.Value > 1 {
			continue
		}
		dir, ok := codes[ev.Code]
		if !ok {
			continue
		}
		kind := Press
		if ev.Value == 0 {
			kind = Release
		}
		if !send(events, Event{Edge: Edge{Direction: dir, Kind: kind}}, done) {
			return nil
		}
	}
}

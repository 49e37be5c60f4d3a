// Package audio plays a song file in step with the game clock.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	rate     float64
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode %s: %w", path, err)
	}
	return streamer, format, nil
}

// Open decodes path, rate speeds up playback the same way it speeds up the clock
func Open(path string, rate float64) (*Player, error) {
	streamer, format, err := decode(path)
	if nil != err {
		return nil, err
	}
	var s beep.Streamer = streamer
	if rate != 1 {
		s = beep.ResampleRatio(4, rate, streamer)
	}
	return &Player{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: s},
		rate:     rate,
	}, nil
}

func (p *Player) Format() beep.Format {
	return p.format
}

// Length is the wall clock duration of the song at the playback rate
func (p *Player) Length() time.Duration {
	return time.Duration(float64(p.format.SampleRate.D(p.streamer.Len())) / p.rate)
}

// Play starts the speaker and the song after delay, it does not block
func (p *Player) Play(delay time.Duration) error {
	if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	go func() {
		time.Sleep(delay)
		speaker.Play(p.ctrl)
	}()
	return nil
}

func (p *Player) SetPaused(paused bool) {
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *Player) Close() error {
	speaker.Clear()
	return p.streamer.Close()
}

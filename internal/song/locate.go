// Package song finds and loads song folders: one chart and one audio file each.
package song

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/parser"
)

var (
	ErrNoChart        = errors.New("no .sm or .tsv chart")
	ErrNoAudio        = errors.New("no .ogg, .mp3 or .wav audio")
	ErrMultipleCharts = errors.New("more than one chart")
	ErrMultipleAudio  = errors.New("more than one audio file")
	ErrSubdirectory   = errors.New("song folder contains a directory")
)

// LayoutError is returned when a folder is not exactly one song
type LayoutError struct {
	Dir string
	Err error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dir, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

type Files struct {
	Dir   string
	Chart string
	Audio string
}

func IsChart(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".sm", ".tsv":
		return true
	}
	return false
}

func IsAudio(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ogg", ".mp3", ".wav":
		return true
	}
	return false
}

// Locate finds the chart and audio file of a song folder
func Locate(dir string) (Files, error) {
	files := Files{Dir: dir}
	entries, err := os.ReadDir(dir)
	if nil != err {
		return files, fmt.Errorf("unable to read song directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			return files, &LayoutError{Dir: dir, Err: fmt.Errorf("%w: %s", ErrSubdirectory, name)}
		case IsChart(name):
			if files.Chart != "" {
				return files, &LayoutError{Dir: dir, Err: ErrMultipleCharts}
			}
			files.Chart = filepath.Join(dir, name)
		case IsAudio(name):
			if files.Audio != "" {
				return files, &LayoutError{Dir: dir, Err: ErrMultipleAudio}
			}
			files.Audio = filepath.Join(dir, name)
		}
	}

	if files.Chart == "" {
		return files, &LayoutError{Dir: dir, Err: ErrNoChart}
	}
	if files.Audio == "" {
		return files, &LayoutError{Dir: dir, Err: ErrNoAudio}
	}
	return files, nil
}

// Load locates and parses a song folder
func Load(dir string) (Files, *game.Song, error) {
	files, err := Locate(dir)
	if nil != err {
		return files, nil, err
	}
	s, err := parser.ParseFile(files.Chart)
	if nil != err {
		return files, nil, err
	}
	return files, s, nil
}

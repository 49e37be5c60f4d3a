package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/eotj/internal/game"
)

type Parser interface {
	Parse(r io.Reader) (*game.Song, error)
}

// Error is returned for any malformed chart, no partial song is ever returned with it
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line <= 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func errorf(line int, format string, args ...interface{}) *Error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// ForFile picks the parser for a chart file by its extension
func ForFile(file string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".sm":
		return &DefaultParser{}, nil
	case ".tsv":
		return &TSVParser{}, nil
	}
	return nil, fmt.Errorf("unsupported chart format %q", filepath.Ext(file))
}

func ParseFile(file string) (*game.Song, error) {
	psr, err := ForFile(file)
	if nil != err {
		return nil, err
	}
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	song, err := psr.Parse(f)
	if nil != err {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}
	return song, nil
}

package parser

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
)

// TSVHeader is the exact first line of a tsv chart
const TSVHeader = "Time\tDirection"

// TSVParser reads pre-converted charts, one "<ms>\t<lane letter>" per line.
// Holds are not representable, every note is a tap.
type TSVParser struct{}

func (p *TSVParser) Parse(r io.Reader) (*game.Song, error) {
	scanner := bufio.NewScanner(r)
	line := 0
	if !scanner.Scan() {
		if err := scanner.Err(); nil != err {
			return nil, err
		}
		return nil, errorf(1, "missing %q header", TSVHeader)
	}
	line++
	if strings.TrimSuffix(scanner.Text(), "\r") != TSVHeader {
		return nil, errorf(line, "header is %q, want %q", scanner.Text(), TSVHeader)
	}

	chart := &game.Chart{Notes: []*game.Note{}}
	for scanner.Scan() {
		line++
		l := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		cols := strings.Split(l, "\t")
		if len(cols) != 2 {
			return nil, errorf(line, "want 2 columns, got %d", len(cols))
		}
		ms, err := strconv.ParseFloat(cols[0], 64)
		if nil != err {
			return nil, errorf(line, "malformed time %q", cols[0])
		}
		dir, err := game.ParseLetter(cols[1])
		if nil != err {
			return nil, errorf(line, "%v", err)
		}
		chart.Notes = append(chart.Notes, &game.Note{
			Direction: dir,
			Time:      time.Duration(math.Round(ms * float64(time.Millisecond))),
			TimeEnd:   game.NoEnd,
		})
		chart.NoteCount++
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}

	return &game.Song{Charts: []*game.Chart{chart}}, nil
}

// WriteTSV exports notes sorted by time. Hold ends are dropped.
func WriteTSV(w io.Writer, chart *game.Chart) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(TSVHeader)
	bw.WriteByte('\n')
	for _, n := range chart.Sorted() {
		ms := float64(n.Time) / float64(time.Millisecond)
		bw.WriteString(strconv.FormatFloat(ms, 'f', -1, 64))
		bw.WriteByte('\t')
		bw.WriteString(n.Direction.Letter())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

package parser

import (
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/eotj/internal/game"
)

// DefaultParser reads StepMania .sm charts
type DefaultParser struct{}

type field struct {
	key   string
	value string
	line  int // line of the first character of value
}

type row struct {
	chars string
	line  int
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// M – Mine, ignored
// Anything else is rejected, rolls and lifts have no judgement here

// stripComments removes // comments, keeping the line structure for error reporting
func stripComments(str string) string {
	lines := strings.Split(str, "\n")
	for i, l := range lines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			lines[i] = l[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

func splitFields(str string) ([]field, error) {
	fields := []field{}
	line := 1
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c == '\n' {
			line++
			continue
		}
		if c != '#' {
			continue
		}
		start := line
		colon := strings.IndexByte(str[i:], ':')
		if colon < 0 {
			return nil, errorf(start, "header field has no value")
		}
		key := strings.TrimSpace(str[i+1 : i+colon])
		valueStart := i + colon + 1
		semi := strings.IndexByte(str[valueStart:], ';')
		if semi < 0 {
			return nil, errorf(start, "#%s is not terminated by ';'", key)
		}
		value := str[valueStart : valueStart+semi]
		fields = append(fields, field{
			key:   strings.ToUpper(key),
			value: value,
			line:  start + strings.Count(str[i:valueStart], "\n"),
		})
		line += strings.Count(str[i:valueStart+semi], "\n")
		i = valueStart + semi
	}
	return fields, nil
}

func parseBPMs(f field) ([]game.BPM, error) {
	bpms := []game.BPM{}
	for _, bpm := range strings.Split(f.value, ",") {
		bpm = strings.Join(strings.Fields(bpm), "")
		if bpm == "" {
			continue
		}
		as := strings.Split(bpm, "=")
		if len(as) != 2 {
			return nil, errorf(f.line, "malformed bpm %q", bpm)
		}
		sb, err := strconv.ParseFloat(as[0], 64)
		if nil != err {
			return nil, errorf(f.line, "malformed bpm beat %q", as[0])
		}
		value, err := strconv.ParseFloat(as[1], 64)
		if nil != err {
			return nil, errorf(f.line, "malformed bpm value %q", as[1])
		}
		if value <= 0 {
			return nil, errorf(f.line, "bpm must be positive, got %v", value)
		}
		bpms = append(bpms, game.BPM{
			StartingBeat: sb,
			Value:        value,
		})
	}
	sort.SliceStable(bpms, func(i, j int) bool {
		return bpms[i].StartingBeat < bpms[j].StartingBeat
	})
	return bpms, nil
}

// bpmAt returns the bpm in effect at beat, the first entry also covers any beats before it
func bpmAt(rates []game.BPM, currentBeat float64) float64 {
	sel := rates[0].Value
	for _, bpm := range rates {
		if currentBeat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	return sel
}

func (p *DefaultParser) Parse(r io.Reader) (*game.Song, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := stripComments(strings.ReplaceAll(string(data), "\r", ""))
	fields, err := splitFields(str)
	if nil != err {
		return nil, err
	}

	song := &game.Song{Charts: []*game.Chart{}}
	meta := &song.Metadata
	sections := []field{}
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		switch f.key {
		case "TITLE":
			meta.Title = value
		case "SUBTITLE":
			meta.Subtitle = value
		case "ARTIST":
			meta.Artist = value
		case "CREDIT":
			meta.Credit = value
		case "MUSIC":
			meta.Music = value
		case "OFFSET":
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, errorf(f.line, "malformed offset %q", value)
			}
			meta.Offset = seconds(-offs)
		case "BPMS":
			meta.BPMs, err = parseBPMs(f)
			if nil != err {
				return nil, err
			}
		case "NOTES":
			sections = append(sections, f)
		}
	}

	for _, section := range sections {
		chart, err := p.parseSection(section, meta)
		if nil != err {
			return nil, err
		}
		if chart != nil {
			song.Charts = append(song.Charts, chart)
		}
	}

	return song, nil
}

// parseSection returns a nil chart for chart types without four lanes
func (p *DefaultParser) parseSection(section field, meta *game.Metadata) (*game.Chart, error) {
	parts := strings.Split(section.value, ":")
	if len(parts) != 6 {
		return nil, errorf(section.line, "difficulty section has %d header fields, want 5", len(parts)-1)
	}
	if strings.TrimSpace(parts[0]) != game.ChartType {
		return nil, nil
	}
	if len(meta.BPMs) == 0 {
		return nil, errorf(section.line, "no #BPMS before notes")
	}

	difficulty := game.Difficulty{
		Name:    strings.TrimSpace(parts[2]),
		Msd:     strings.TrimSpace(parts[3]),
		Section: parts[5],
	}
	bodyLine := section.line + strings.Count(strings.Join(parts[:5], ":"), "\n")
	measures, err := splitMeasures(parts[5], bodyLine)
	if nil != err {
		return nil, err
	}

	// Start time of first note
	secs := float64(meta.Offset) / float64(time.Second)
	chart := &game.Chart{
		Notes:      []*game.Note{},
		Measures:   []*game.Measure{},
		Difficulty: difficulty,
	}
	pending := [game.NKeys]*game.Note{}

	for m, rows := range measures {
		chart.Measures = append(chart.Measures, &game.Measure{
			Denom: 1,
			Time:  seconds(secs),
		})

		// Beat count is 4 per measure
		lineCount := int64(len(rows))
		beatsPerNote := 4.0 / float64(lineCount) // 1/4, 1/8, 1/16, 1/24 etc

		// for each note line in a measure
		for i, rw := range rows {
			currentBeat := float64(m*4) + float64(i)*beatsPerNote
			r := big.NewRat(int64(i*4), lineCount)
			denom := r.Denom().Int64()
			if denom == 1 && i != 0 {
				chart.Measures = append(chart.Measures, &game.Measure{
					Denom: 4,
					Time:  seconds(secs),
				})
			}

			if len(rw.chars) != game.NKeys {
				return nil, errorf(rw.line, "row %q has %d lanes, want %d", rw.chars, len(rw.chars), game.NKeys)
			}

			now := seconds(secs)
			for lane, c := range []byte(rw.chars) {
				switch c {
				case '0':
				case 'M':
					chart.MineCount++
				case '1', '2':
					if c == '2' && nil != pending[lane] {
						return nil, errorf(rw.line, "hold start in lane %v while a hold is open", game.Direction(lane))
					}
					note := &game.Note{
						Direction: game.Direction(lane),
						Denom:     int(denom),
						Time:      now,
						TimeEnd:   game.NoEnd,
					}
					chart.Notes = append(chart.Notes, note)
					chart.NoteCount++
					if c == '2' {
						pending[lane] = note
						chart.HoldCount++
					}
				case '3':
					// This is a release of the open head in this lane
					head := pending[lane]
					if nil == head {
						return nil, errorf(rw.line, "hold end in lane %v without a hold start", game.Direction(lane))
					}
					head.TimeEnd = now
					pending[lane] = nil
				default:
					return nil, errorf(rw.line, "unknown note character %q", c)
				}
			}

			secs += beatsPerNote * 60.0 / bpmAt(meta.BPMs, currentBeat)
		}
	}

	for lane, head := range pending {
		if nil != head {
			return nil, errorf(section.line, "difficulty %q ends with an open hold in lane %v", difficulty.Name, game.Direction(lane))
		}
	}

	return chart, nil
}

func splitMeasures(body string, firstLine int) ([][]row, error) {
	measures := [][]row{}
	current := []row{}
	endLine := firstLine
	for i, l := range strings.Split(body, "\n") {
		line := firstLine + i
		endLine = line
		for {
			l = strings.TrimSpace(l)
			comma := strings.IndexByte(l, ',')
			if comma < 0 {
				break
			}
			if chars := strings.TrimSpace(l[:comma]); chars != "" {
				current = append(current, row{chars: chars, line: line})
			}
			if len(current) == 0 {
				return nil, errorf(line, "empty measure")
			}
			measures = append(measures, current)
			current = []row{}
			l = l[comma+1:]
		}
		if l != "" {
			current = append(current, row{chars: l, line: line})
		}
	}
	if len(current) == 0 {
		return nil, errorf(endLine, "empty measure")
	}
	return append(measures, current), nil
}

package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/testdata"
)

func TestWriteTSV(t *testing.T) {
	song, err := parse(t, testdata.SM)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, song.Charts[0]))
	assert.Equal(t, testdata.TSV, buf.String())
}

func TestTSVRoundTrip(t *testing.T) {
	// Unsorted, with awkward times
	chart := &game.Chart{Notes: []*game.Note{
		{Direction: game.Right, Time: 1234567891, TimeEnd: game.NoEnd},
		{Direction: game.Up, Time: -250 * time.Millisecond, TimeEnd: game.NoEnd},
		{Direction: game.Left, Time: 333333333, TimeEnd: 999 * time.Millisecond},
		{Direction: game.Down, Time: 333333333, TimeEnd: game.NoEnd},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, chart))

	p := &TSVParser{}
	song, err := p.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, song.Charts, 1)
	assert.Equal(t, "", song.Charts[0].Difficulty.Name)

	sorted := chart.Sorted()
	got := song.Charts[0].Notes
	require.Len(t, got, len(sorted))
	for i, n := range sorted {
		assert.Equal(t, n.Time, got[i].Time)
		assert.Equal(t, n.Direction, got[i].Direction)
		// Lossy, hold ends are not kept
		assert.Equal(t, game.NoEnd, got[i].TimeEnd)
	}
}

func TestTSVErrors(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"header":       "time\tdirection\n1\tL\n",
		"columns":      TSVHeader + "\n1\tL\tx\n",
		"time":         TSVHeader + "\nsoon\tL\n",
		"direction":    TSVHeader + "\n100\tX\n",
		"no direction": TSVHeader + "\n100\n",
	}
	for name, tsv := range tests {
		t.Run(name, func(t *testing.T) {
			p := &TSVParser{}
			song, err := p.Parse(strings.NewReader(tsv))
			assert.Nil(t, song)
			var perr *Error
			assert.True(t, errors.As(err, &perr), "want *Error, got %v", err)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	sm := filepath.Join(dir, "song.sm")
	tsv := filepath.Join(dir, "song.tsv")
	require.NoError(t, os.WriteFile(sm, []byte(testdata.SM), 0o644))
	require.NoError(t, os.WriteFile(tsv, []byte(testdata.TSV), 0o644))

	song, err := ParseFile(sm)
	require.NoError(t, err)
	assert.Equal(t, "Test Song", song.Metadata.Title)

	song, err = ParseFile(tsv)
	require.NoError(t, err)
	assert.Len(t, song.Charts[0].Notes, 5)

	bad := filepath.Join(dir, "bad.sm")
	require.NoError(t, os.WriteFile(bad, []byte(header+section("9000\n")), 0o644))
	_, err = ParseFile(bad)
	var perr *Error
	assert.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "bad.sm")

	_, err = ParseFile(filepath.Join(dir, "song.ssc"))
	assert.Error(t, err)
}

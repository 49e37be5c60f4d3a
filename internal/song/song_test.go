package song

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/eotj/internal/testdata"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func songDir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	write(t, dir, "chart.sm", testdata.SM)
	write(t, dir, "song.ogg", "")
	return dir
}

func TestLocate(t *testing.T) {
	dir := songDir(t, t.TempDir(), "song")
	write(t, dir, "cover.png", "")

	files, err := Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chart.sm"), files.Chart)
	assert.Equal(t, filepath.Join(dir, "song.ogg"), files.Audio)
}

func TestLocateLayoutErrors(t *testing.T) {
	tests := map[string]struct {
		files []string
		dirs  []string
		err   error
	}{
		"no chart":        {files: []string{"a.ogg"}, err: ErrNoChart},
		"no audio":        {files: []string{"a.sm"}, err: ErrNoAudio},
		"two charts":      {files: []string{"a.sm", "b.tsv", "a.ogg"}, err: ErrMultipleCharts},
		"two audio files": {files: []string{"a.sm", "a.ogg", "a.mp3"}, err: ErrMultipleAudio},
		"subdirectory":    {files: []string{"a.sm", "a.ogg"}, dirs: []string{"extra"}, err: ErrSubdirectory},
		"empty":           {err: ErrNoChart},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range test.files {
				write(t, dir, f, "")
			}
			for _, d := range test.dirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0o755))
			}
			_, err := Locate(dir)
			var lerr *LayoutError
			require.True(t, errors.As(err, &lerr), "want *LayoutError, got %v", err)
			assert.Equal(t, dir, lerr.Dir)
			assert.True(t, errors.Is(err, test.err), "want %v, got %v", test.err, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := songDir(t, t.TempDir(), "song")
	_, s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Test Song", s.Metadata.Title)

	write(t, dir, "chart.sm", "#BPMS:0=60;\n#NOTES:\n dance-single:\n a:\n b:\n 1:\n 0:\n9999\n;\n")
	_, s, err = Load(dir)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestScan(t *testing.T) {
	library := t.TempDir()
	songDir(t, library, "b")
	songDir(t, library, "a")
	require.NoError(t, os.Mkdir(filepath.Join(library, "empty"), 0o755))
	write(t, library, "readme.txt", "")

	entries, err := Scan(library, log.New(io.Discard))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, filepath.Join(library, "a"), entries[0].Files.Dir)
	assert.NoError(t, entries[0].Err)
	assert.Equal(t, "Test Song", entries[0].Song.Metadata.Title)
	assert.NoError(t, entries[1].Err)
	assert.True(t, errors.Is(entries[2].Err, ErrNoChart))
	assert.Nil(t, entries[2].Song)

	_, err = Scan(filepath.Join(library, "missing"), log.New(io.Discard))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	dir := songDir(t, t.TempDir(), "song")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, log.New(io.Discard), func(d string) {
			select {
			case changed <- d:
			default:
			}
		})
	}()

	// The watcher is added asynchronously, keep writing until it notices
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case d := <-changed:
			assert.Equal(t, dir, d)
			break loop
		case <-tick.C:
			write(t, dir, "chart.sm", testdata.SM)
		case <-deadline:
			t.Fatal("no change noticed")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

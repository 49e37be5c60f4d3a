package song

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/remeh/sizedwaitgroup"

	"git.lost.host/meutraa/eotj/internal/game"
)

// Entry is one folder of a library, either loaded or failed
type Entry struct {
	Files Files
	Song  *game.Song
	Err   error
}

// Scan loads every song folder directly below library, in parallel.
// Folders that fail to load are returned with their error.
func Scan(library string, logger *log.Logger) ([]Entry, error) {
	dirs, err := os.ReadDir(library)
	if nil != err {
		return nil, err
	}

	var mu sync.Mutex
	entries := []Entry{}
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		wg.Add()
		go func(dir string) {
			defer wg.Done()
			files, s, err := Load(dir)
			if nil != err {
				logger.Warn("skipping song", "dir", dir, "err", err)
			}
			mu.Lock()
			entries = append(entries, Entry{Files: files, Song: s, Err: err})
			mu.Unlock()
		}(filepath.Join(library, d.Name()))
	}
	wg.Wait()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Files.Dir < entries[j].Files.Dir
	})
	return entries, nil
}

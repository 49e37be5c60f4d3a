package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/eiannone/keyboard"
	"github.com/hako/durafmt"
	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/eotj/internal/audio"
	"git.lost.host/meutraa/eotj/internal/config"
	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/histogram"
	"git.lost.host/meutraa/eotj/internal/history"
	"git.lost.host/meutraa/eotj/internal/parser"
	"git.lost.host/meutraa/eotj/internal/render"
	"git.lost.host/meutraa/eotj/internal/score"
	"git.lost.host/meutraa/eotj/internal/song"
	"git.lost.host/meutraa/eotj/internal/theme"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ec80"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ec1e00"))
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "eotj",
	})
	if err := run(os.Args[1:], logger); nil != err {
		logger.Fatal(err)
	}
}

func run(args []string, logger *log.Logger) error {
	cfg, err := config.Load(config.Path(args))
	if nil != err {
		return err
	}

	app := kingpin.New("eotj", "Keyboard rhythm game for StepMania charts")
	app.Flag("config", "Config file, toml or yaml").String()
	cfg.Register(app)

	playCmd := app.Command("play", "Play a song folder").Default()
	playDir := playCmd.Arg("dir", "Song folder").Required().ExistingDir()
	playDifficulty := playCmd.Flag("difficulty", "Difficulty to play, asked for when omitted").Short('D').String()

	lintCmd := app.Command("lint", "Check song folders")
	lintDirs := lintCmd.Arg("dirs", "Song folders").Required().ExistingDirs()
	lintWatch := lintCmd.Flag("watch", "Check again whenever a chart changes").Short('w').Bool()

	convertCmd := app.Command("convert", "Write one difficulty as tab separated note times")
	convertDir := convertCmd.Arg("dir", "Song folder").Required().ExistingDir()
	convertDifficulty := convertCmd.Arg("difficulty", "Difficulty name").Required().String()
	convertOut := convertCmd.Arg("out", "Output .tsv file").Required().String()

	scanCmd := app.Command("scan", "List every song of a library")
	scanLibrary := scanCmd.Arg("library", "Folder of song folders").Required().ExistingDir()

	historyCmd := app.Command("history", "List and rescore past runs of a song folder")
	historyDir := historyCmd.Arg("dir", "Song folder").Required().ExistingDir()

	cmd, err := app.Parse(args)
	if nil != err {
		return err
	}
	if err := cfg.Validate(); nil != err {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("configuration", "tolerance", cfg.Tolerance, "judgements", cfg.Judgements, "rate", cfg.Rate)

	switch cmd {
	case playCmd.FullCommand():
		return play(cfg, logger, *playDir, *playDifficulty)
	case lintCmd.FullCommand():
		return lint(logger, *lintDirs, *lintWatch)
	case convertCmd.FullCommand():
		return convert(*convertDir, *convertDifficulty, *convertOut)
	case scanCmd.FullCommand():
		return scan(logger, *scanLibrary)
	case historyCmd.FullCommand():
		return listHistory(cfg, logger, *historyDir)
	}
	return nil
}

func newScorer(cfg *config.Config) *score.DefaultScorer {
	return &score.DefaultScorer{
		Tolerance:     cfg.Tolerance,
		Tiers:         cfg.Judgements,
		PenalizeStray: cfg.PenalizeStray,
		ExcludeMisses: cfg.ExcludeMisses,
	}
}

// selectChart asks for a difficulty when there is a choice and none was given
func selectChart(s *game.Song, name string) (*game.Chart, error) {
	if len(s.Charts) == 0 {
		return nil, errors.New("song has no dance-single charts")
	}
	if name != "" {
		c, ok := s.Chart(name)
		if !ok {
			return nil, fmt.Errorf("no difficulty named %q", name)
		}
		return c, nil
	}
	if len(s.Charts) == 1 {
		return s.Charts[0], nil
	}

	// Difficulty selection
	for i, c := range s.Charts {
		fmt.Printf("%2v) %3v  %5v  %v\n", i, c.Difficulty.Msd, len(c.Notes), c.Difficulty.Name)
	}
	key, _, err := keyboard.GetSingleKey()
	if nil != err {
		return nil, fmt.Errorf("unable to read difficulty: %w", err)
	}
	index, err := strconv.Atoi(string(key))
	if nil != err || index < 0 || index >= len(s.Charts) {
		return nil, fmt.Errorf("no difficulty %q", string(key))
	}
	return s.Charts[index], nil
}

// runLogger keeps the playfield clean, logs go to a file when debugging
func runLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if !cfg.Debug {
		return log.New(io.Discard), func() {}, nil
	}
	path, err := config.ExpandHome(filepath.Join(filepath.Dir(cfg.Database), "debug.log"))
	if nil != err {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return nil, nil, fmt.Errorf("unable to open debug log: %w", err)
	}
	l := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: log.DebugLevel, Prefix: "run"})
	return l, func() { f.Close() }, nil
}

func play(cfg *config.Config, logger *log.Logger, dir, difficulty string) error {
	files, s, err := song.Load(dir)
	if nil != err {
		return err
	}
	chart, err := selectChart(s, difficulty)
	if nil != err {
		return err
	}

	logger.Info("opening", "audio", files.Audio, "chart", files.Chart)
	player, err := audio.Open(files.Audio, cfg.Rate)
	if nil != err {
		return err
	}
	defer player.Close()

	h, err := histogram.New(cfg.Tolerance, cfg.Bins)
	if nil != err {
		return err
	}
	store, err := history.Open(cfg.Database, logger)
	if nil != err {
		return err
	}
	defer store.Close()

	rl, closeLog, err := runLogger(cfg)
	if nil != err {
		return err
	}
	defer closeLog()

	p := &Program{
		Config:    cfg,
		Logger:    rl,
		Renderer:  render.NewDefaultRenderer(cfg.FramePeriod),
		Theme:     &theme.DefaultTheme{},
		Scorer:    newScorer(cfg),
		Histogram: h,
	}
	if err := p.Init(player); nil != err {
		return err
	}
	out, err := p.Run(chart.Clone())
	p.Deinit()
	if nil != err {
		return err
	}

	if out.Quit {
		logger.Info("run abandoned, not saved")
	} else if _, err := store.Save(chart, s.Metadata.Title, cfg.Rate, out.Inputs); nil != err {
		logger.Warn("unable to save run", "err", err)
	}
	printSummary(s, chart, cfg, out.Score, out.Stats)
	return nil
}

func printSummary(s *game.Song, chart *game.Chart, cfg *config.Config, total time.Duration, stats score.Stats) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("%v (%v) x%v", s.Metadata.Title, chart.Difficulty.Name, cfg.Rate)))
	fmt.Printf("%11v:  %v\n", "Error dt", total.Round(time.Millisecond))
	fmt.Printf("%11v:  %v\n", "Mean", stats.Mean.Round(time.Microsecond))
	fmt.Printf("%11v:  %v\n", "Stdev", stats.Stdev.Round(time.Microsecond))
	for i, name := range cfg.Judgements {
		fmt.Printf("%11v:  %v\n", name, stats.Counts[i])
	}
}

func length(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

func lintDir(logger *log.Logger, dir string) bool {
	_, s, err := song.Load(dir)
	if nil != err {
		fmt.Println(errStyle.Render("✗"), err)
		return false
	}
	if len(s.Charts) == 0 {
		fmt.Println(errStyle.Render("✗"), dir, "has no dance-single charts")
		return false
	}
	fmt.Println(okStyle.Render("✓"), dir, "-", s.Metadata.Title)
	for _, c := range s.Charts {
		fmt.Printf("    %-12v %3v  %5v notes  %4v holds  %4v mines  %v\n",
			c.Difficulty.Name, c.Difficulty.Msd, c.NoteCount, c.HoldCount, c.MineCount, length(c.Length()))
	}
	logger.Debug("checked", "dir", dir, "charts", len(s.Charts))
	return true
}

func lint(logger *log.Logger, dirs []string, watch bool) error {
	failed := 0
	for _, dir := range dirs {
		if !lintDir(logger, dir) {
			failed++
		}
	}
	if !watch {
		if failed > 0 {
			return fmt.Errorf("%d of %d song folders have problems", failed, len(dirs))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger.Info("watching for chart changes, interrupt to stop", "folders", len(dirs))

	var wg sync.WaitGroup
	errs := make([]error, len(dirs))
	for i, dir := range dirs {
		wg.Add(1)
		go func(i int, dir string) {
			defer wg.Done()
			errs[i] = song.Watch(ctx, dir, logger, func(d string) {
				lintDir(logger, d)
			})
		}(i, dir)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func convert(dir, difficulty, out string) error {
	_, s, err := song.Load(dir)
	if nil != err {
		return err
	}
	chart, ok := s.Chart(difficulty)
	if !ok {
		return fmt.Errorf("no difficulty named %q", difficulty)
	}
	f, err := os.Create(out)
	if nil != err {
		return err
	}
	if err := parser.WriteTSV(f, chart); nil != err {
		f.Close()
		return fmt.Errorf("unable to write %s: %w", out, err)
	}
	return f.Close()
}

func scan(logger *log.Logger, library string) error {
	entries, err := song.Scan(library, logger)
	if nil != err {
		return fmt.Errorf("unable to scan %s: %w", library, err)
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%-32v %-12v %3v %6v %5v %v", "Title", "Difficulty", "", "Notes", "Holds", "Length")))
	broken := 0
	for _, e := range entries {
		if nil != e.Err {
			broken++
			continue
		}
		for _, c := range e.Song.Charts {
			fmt.Printf("%-32v %-12v %3v %6v %5v %v\n",
				e.Song.Metadata.Title, c.Difficulty.Name, c.Difficulty.Msd, humanize.Comma(c.NoteCount), c.HoldCount, length(c.Length()))
		}
	}
	fmt.Printf("%v songs, %v could not be loaded\n", len(entries)-broken, broken)
	return nil
}

func listHistory(cfg *config.Config, logger *log.Logger, dir string) error {
	_, s, err := song.Load(dir)
	if nil != err {
		return err
	}
	store, err := history.Open(cfg.Database, logger)
	if nil != err {
		return err
	}
	defer store.Close()

	scorer := newScorer(cfg)
	for _, c := range s.Charts {
		runs, err := store.Load(c)
		if nil != err {
			return err
		}
		if len(runs) == 0 {
			continue
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%v (%v)", s.Metadata.Title, c.Difficulty.Name)))
		for _, r := range runs {
			res := scorer.Replay(c, r.Inputs)
			stats := score.Summarize(res.Judgements, len(scorer.Tiers))
			fmt.Printf("  %-16v x%-4v %10v  %4v misses  mean %8v  stdev %8v  %v\n",
				humanize.Time(r.PlayedAt), r.Rate, res.Score.Round(time.Millisecond), stats.Misses,
				stats.Mean.Round(time.Microsecond), stats.Stdev.Round(time.Microsecond), r.ID[:8])
		}
	}
	return nil
}

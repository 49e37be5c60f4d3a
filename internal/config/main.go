package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/eotj/internal/game"
)

type Config struct {
	Tolerance     time.Duration `yaml:"tolerance" toml:"tolerance"`
	Judgements    []string      `yaml:"judgements" toml:"judgements"`
	PenalizeStray bool          `yaml:"penalize_stray" toml:"penalize_stray"`
	ExcludeMisses bool          `yaml:"exclude_misses" toml:"exclude_misses"`
	Bins          int           `yaml:"bins" toml:"bins"`

	Offset       time.Duration `yaml:"offset" toml:"offset"`
	Delay        time.Duration `yaml:"delay" toml:"delay"`
	Rate         float64       `yaml:"rate" toml:"rate"`
	TickInterval time.Duration `yaml:"tick_interval" toml:"tick_interval"`
	FramePeriod  time.Duration `yaml:"frame_period" toml:"frame_period"`
	MessageTTL   time.Duration `yaml:"message_ttl" toml:"message_ttl"`
	ReleaseDelay time.Duration `yaml:"release_delay" toml:"release_delay"` // terminal keys only

	Keys          string `yaml:"keys" toml:"keys"`
	Device        string `yaml:"device" toml:"device"`
	ColumnSpacing int    `yaml:"spacing" toml:"spacing"`
	BarRow        int    `yaml:"bar_row" toml:"bar_row"`
	ScrollSpeed   int    `yaml:"scroll_speed" toml:"scroll_speed"` // ms per terminal row

	Database string `yaml:"database" toml:"database"`
	Debug    bool   `yaml:"debug" toml:"debug"`
}

func Default() *Config {
	return &Config{
		Tolerance:     150 * time.Millisecond,
		Judgements:    []string{"Exact", "Ridiculous", "Marvelous", "Great", "Good", "Okay", "Miss"},
		PenalizeStray: false,
		ExcludeMisses: false,
		Bins:          31,
		Offset:        0,
		Delay:         1500 * time.Millisecond,
		Rate:          1.0,
		TickInterval:  time.Millisecond,
		FramePeriod:   4 * time.Millisecond,
		MessageTTL:    500 * time.Millisecond,
		Keys:          "_-mp",
		ReleaseDelay:  60 * time.Millisecond,
		ColumnSpacing: 6,
		BarRow:        8,
		ScrollSpeed:   12,
		Database:      "~/.eotj/scores.db",
	}
}

func duration(d time.Duration) string {
	return d.String()
}

// Register binds the flags to c, the current values of c are the defaults
func (c *Config) Register(app *kingpin.Application) {
	app.Flag("tolerance", "Largest timing error that still hits a note").Default(duration(c.Tolerance)).Short('t').DurationVar(&c.Tolerance)
	// Repeated flags append, so the names are only ever set through the defaults
	tiers := c.Judgements
	c.Judgements = nil
	app.Flag("judgement", "Judgement names, best first, the last is the miss").Default(tiers...).StringsVar(&c.Judgements)
	app.Flag("penalize-stray", "Count presses that hit nothing as misses").Default(strconv.FormatBool(c.PenalizeStray)).BoolVar(&c.PenalizeStray)
	app.Flag("exclude-misses", "Leave misses out of the error histogram").Default(strconv.FormatBool(c.ExcludeMisses)).BoolVar(&c.ExcludeMisses)
	app.Flag("bins", "Error histogram bins, odd").Default(strconv.Itoa(c.Bins)).IntVar(&c.Bins)
	app.Flag("offset", "Global offset").Default(duration(c.Offset)).Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default(duration(c.Delay)).Short('d').DurationVar(&c.Delay)
	app.Flag("rate", "Playback rate").Default(strconv.FormatFloat(c.Rate, 'f', -1, 64)).Short('r').Float64Var(&c.Rate)
	app.Flag("tick", "Judgement tick interval").Default(duration(c.TickInterval)).DurationVar(&c.TickInterval)
	app.Flag("frame-period", "Render frame period").Default(duration(c.FramePeriod)).Short('p').DurationVar(&c.FramePeriod)
	app.Flag("message-ttl", "How long judgements stay on screen").Default(duration(c.MessageTTL)).DurationVar(&c.MessageTTL)
	app.Flag("keys", "Keys for the four lanes").Default(c.Keys).Short('k').StringVar(&c.Keys)
	app.Flag("device", "evdev keyboard, for real key releases").Default(c.Device).StringVar(&c.Device)
	app.Flag("release-delay", "Quiet time after the last terminal key repeat before the lane is released").Default(duration(c.ReleaseDelay)).DurationVar(&c.ReleaseDelay)
	app.Flag("spacing", "Columns between keys").Default(strconv.Itoa(c.ColumnSpacing)).Short('S').IntVar(&c.ColumnSpacing)
	app.Flag("bar-row", "Rows from the bottom to render the hit bar").Default(strconv.Itoa(c.BarRow)).IntVar(&c.BarRow)
	app.Flag("scroll-speed", "Milliseconds per row, lower is faster").Default(strconv.Itoa(c.ScrollSpeed)).Short('s').IntVar(&c.ScrollSpeed)
	app.Flag("db", "Score database").Default(c.Database).StringVar(&c.Database)
	app.Flag("debug", "Debug logging").Default(strconv.FormatBool(c.Debug)).BoolVar(&c.Debug)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("tolerance must be positive, got %v", c.Tolerance))
	}
	if len(c.Judgements) < 2 {
		errs = append(errs, fmt.Errorf("need at least one judgement and a miss, got %d names", len(c.Judgements)))
	}
	if c.Bins < 1 || c.Bins%2 == 0 {
		errs = append(errs, fmt.Errorf("bins must be odd and positive, got %d", c.Bins))
	}
	if c.Rate <= 0 {
		errs = append(errs, fmt.Errorf("rate must be positive, got %v", c.Rate))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %v", c.TickInterval))
	}
	if c.FramePeriod <= 0 {
		errs = append(errs, fmt.Errorf("frame period must be positive, got %v", c.FramePeriod))
	}
	if c.ScrollSpeed <= 0 {
		errs = append(errs, fmt.Errorf("scroll speed must be positive, got %d", c.ScrollSpeed))
	}
	if c.ReleaseDelay <= 0 {
		errs = append(errs, fmt.Errorf("release delay must be positive, got %v", c.ReleaseDelay))
	}
	if n := utf8.RuneCountInString(c.Keys); n != game.NKeys {
		errs = append(errs, fmt.Errorf("need %d keys, got %d", game.NKeys, n))
	}
	return errors.Join(errs...)
}

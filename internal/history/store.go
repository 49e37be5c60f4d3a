// Package history keeps every played run in sqlite so it can be replayed and rescored.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"git.lost.host/meutraa/eotj/internal/config"
	"git.lost.host/meutraa/eotj/internal/game"
	"git.lost.host/meutraa/eotj/internal/input"
)

type Run struct {
	ID         string
	Sum        string
	Title      string
	Difficulty string
	Rate       float64
	PlayedAt   time.Time
	Inputs     []input.Timed
}

type Store struct {
	db     *sql.DB
	logger *log.Logger
}

const schema = `
create table if not exists runs
  (
	  id text not null primary key,
	  sum text not null,
	  title text,
	  difficulty text,
	  rate real,
	  played_at integer,
	  inputs blob
  );
create index if not exists runs_sum on runs(sum);
`

// Open creates the database and its directory when missing
func Open(path string, logger *log.Logger) (*Store, error) {
	path, err := config.ExpandHome(path)
	if nil != err {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); nil != err {
		return nil, fmt.Errorf("unable to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, err
	}
	if _, err := db.Exec(schema); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create tables: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Sum identifies a chart by its note data, so renamed songs keep their history
func Sum(c *game.Chart) string {
	sum := sha256.Sum256([]byte(c.Difficulty.Section))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *Store) Save(c *game.Chart, title string, rate float64, inputs []input.Timed) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		Sum:        Sum(c),
		Title:      title,
		Difficulty: c.Difficulty.Name,
		Rate:       rate,
		PlayedAt:   time.Now(),
		Inputs:     inputs,
	}
	data, err := json.Marshal(compactInputs(inputs))
	if nil != err {
		return run, fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec(
		"insert into runs(id, sum, title, difficulty, rate, played_at, inputs) values(?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Sum, run.Title, run.Difficulty, run.Rate, run.PlayedAt.UnixNano(), data,
	)
	if nil != err {
		return run, fmt.Errorf("unable to save run: %w", err)
	}
	return run, nil
}

// Load returns the runs of a chart, newest first. Rows that cannot be decoded are skipped.
func (s *Store) Load(c *game.Chart) ([]Run, error) {
	rows, err := s.db.Query(
		"select id, sum, title, difficulty, rate, played_at, inputs from runs where sum = ? order by played_at desc",
		Sum(c),
	)
	if nil != err {
		return nil, fmt.Errorf("unable to load runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var playedAt int64
		var data []byte
		if err := rows.Scan(&run.ID, &run.Sum, &run.Title, &run.Difficulty, &run.Rate, &playedAt, &data); nil != err {
			return nil, err
		}
		var compact []InputsCompact
		if err := json.Unmarshal(data, &compact); nil != err {
			s.logger.Warn("unable to unmarshal run inputs", "id", run.ID, "err", err)
			continue
		}
		run.PlayedAt = time.Unix(0, playedAt)
		run.Inputs = uncompactInputs(compact)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

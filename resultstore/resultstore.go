// Package resultstore keeps scoring runs in a SQLite database so that they
// can be fetched again by id.
package resultstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313/summary"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	input_name TEXT NOT NULL,
	layout     TEXT NOT NULL,
	trials     INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	matched    INTEGER NOT NULL,
	reference  INTEGER NOT NULL,
	summaries  TEXT NOT NULL
)`

// Run is one stored scoring run. Summaries are kept as JSON.
type Run struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	InputName string    `db:"input_name" json:"input_name"`
	Layout    string    `db:"layout" json:"layout"`
	Trials    int       `db:"trials" json:"trials"`

	// The simulator seed, stored bit for bit as a signed integer
	Seed int64 `db:"seed" json:"seed"`

	// Reference SNPs found in the genotype file, out of Reference
	Matched   int `db:"matched" json:"matched"`
	Reference int `db:"reference" json:"reference"`

	SummariesJSON string            `db:"summaries" json:"-"`
	Summaries     []summary.Summary `db:"-" json:"summaries"`
}

type Store struct {
	DB *sqlx.DB
}

// Open connects to (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// SQLite serializes writers anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Put stores run, assigning an id and creation time if it has none.
func (s *Store) Put(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	encoded, err := json.Marshal(run.Summaries)
	if err != nil {
		return pfx.Err(err)
	}
	run.SummariesJSON = string(encoded)

	_, err = s.DB.NamedExecContext(ctx, `INSERT INTO runs
		(id, created_at, input_name, layout, trials, seed, matched, reference, summaries)
		VALUES (:id, :created_at, :input_name, :layout, :trials, :seed, :matched, :reference, :summaries)`, run)
	if err != nil {
		return pfx.Err(fmt.Errorf("run %s: %w", run.ID, err))
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	if err := s.DB.GetContext(ctx, run, "SELECT * FROM runs WHERE id = ?", id); errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	if err := run.decode(); err != nil {
		return nil, err
	}

	return run, nil
}

// Recent lists up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	runs := []Run{}
	if err := s.DB.SelectContext(ctx, &runs, "SELECT * FROM runs ORDER BY created_at DESC, id LIMIT ?", limit); err != nil {
		return nil, pfx.Err(err)
	}

	for i := range runs {
		if err := runs[i].decode(); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (r *Run) decode() error {
	if err := json.Unmarshal([]byte(r.SummariesJSON), &r.Summaries); err != nil {
		return pfx.Err(fmt.Errorf("run %s: %w", r.ID, err))
	}
	return nil
}

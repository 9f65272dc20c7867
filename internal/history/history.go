// Package history keeps a SQLite log of classified hands.
package history

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/fileutil"
)

// ErrNotFound is returned by Get for unknown record IDs.
var ErrNotFound = errors.New("record not found")

// DefaultLimit caps List when called with a non-positive limit.
const DefaultLimit = 50

// Record is one classification.
type Record struct {
	ID          string             `json:"id" yaml:"id"`
	CreatedAt   time.Time          `json:"createdAt" yaml:"created_at"`
	Source      string             `json:"source" yaml:"source"`
	Hole        string             `json:"hole" yaml:"hole"`
	Community   string             `json:"community" yaml:"community"`
	Category    evaluator.Category `json:"category" yaml:"category"`
	Cards       string             `json:"cards" yaml:"cards"`
	Description string             `json:"description" yaml:"description"`
}

// NewRecord builds a record for a hand classified from hole and community.
func NewRecord(source string, hole, community []deck.Card, hand evaluator.Hand) Record {
	return Record{
		Source:      source,
		Hole:        deck.FormatNotation(hole),
		Community:   deck.FormatNotation(community),
		Category:    hand.Category,
		Cards:       deck.FormatNotation(hand.Cards),
		Description: hand.Describe(),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS classifications (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	created_at  INTEGER NOT NULL,
	source      TEXT NOT NULL,
	hole        TEXT NOT NULL,
	community   TEXT NOT NULL,
	category    TEXT NOT NULL,
	cards       TEXT NOT NULL,
	description TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classifications_created ON classifications(created_at);
`

// Store persists records. It is safe for concurrent use.
type Store struct {
	db    *sql.DB
	path  string
	clock quartz.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp records.
func WithClock(clock quartz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "mkdir %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	s := &Store{db: db, path: path, clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r, filling in the ID and timestamp when they are unset, and
// returns the stored record.
func (s *Store) Record(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clock.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classifications (id, created_at, source, hole, community, category, cards, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UnixNano(), r.Source, r.Hole, r.Community, r.Category.Slug(), r.Cards, r.Description)
	if err != nil {
		return Record{}, errors.Wrapf(err, "insert record %s", r.ID)
	}
	return r, nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, hole, community, category, cards, description
		FROM classifications
		ORDER BY created_at DESC, seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns the record with the given ID or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, hole, community, category, cards, description
		FROM classifications WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return r, err
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classifications`).Scan(&n)
	return n, errors.Wrap(err, "count records")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r        Record
		nanos    int64
		category string
	)
	if err := row.Scan(&r.ID, &nanos, &r.Source, &r.Hole, &r.Community, &category, &r.Cards, &r.Description); err != nil {
		return Record{}, err
	}
	c, err := evaluator.ParseCategory(category)
	if err != nil {
		return Record{}, errors.Wrapf(err, "record %s", r.ID)
	}
	r.Category = c
	r.CreatedAt = time.Unix(0, nanos).UTC()
	return r, nil
}

type export struct {
	Records []Record `yaml:"records"`
}

// Encode writes records as a YAML document.
func Encode(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export{Records: records}); err != nil {
		return err
	}
	return enc.Close()
}

// Export writes records to path as YAML, replacing the file atomically.
func Export(records []Record, path string) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, records)
	})
}

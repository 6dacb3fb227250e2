// Package store persists rendered content entries in a local SQLite database
// so unchanged documents are not rendered again.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const DefaultPath = ".sitekit/content.db"

type Entry struct {
	Collection string `db:"collection" json:"collection"`
	ID         string `db:"id" json:"id"`
	Path       string `db:"path" json:"path"`
	Digest     string `db:"digest" json:"digest"`
	Data       string `db:"data" json:"data"`
	HTML       string `db:"html" json:"-"`
	RunID      string `db:"run_id" json:"runId"`
	UpdatedAt  string `db:"updated_at" json:"updatedAt"`
}

type Run struct {
	ID         string `db:"id" json:"id"`
	StartedAt  string `db:"started_at" json:"startedAt"`
	FinishedAt string `db:"finished_at" json:"finishedAt"`
	Rendered   int    `db:"rendered" json:"rendered"`
	Unchanged  int    `db:"unchanged" json:"unchanged"`
	Pruned     int    `db:"pruned" json:"pruned"`
}

type Store struct {
	db *sqlx.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open content store %s", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to configure content store")
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS entries (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    path TEXT NOT NULL,
    digest TEXT NOT NULL,
    data TEXT NOT NULL,
    html TEXT NOT NULL,
    run_id TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    rendered INTEGER NOT NULL,
    unchanged INTEGER NOT NULL,
    pruned INTEGER NOT NULL
);
`)
	return errors.Wrap(err, "failed to create content store schema")
}

// Digests returns entry id to digest for a collection.
func (s *Store) Digests(ctx context.Context, collection string) (map[string]string, error) {
	var rows []struct {
		ID     string `db:"id"`
		Digest string `db:"digest"`
	}
	err := s.db.SelectContext(ctx, &rows, `SELECT id, digest FROM entries WHERE collection = ?`, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read digests of '%s'", collection)
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Digest
	}
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, e Entry) error {
	if e.UpdatedAt == "" {
		e.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := s.db.NamedExecContext(ctx, `
INSERT INTO entries (collection, id, path, digest, data, html, run_id, updated_at)
VALUES (:collection, :id, :path, :digest, :data, :html, :run_id, :updated_at)
ON CONFLICT (collection, id) DO UPDATE SET
    path = excluded.path,
    digest = excluded.digest,
    data = excluded.data,
    html = excluded.html,
    run_id = excluded.run_id,
    updated_at = excluded.updated_at
`, e)
	return errors.Wrapf(err, "failed to store entry '%s/%s'", e.Collection, e.ID)
}

// Prune deletes the entries of a collection whose id is not in keep.
func (s *Store) Prune(ctx context.Context, collection string, keep []string) (int, error) {
	existing, err := s.Digests(ctx, collection)
	if err != nil {
		return 0, err
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	pruned := 0
	for id := range existing {
		if _, ok := keepSet[id]; ok {
			continue
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE collection = ? AND id = ?`, collection, id); err != nil {
			return pruned, errors.Wrapf(err, "failed to prune entry '%s/%s'", collection, id)
		}
		pruned++
	}

	return pruned, nil
}

// List returns the entries of a collection ordered by id. An empty
// collection name lists every entry.
func (s *Store) List(ctx context.Context, collection string) ([]Entry, error) {
	var entries []Entry
	var err error
	if collection == "" {
		err = s.db.SelectContext(ctx, &entries, `SELECT * FROM entries ORDER BY collection, id`)
	} else {
		err = s.db.SelectContext(ctx, &entries, `SELECT * FROM entries WHERE collection = ? ORDER BY id`, collection)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list entries")
	}

	return entries, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*Entry, error) {
	var e Entry
	err := s.db.GetContext(ctx, &e, `SELECT * FROM entries WHERE collection = ? AND id = ?`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read entry '%s/%s'", collection, id)
	}

	return &e, nil
}

func (s *Store) RecordRun(ctx context.Context, r Run) error {
	_, err := s.db.NamedExecContext(ctx, `
INSERT OR REPLACE INTO runs (id, started_at, finished_at, rendered, unchanged, pruned)
VALUES (:id, :started_at, :finished_at, :rendered, :unchanged, :pruned)
`, r)
	return errors.Wrapf(err, "failed to record run '%s'", r.ID)
}

func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	var r Run
	err := s.db.GetContext(ctx, &r, `SELECT * FROM runs ORDER BY rowid DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read last run")
	}

	return &r, nil
}

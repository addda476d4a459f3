package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	author TEXT NOT NULL,
	generated_at INTEGER NOT NULL,
	mattr_window INTEGER NOT NULL DEFAULT 0,
	failures INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS runs_author ON runs(author, generated_at);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	doc_id TEXT NOT NULL,
	file_name TEXT,
	token_count INTEGER NOT NULL,
	unique_count INTEGER NOT NULL,
	lexical_words INTEGER NOT NULL,
	ttr REAL NOT NULL,
	mattr REAL NOT NULL,
	lexical_density REAL NOT NULL,
	dependent_clauses INTEGER NOT NULL,
	independent_clauses INTEGER NOT NULL,
	total_clauses INTEGER NOT NULL,
	dcr REAL NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and its results
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" || r.Author == "" {
		return fmt.Errorf("%w: run id and author required", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsertRun = `
INSERT INTO runs (id, author, generated_at, mattr_window, failures)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	author=excluded.author,
	generated_at=excluded.generated_at,
	mattr_window=excluded.mattr_window,
	failures=excluded.failures;
`
	if _, err := tx.ExecContext(ctx, upsertRun, r.ID, r.Author, r.GeneratedAt.UTC().UnixNano(), r.Window, r.Failures); err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear results %s: %w", r.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO results (
	run_id, position, doc_id, file_name, token_count, unique_count, lexical_words,
	ttr, mattr, lexical_density, dependent_clauses, independent_clauses, total_clauses, dcr
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, res := range r.Results {
		_, err := stmt.ExecContext(ctx,
			r.ID, i, res.DocID, res.FileName, res.TokenCount, res.UniqueCount, res.LexicalWords,
			res.TTR, res.MATTR, res.LexicalDensity, res.DependentClauses, res.IndependentClauses,
			res.TotalClauses, res.DCR,
		)
		if err != nil {
			return fmt.Errorf("save result %s/%s: %w", r.ID, res.DocID, err)
		}
	}
	return tx.Commit()
}

// Runs lists an author's runs, oldest first
func (s *sqliteStore) Runs(ctx context.Context, author string) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, author, generated_at, mattr_window, failures
FROM runs WHERE author = ?
ORDER BY generated_at, id`, author)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var r store.Run
		var ts int64
		if err := rows.Scan(&r.ID, &r.Author, &ts, &r.Window, &r.Failures); err != nil {
			return nil, err
		}
		r.GeneratedAt = time.Unix(0, ts).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// History returns the latest result per document identifier
func (s *sqliteStore) History(ctx context.Context, author string) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.generated_at, x.doc_id, x.file_name, x.token_count, x.unique_count,
	x.lexical_words, x.ttr, x.mattr, x.lexical_density, x.dependent_clauses,
	x.independent_clauses, x.total_clauses, x.dcr
FROM results x JOIN runs r ON r.id = x.run_id
WHERE r.author = ?
ORDER BY r.generated_at, r.id, x.position`, author)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]store.Record)
	for rows.Next() {
		var rec store.Record
		var ts int64
		var fileName sql.NullString
		err := rows.Scan(
			&rec.RunID, &ts, &rec.DocID, &fileName, &rec.TokenCount, &rec.UniqueCount,
			&rec.LexicalWords, &rec.TTR, &rec.MATTR, &rec.LexicalDensity, &rec.DependentClauses,
			&rec.IndependentClauses, &rec.TotalClauses, &rec.DCR,
		)
		if err != nil {
			return nil, err
		}
		rec.GeneratedAt = time.Unix(0, ts).UTC()
		rec.FileName = fileName.String
		latest[rec.DocID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]store.Record, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocID < out[j].DocID })
	return out, nil
}

// Authors lists authors with at least one run
func (s *sqliteStore) Authors(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT author FROM runs ORDER BY author`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

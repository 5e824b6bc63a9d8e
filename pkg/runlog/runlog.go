// Package runlog keeps a small SQLite ledger of per-category scrape results.
// The history document only records price changes; the ledger records how
// each run went, which is what makes "this category used to have products
// and now returns none" detectable.
package runlog

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type Log struct {
	db *sql.DB
}

// Entry is one category's outcome within a run.
type Entry struct {
	CategoryKey string
	Store       string
	Pages       int
	Found       int
	Merged      int
	Sales       int
	StartedAt   time.Time
	Duration    time.Duration
}

func Open(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS category_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_key TEXT NOT NULL,
			store TEXT NOT NULL,
			pages INTEGER NOT NULL,
			found INTEGER NOT NULL,
			merged INTEGER NOT NULL,
			sales INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Log{db: db}, nil
}

func (l *Log) Record(e Entry) error {
	_, err := l.db.Exec(
		`INSERT INTO category_runs (category_key, store, pages, found, merged, sales, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CategoryKey, e.Store, e.Pages, e.Found, e.Merged, e.Sales, e.StartedAt, e.Duration.Milliseconds(),
	)
	return err
}

// LastFound returns the found-count of the most recent recorded run for a
// category. The second return is false when the category has never run.
func (l *Log) LastFound(categoryKey string) (int, bool) {
	var found int
	err := l.db.QueryRow(
		`SELECT found FROM category_runs WHERE category_key = ? ORDER BY id DESC LIMIT 1`,
		categoryKey,
	).Scan(&found)
	if err != nil {
		return 0, false
	}
	return found, true
}

func (l *Log) Close() error {
	return l.db.Close()
}

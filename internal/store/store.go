// Package store archives the canonical event table in a local SQLite
// database so reports can be generated without re-reading the export
// files. Events are stored in their raw shape; readers re-run the
// normalizer, which is idempotent over already-canonical data.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// timeLayout is fixed-width so that lexical ordering of the played_at
// column matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000Z"

const schema = `
CREATE TABLE IF NOT EXISTS Event (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  played_at TEXT NOT NULL,
  ms_played INTEGER NOT NULL,
  track_name TEXT,
  artist_name TEXT,
  album_name TEXT,
  track_uri TEXT,
  platform TEXT,
  conn_country TEXT,
  reason_start TEXT,
  reason_end TEXT,
  shuffle INTEGER,
  origin TEXT,
  UNIQUE (played_at, track_uri, track_name, artist_name, ms_played)
);

CREATE INDEX IF NOT EXISTS EventPlayedAt ON Event (played_at);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether the archive has been written to before.
func Exists(dbPath string) (bool, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return false, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'Event'")
	var name string
	err = row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking archive existence: %w", err)
	}
	return true, nil
}

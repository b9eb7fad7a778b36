package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/MasterOfBinary/reportbench/source"
)

// DefaultCommitEvery is the number of inserts an SQLiteStore batches into one
// transaction when no other value is configured.
const DefaultCommitEvery = 10000

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	archive TEXT NOT NULL,
	seq     INTEGER NOT NULL,
	text    TEXT NOT NULL,
	PRIMARY KEY (archive, seq)
);`

// SQLiteStore is a single SQLite database holding the records of any number
// of SQLite archives.
//
// Inserts from every archive share one open transaction, which is committed
// every CommitEvery inserts and whenever an archive is replayed. The store
// uses a single connection and is not safe for concurrent use.
type SQLiteStore struct {
	db          *sql.DB
	path        string
	commitEvery int

	tx      *sql.Tx
	insert  *sql.Stmt
	pending int
}

// OpenSQLiteStore creates or opens the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path, commitEvery: DefaultCommitEvery}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// SetCommitEvery changes how many inserts are grouped into one transaction.
// Values below one are ignored.
func (s *SQLiteStore) SetCommitEvery(n int) {
	if n > 0 {
		s.commitEvery = n
	}
}

// Archive returns the archive with the given name. Records left in the store
// under that name by an earlier run are deleted.
func (s *SQLiteStore) Archive(name string) (*SQLite, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(`DELETE FROM records WHERE archive = ?`, name); err != nil {
		return nil, fmt.Errorf("failed to reset archive %s: %w", name, err)
	}
	return &SQLite{store: s, name: name}, nil
}

func (s *SQLiteStore) add(name string, seq int, text string) error {
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO records (archive, seq, text) VALUES (?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		s.tx, s.insert = tx, stmt
	}

	if _, err := s.insert.Exec(name, seq, text); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", name, err)
	}
	s.pending++
	if s.pending >= s.commitEvery {
		return s.Flush()
	}
	return nil
}

// Flush commits the pending transaction, if any.
func (s *SQLiteStore) Flush() error {
	if s.tx == nil {
		return nil
	}
	_ = s.insert.Close()
	err := s.tx.Commit()
	s.tx, s.insert, s.pending = nil, nil, 0
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close commits pending inserts and closes the database.
func (s *SQLiteStore) Close() error {
	err := s.Flush()
	if cerr := s.db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// SQLite is an Archive stored as rows of an SQLiteStore.
type SQLite struct {
	store  *SQLiteStore
	name   string
	n      int
	err    error
	sealed bool
}

// Name returns the archive name.
func (a *SQLite) Name() string { return a.name }

// Append implements the Archive interface.
func (a *SQLite) Append(record string) error {
	if a.err != nil {
		return a.err
	}
	if a.sealed {
		return ErrSealed
	}
	if err := a.store.add(a.name, a.n+1, record); err != nil {
		a.err = err
		return err
	}
	a.n++
	return nil
}

// Source implements the Archive interface. Records are read back a page of
// batchSize rows at a time. A batchSize that is not positive uses
// source.DefaultBatchSize.
func (a *SQLite) Source(batchSize int) (source.Source, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.sealed {
		return nil, ErrSealed
	}
	a.sealed = true

	if batchSize <= 0 {
		batchSize = source.DefaultBatchSize
	}
	src := &sqliteSource{store: a.store, name: a.name, size: batchSize, total: a.n}
	src.Next()
	if src.err != nil {
		return nil, src.err
	}
	return src, nil
}

// Len implements the Archive interface.
func (a *SQLite) Len() int { return a.n }

// Close implements the Archive interface. The archive is sealed and its rows
// stay in the store.
func (a *SQLite) Close() error {
	a.sealed = true
	return a.err
}

// sqliteSource pages through one archive's rows in seq order.
type sqliteSource struct {
	store *SQLiteStore
	name  string
	size  int
	total int

	last  int
	batch []string
	done  bool
	err   error
}

func (s *sqliteSource) Batch() []string { return s.batch }

func (s *sqliteSource) Next() bool {
	s.batch = s.batch[:0]
	if s.done {
		return false
	}
	if err := s.page(); err != nil {
		s.err = err
		s.done = true
		return false
	}
	if len(s.batch) < s.size {
		s.done = true
	}
	return len(s.batch) > 0
}

func (s *sqliteSource) page() error {
	if err := s.store.Flush(); err != nil {
		return err
	}

	rows, err := s.store.db.Query(
		`SELECT seq, text FROM records WHERE archive = ? AND seq > ? ORDER BY seq LIMIT ?`,
		s.name, s.last, s.size)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", s.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var text string
		if err := rows.Scan(&s.last, &text); err != nil {
			return fmt.Errorf("failed to scan %s: %w", s.name, err)
		}
		s.batch = append(s.batch, text)
	}
	return rows.Err()
}

func (s *sqliteSource) Err() error { return s.err }

func (s *sqliteSource) TotalSize() (int, error) { return s.total, nil }

func (s *sqliteSource) Close() error {
	s.done = true
	return nil
}

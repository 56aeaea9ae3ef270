package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// DBFileName is the SQLite database file created under the data directory.
const DBFileName = "fragstore.db"

// Store owns the SQLite connection and the current batch transaction. It is
// not safe for concurrent use; the population and catalog pipelines are
// single-threaded by design.
type Store struct {
	db          *sql.DB
	tx          *sql.Tx
	artifactDir string
	log         *zap.Logger
}

// execer abstracts *sql.DB and *sql.Tx so writes route through the open
// batch when one exists.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Open opens (creating if needed) the store under dataDir. Prefix-tree
// artifacts live in artifactDir; when empty it defaults to dataDir/trees.
func Open(dataDir, artifactDir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if artifactDir == "" {
		artifactDir = filepath.Join(dataDir, "trees")
	}
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Store{db: db, artifactDir: artifactDir, log: log}, nil
}

// Close rolls back any open batch and closes the database. Close is
// idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Begin opens a batch transaction. All writes until Commit become durable
// together; the population pipeline opens one batch per source batch rather
// than committing per row.
func (s *Store) Begin() error {
	if s.db == nil {
		return types.ErrClosed
	}
	if s.tx != nil {
		return types.ErrBatchOpen
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	s.tx = tx
	return nil
}

// Commit commits the open batch transaction.
func (s *Store) Commit() error {
	if s.tx == nil {
		return types.ErrNoBatch
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Rollback discards the open batch transaction, if any.
func (s *Store) Rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("rolling back batch: %w", err)
	}
	return nil
}

// h returns the handle writes and reads route through: the open batch when
// one exists, the bare connection otherwise.
func (s *Store) h() execer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// CreateSchema drops and recreates all tables.
func (s *Store) CreateSchema() error {
	if s.db == nil {
		return types.ErrClosed
	}
	for _, name := range tableNames {
		if _, err := s.h().Exec("DROP TABLE IF EXISTS " + name); err != nil {
			return fmt.Errorf("dropping table %s: %w", name, err)
		}
	}
	for _, ddl := range schemaDDL {
		if _, err := s.h().Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	s.log.Info("schema created", zap.Int("tables", len(schemaDDL)))
	return nil
}

// CreateIndexes drops and recreates the composite mass-tier and
// element-composition indexes. Run after population, not before: bulk
// inserts into an indexed table are much slower.
func (s *Store) CreateIndexes() error {
	if s.db == nil {
		return types.ErrClosed
	}
	for _, name := range indexNames {
		if _, err := s.h().Exec("DROP INDEX IF EXISTS " + name); err != nil {
			return fmt.Errorf("dropping index %s: %w", name, err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := s.h().Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	s.log.Info("indexes created", zap.Int("indexes", len(indexDDL)))
	return nil
}

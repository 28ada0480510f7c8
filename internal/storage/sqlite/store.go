// Package sqlite implements storage.Provider on modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitd/internal/migration"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default settings on a fresh database.
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.Defaults()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitd init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.newRunner().ValidateVersion()
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Cascade deletes depend on this pragma.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) newRunner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embed is part of the binary; a missing subdirectory is a build defect.
		panic(fmt.Sprintf("sqlite migrations missing from embed: %v", err))
	}
	return migration.NewRunner(s.db, subFS, "sqlite")
}

func (s *Store) runMigrations() error {
	_, err := s.newRunner().Apply(nil)
	return err
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. modernc.org/sqlite surfaces these as plain errors with a stable
// message fragment.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

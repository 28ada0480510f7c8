// Package postgres implements storage.Provider on lib/pq. Connection strings
// must not embed a password; credentials come from the OS keyring.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/lib/pq"

	"github.com/julianstephens/habitd/internal/migration"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type Store struct {
	connStr string
	db      *sql.DB
}

func New(connStr string) *Store {
	return &Store{connStr: connStr}
}

// ValidateConnStr rejects connection strings that carry an inline password.
func ValidateConnStr(connStr string) error {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, has := u.User.Password(); has {
			return ErrEmbeddedCredentials
		}
		return nil
	}
	if strings.Contains(connStr, "password=") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.newRunner().Apply(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
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
	if err := s.open(); err != nil {
		return err
	}
	return s.newRunner().ValidateVersion()
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
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
	return s.connStr
}

func (s *Store) newRunner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		panic(fmt.Sprintf("postgres migrations missing from embed: %v", err))
	}
	return migration.NewRunner(s.db, subFS, "postgres")
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReadMigrationFilesSortedAndValidated(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"notes.txt":      {Data: []byte("ignored")},
	}

	r := NewRunner(openDB(t), fsys, "sqlite")
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "first" {
		t.Errorf("first = %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "second" {
		t.Errorf("second = %+v", migrations[1])
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	for name, fsys := range map[string]fstest.MapFS{
		"missing underscore": {"001.sql": {Data: []byte("SELECT 1;")}},
		"bad version":        {"abc_x.sql": {Data: []byte("SELECT 1;")}},
		"duplicate version": {
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"001_b.sql": {Data: []byte("SELECT 1;")},
		},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewRunner(openDB(t), fsys, "sqlite")
			if _, err := r.ReadMigrationFiles(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyIsIncremental(t *testing.T) {
	db := openDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
	}

	r := NewRunner(db, fsys, "sqlite")
	applied, err := r.Apply(nil)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}

	// Re-applying is a no-op.
	applied, err = r.Apply(nil)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 0 {
		t.Fatalf("re-apply = %d, want 0", applied)
	}

	// A new migration runs from where we left off.
	fsys["002_more.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE b (id INTEGER);")}
	applied, err = r.Apply(nil)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Fatalf("incremental apply = %d, want 1", applied)
	}

	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
}

func TestValidateVersionRejectsNewerSchema(t *testing.T) {
	db := openDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
	}

	r := NewRunner(db, fsys, "sqlite")
	if _, err := r.Apply(nil); err != nil {
		t.Fatal(err)
	}

	// Simulate a database touched by a newer build.
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	if err := r.ValidateVersion(); err == nil {
		t.Error("expected error for newer schema")
	}
}

package persistence

import (
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/scubafy-dev/scubafy-backend/migrations"
)

func TestMigrationNamesSortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_later.sql":  {Data: []byte("SELECT 2;")},
		"0001_init.sql":   {Data: []byte("SELECT 1;")},
		"0010_tenth.sql":  {Data: []byte("SELECT 10;")},
		"migrations.go":   {Data: []byte("package migrations")},
		"notes/readme.md": {Data: []byte("ignored")},
	}

	names, err := migrationNames(fsys)
	if err != nil {
		t.Fatalf("migration names: %v", err)
	}

	want := []string{"0001_init.sql", "0002_later.sql", "0010_tenth.sql"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := migrationNames(migrations.Files)
	if err != nil {
		t.Fatalf("migration names: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if names[0] != "0001_init.sql" {
		t.Fatalf("expected 0001_init.sql first, got %v", names)
	}
}

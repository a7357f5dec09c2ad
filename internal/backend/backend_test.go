package backend

import (
	"path/filepath"
	"testing"

	"pennyguard/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	for _, bt := range Types() {
		if !bt.IsValid() {
			t.Errorf("Type(%q).IsValid() = false, want true", bt)
		}
	}
	if Type("sheets").IsValid() {
		t.Error("unknown type reported valid")
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.Create(&config.Config{DataBackend: "memory"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer res.Close()

	if res.Store == nil {
		t.Fatal("Create() returned nil store")
	}
	if res.Events != nil {
		t.Error("Events should be nil without an AMQP URL")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.Create(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer res.Close()

	if res.Store == nil {
		t.Fatal("Create() returned nil store")
	}
	if res.Cleanup == nil {
		t.Error("sqlite backend should provide a cleanup hook")
	}
}

func TestCreateUnknownBackend(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.Create(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("Create() accepted an unsupported backend type")
	}
}

func TestCreateNilConfig(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.Create(nil); err == nil {
		t.Fatal("Create() accepted a nil config")
	}
}

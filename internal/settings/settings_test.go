package settings

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreMemoryOnly(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Set(DiffCommand, "meld"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if got := s.Value(DiffCommand); got != "meld" {
		t.Errorf("Value() = %q, want %q", got, "meld")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.db")

	// First run: store entries
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s1.Set(DiffCommand, "kdiff3 {left} {right}"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s1.Set(ViewSort, "size:desc"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Second run: read them back
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() second time failed: %v", err)
	}
	defer func() { _ = s2.Close() }()

	got, found, err := s2.Get(DiffCommand)
	if err != nil || !found || got != "kdiff3 {left} {right}" {
		t.Errorf("Get(%s) = %q, %v, %v", DiffCommand, got, found, err)
	}

	entries, err := s2.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	want := []Entry{{DiffCommand, "kdiff3 {left} {right}"}, {ViewSort, "size:desc"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("List() = %v, want %v", entries, want)
	}
}

func TestStoreMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	_, found, err := s.Get(ViewColumns)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if found {
		t.Error("Get() on empty store reported found")
	}
}

func TestStoreEmptyValueDeletes(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "settings.db")} {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", path, err)
		}

		_ = s.Set(ViewColumns, "name,size")
		if err := s.Set(ViewColumns, ""); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		if _, found, _ := s.Get(ViewColumns); found {
			t.Errorf("store %q: key still present after clearing", path)
		}
		_ = s.Close()
	}
}

func TestStoreRejectsUnknownKey(t *testing.T) {
	s, _ := Open("")

	err := s.Set("window/geometry", "x")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set() error = %v, want ErrUnknownKey", err)
	}
}

func TestStoreLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() { _ = s1.Close() }()

	if s2, err := Open(path); err == nil {
		_ = s2.Close()
		t.Error("second Open() on a locked file succeeded")
	}
}

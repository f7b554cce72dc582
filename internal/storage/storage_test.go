package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/timelog/internal/storage"
)

func TestGetMissingKey(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	v, ok, err := s.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("Get on missing key: %v", err)
	}
	if ok {
		t.Errorf("Get ok = true, want false")
	}
	if v != "" {
		t.Errorf("Get value = %q, want empty", v)
	}
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := storage.NewFileStore(dir)

	if err := s.Set(ctx, "timeEntries", `[{"id":1}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "timeEntries")
	if err != nil {
		t.Fatalf("Get after Set: %v", err)
	}
	if !ok || v != `[{"id":1}]` {
		t.Errorf("Get = (%q, %v), want (%q, true)", v, ok, `[{"id":1}]`)
	}

	// Overwrite replaces the value and leaves no temp file behind.
	if err := s.Set(ctx, "timeEntries", `[]`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "timeEntries")
	if v != `[]` {
		t.Errorf("Get after overwrite = %q, want %q", v, `[]`)
	}
	if _, err := os.Stat(filepath.Join(dir, "timeEntries.json.tmp")); !os.IsNotExist(err) {
		t.Error("expected temp file to be gone after Set")
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := storage.NewFileStore(t.TempDir())

	if err := s.Remove(ctx, "timerState"); err != nil {
		t.Fatalf("Remove on missing key: %v", err)
	}
	if err := s.Set(ctx, "timerState", `{}`); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "timerState"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "timerState"); ok {
		t.Error("key still present after Remove")
	}
}

func TestInvalidKeys(t *testing.T) {
	ctx := context.Background()
	s := storage.NewFileStore(t.TempDir())
	for _, key := range []string{"", ".", "../escape", "a/b", `a\b`} {
		if err := s.Set(ctx, key, "x"); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("Set(%q) err = %v, want ErrInvalidKey", key, err)
		}
		if _, _, err := s.Get(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("Get(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestQuarantine(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := storage.NewFileStore(dir)

	if err := s.Set(ctx, "tasks", "{bad json"); err != nil {
		t.Fatal(err)
	}
	backup, err := s.Quarantine(ctx, "tasks")
	if err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	if backup != filepath.Join(dir, "tasks.json.corrupt") {
		t.Errorf("backup path = %q", backup)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("expected backup file to exist: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "tasks"); ok {
		t.Error("quarantined key should read as absent")
	}

	// Quarantining an absent key is a no-op.
	backup, err = s.Quarantine(ctx, "tasks")
	if err != nil || backup != "" {
		t.Errorf("Quarantine on missing key = (%q, %v), want (\"\", nil)", backup, err)
	}
}

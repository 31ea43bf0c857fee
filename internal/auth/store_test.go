package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"autosheetify/internal/auth"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := auth.NewFileStore(path)

	empty, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file returned error: %v", err)
	}
	if diff := cmp.Diff(auth.Record{}, empty); diff != "" {
		t.Fatalf("expected empty record (-want +got):\n%s", diff)
	}

	saved := auth.Record{Token: "tok", Email: "user@example.com", SavedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("unexpected permissions %o", perm)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, got %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestFileStoreStampsSavedAt(t *testing.T) {
	store := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(auth.Record{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SavedAt.IsZero() {
		t.Fatal("expected SavedAt to be stamped")
	}
}

func TestFileStoreRejectsEmptyToken(t *testing.T) {
	store := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(auth.Record{Token: "  "}); err == nil {
		t.Fatal("expected error saving empty token")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := auth.NewFileStore(path).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

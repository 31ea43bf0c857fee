package testsupport

import (
	"context"
	"testing"

	"autosheetify/internal/config"
	"autosheetify/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddEntry saves a minimal successful entry titled title.
func AddEntry(t testing.TB, store *library.Store, title string) *library.Entry {
	t.Helper()

	entry, err := store.Add(context.Background(), library.Entry{
		Title:      title,
		Instrument: "piano",
		SourceKind: "file",
		SourceRef:  title + ".mp3",
		SheetURL:   "https://sheets.example/static/" + title + ".pdf",
		MidiURL:    "https://sheets.example/static/" + title + ".mid",
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return entry
}

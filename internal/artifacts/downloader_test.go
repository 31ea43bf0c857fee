package artifacts_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"autosheetify/internal/artifacts"
	"autosheetify/internal/services"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/static/song.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "%PDF-1.4 sheet")
	})
	mux.HandleFunc("/static/song.mid", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "MThd")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveURL(t *testing.T) {
	d, err := artifacts.NewDownloader("http://svc:8000/api/")
	if err != nil {
		t.Fatalf("NewDownloader: %v", err)
	}
	tests := map[string]string{
		"/static/a.pdf":               "http://svc:8000/api/static/a.pdf",
		"static/a.pdf":                "http://svc:8000/api/static/a.pdf",
		"https://cdn.example/b.mid":   "https://cdn.example/b.mid",
		"/static/a%20b.pdf?version=2": "http://svc:8000/api/static/a%20b.pdf?version=2",
	}
	for in, want := range tests {
		got, err := d.ResolveURL(in)
		if err != nil {
			t.Fatalf("ResolveURL(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ResolveURL(%q) = %q want %q", in, got, want)
		}
	}
	if _, err := d.ResolveURL("  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestFetchSet(t *testing.T) {
	srv := newServer(t)
	d, err := artifacts.NewDownloader(srv.URL, artifacts.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewDownloader: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")

	set, err := d.FetchSet(context.Background(), "My Song: Live", "/static/song.pdf", "/static/song.mid", dir)
	if err != nil {
		t.Fatalf("FetchSet: %v", err)
	}
	if set.Sheet.Path != filepath.Join(dir, "My Song- Live.pdf") {
		t.Fatalf("sheet path = %q", set.Sheet.Path)
	}
	if set.Midi.Path != filepath.Join(dir, "My Song- Live.mid") {
		t.Fatalf("midi path = %q", set.Midi.Path)
	}
	data, err := os.ReadFile(set.Sheet.Path)
	if err != nil || string(data) != "%PDF-1.4 sheet" {
		t.Fatalf("sheet content = %q, %v", data, err)
	}
	if set.Midi.Size != 4 || set.Midi.HumanSize() != "4 B" {
		t.Fatalf("midi size = %d (%s)", set.Midi.Size, set.Midi.HumanSize())
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".download-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := newServer(t)
	d, _ := artifacts.NewDownloader(srv.URL)
	_, err := d.Fetch(context.Background(), "/static/missing.pdf", t.TempDir(), "x", ".pdf")
	var statusErr *services.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestFetchUsesURLNameWhenTitleBlank(t *testing.T) {
	srv := newServer(t)
	d, _ := artifacts.NewDownloader(srv.URL)
	dir := t.TempDir()
	f, err := d.Fetch(context.Background(), "/static/song.mid", dir, "  ", ".mid")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if f.Path != filepath.Join(dir, "song.mid") {
		t.Fatalf("path = %q", f.Path)
	}
}

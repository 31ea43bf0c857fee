package input_test

import (
	"errors"
	"testing"

	"autosheetify/internal/input"
	"autosheetify/internal/services"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"http://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RD", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abcdefghijk", "abcdefghijk", true},
		{"https://www.youtube.com/embed/ABC_def-123", "ABC_def-123", true},
		{"  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/123456", "", false},
		{"https://youtube.com/", "", false},
		{"https://youtu.be/", "", false},
		{"https://www.youtube.com/@channel", "", false},
		{"https://www.youtube.com/playlist?list=PL123", "", false},
		{"https://www.youtube.com/watch", "", false},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://notyoutube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"ftp://youtu.be/dQw4w9WgXcQ", "", false},
		{"youtube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		id, ok := input.VideoID(tc.url)
		if ok != tc.wantOK || id != tc.wantID {
			t.Errorf("VideoID(%q) = %q, %v; want %q, %v", tc.url, id, ok, tc.wantID, tc.wantOK)
		}
	}
}

func TestNormalizeURLRejectsUnknownHosts(t *testing.T) {
	_, err := input.NormalizeURL("https://example.com/song.mp3")
	if !errors.Is(err, services.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if services.KindOf(err) != services.KindValidation {
		t.Fatalf("unexpected kind %q", services.KindOf(err))
	}
}

func TestNormalizeURLTrims(t *testing.T) {
	got, err := input.NormalizeURL("\thttps://youtu.be/dQw4w9WgXcQ\n")
	if err != nil {
		t.Fatalf("NormalizeURL returned error: %v", err)
	}
	if got != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("got %q want trimmed url", got)
	}
	if !input.IsMediaURL(got) {
		t.Fatal("expected IsMediaURL to accept normalized url")
	}
}

func TestSelectionRejectsYouTubeLinksWithoutVideo(t *testing.T) {
	for _, raw := range []string{"https://youtube.com/", "https://www.youtube.com/results?search_query=nocturne"} {
		sel := input.NewSelection()
		err := sel.SetURL(raw)
		if !errors.Is(err, services.ErrInvalidURL) {
			t.Fatalf("SetURL(%q) expected ErrInvalidURL, got %v", raw, err)
		}
		if !sel.Current().IsNone() {
			t.Fatalf("SetURL(%q) changed the selection", raw)
		}
	}
}

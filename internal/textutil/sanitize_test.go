package textutil_test

import (
	"strings"
	"testing"

	"autosheetify/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  My Song: Live/Acoustic  ", "My Song- Live-Acoustic"},
		{"what?.pdf", "what.pdf"},
		{"Nocturne | Chopin  (Official\tVideo)", "Nocturne Chopin (Official Video)"},
		{"...Intro...", "Intro"},
		{"line\nbreak\x00", "line break"},
		{"", ""},
		{"  ", ""},
	}
	for _, tc := range tests {
		if got := textutil.SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameTruncatesOnRuneBoundary(t *testing.T) {
	got := textutil.SanitizeFileName(strings.Repeat("é", 150))
	if len(got) > 200 {
		t.Fatalf("length = %d want <= 200", len(got))
	}
	if got != strings.Repeat("é", 100) {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Für Elise (Piano)", "f_r_elise_piano"},
		{"Nocturne Op.9 No.2", "nocturne_op_9_no_2"},
		{"take-2", "take-2"},
		{"  ", "unknown"},
		{"???", "unknown"},
	}
	for _, tc := range tests {
		if got := textutil.SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my_song-final.mp3", "My Song Final"},
		{"/music/für elise.wav", "Für Elise"},
		{"01 - Clair de Lune.flac", "Clair De Lune"},
		{"1812 Overture.wav", "1812 Overture"},
		{"07.mp3", "07"},
		{"Op.9 No.2.mp3", "Op 9 No 2"},
		{"___.mp3", "Untitled"},
		{"", "Untitled"},
	}
	for _, tc := range tests {
		if got := textutil.TitleFromFilename(tc.in, "Untitled"); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromFilename derives a display title from an audio file name:
// "01 - my_song-final.mp3" becomes "My Song Final". A leading track number is
// dropped when words follow it. Returns fallback when nothing printable
// remains.
func TitleFromFilename(name, fallback string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) > 1 && isTrackNumber(words[0]) {
		words = words[1:]
	}
	if len(words) == 0 {
		return fallback
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func isTrackNumber(word string) bool {
	if len(word) > 3 {
		return false
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

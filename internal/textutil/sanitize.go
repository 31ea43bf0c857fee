package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameBytes leaves room for an extension under the usual 255 byte
// limit.
const maxFileNameBytes = 200

// fileNameReplacer maps characters reserved on common filesystems.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName turns a transcription title into a file name stem.
// Separators, colons and asterisks become dashes and other reserved
// characters are dropped. Whitespace runs collapse to a single space, control
// characters disappear, and leading or trailing dots are trimmed so titles
// like "...Intro" never produce hidden files.
func SanitizeFileName(name string) string {
	replaced := fileNameReplacer.Replace(name)

	var b strings.Builder
	b.Grow(len(replaced))
	pendingSpace := false
	for _, r := range replaced {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		case unicode.IsControl(r), r == utf8.RuneError:
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), ". ")
	for len(out) > maxFileNameBytes {
		_, size := utf8.DecodeLastRuneInString(out)
		out = out[:len(out)-size]
	}
	return strings.TrimRight(out, ". ")
}

// SanitizeToken converts a string to a lowercase ASCII token for generated
// names. Runs of anything other than letters, digits, hyphens and
// underscores become one underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

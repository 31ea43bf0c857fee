package input

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"autosheetify/internal/services"
)

var supportedExtensions = []string{".mp3", ".wav", ".mp4", ".m4a", ".flac", ".ogg"}

// SupportedExtensions lists the accepted media file extensions.
func SupportedExtensions() []string {
	return slices.Clone(supportedExtensions)
}

// IsSupportedMedia reports whether name carries an accepted media extension.
func IsSupportedMedia(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(supportedExtensions, ext)
}

// FileFromPath captures a file on disk. The file is opened lazily each time
// its content is read.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", services.ErrValidation, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%w: %s is a directory", services.ErrValidation, path)
	}
	return NewFile(filepath.Base(path), info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

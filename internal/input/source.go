package input

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"autosheetify/internal/services"
)

// Kind identifies the active Source variant.
type Kind int

const (
	KindNone Kind = iota
	KindFile
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindURL:
		return "url"
	default:
		return "none"
	}
}

// Opener yields a fresh reader over a file's contents.
type Opener func() (io.ReadCloser, error)

// File is a captured media file. Its content is read through Open and is never
// modified after capture.
type File struct {
	Name string
	Size int64
	open Opener
}

// NewFile captures a file from an arbitrary carrier such as an HTTP upload.
func NewFile(name string, size int64, opener Opener) (File, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return File{}, fmt.Errorf("%w: file name is empty", services.ErrValidation)
	}
	if opener == nil {
		return File{}, fmt.Errorf("%w: file %q has no content", services.ErrValidation, name)
	}
	if !IsSupportedMedia(name) {
		return File{}, fmt.Errorf("%w: %q (accepted: %s)", services.ErrUnsupportedMedia, name, strings.Join(SupportedExtensions(), ", "))
	}
	return File{Name: name, Size: size, open: opener}, nil
}

// FileFromBytes captures an in-memory file. The slice must not be modified afterwards.
func FileFromBytes(name string, data []byte) (File, error) {
	return NewFile(name, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Open returns a reader over the file contents. Callers must close it.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("%w: file has no content", services.ErrValidation)
	}
	return f.open()
}

// Source is the tagged union of input variants. The zero value is None.
type Source struct {
	kind Kind
	file File
	url  string
}

// None returns the empty source.
func None() Source { return Source{} }

// FromFile wraps a captured file as a Source.
func FromFile(f File) Source { return Source{kind: KindFile, file: f} }

func (s Source) Kind() Kind { return s.kind }

func (s Source) IsNone() bool { return s.kind == KindNone }

// File returns the file variant, if active.
func (s Source) File() (File, bool) {
	if s.kind != KindFile {
		return File{}, false
	}
	return s.file, true
}

// URL returns the URL variant, if active.
func (s Source) URL() (string, bool) {
	if s.kind != KindURL {
		return "", false
	}
	return s.url, true
}

// DisplayName is a short human label for logs and library titles.
func (s Source) DisplayName() string {
	switch s.kind {
	case KindFile:
		return s.file.Name
	case KindURL:
		if id, ok := VideoID(s.url); ok {
			return id
		}
		return s.url
	default:
		return ""
	}
}

// Summary is the JSON-friendly view of a Source.
type Summary struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

func (s Source) Summary() Summary {
	out := Summary{Kind: s.kind.String()}
	switch s.kind {
	case KindFile:
		out.Name = s.file.Name
		out.Size = s.file.Size
	case KindURL:
		out.URL = s.url
	}
	return out
}

package input

import (
	"fmt"
	"sync"

	"autosheetify/internal/services"
)

// Selection holds the active input source. It is safe for concurrent use.
type Selection struct {
	mu       sync.RWMutex
	current  Source
	onChange func(Source)
}

// SelectionOption customizes a Selection.
type SelectionOption func(*Selection)

// WithOnChange registers a callback invoked after every change. It runs
// outside the selection lock.
func WithOnChange(fn func(Source)) SelectionOption {
	return func(s *Selection) {
		s.onChange = fn
	}
}

// NewSelection returns an empty selection.
func NewSelection(opts ...SelectionOption) *Selection {
	s := &Selection{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFile makes f the active source, dropping any URL.
func (s *Selection) SetFile(f File) error {
	if f.open == nil {
		return fmt.Errorf("%w: file has no content", services.ErrValidation)
	}
	s.set(FromFile(f))
	return nil
}

// SetURL validates raw and makes it the active source, dropping any file. An
// invalid URL leaves the current source untouched.
func (s *Selection) SetURL(raw string) error {
	normalized, err := NormalizeURL(raw)
	if err != nil {
		return err
	}
	s.set(Source{kind: KindURL, url: normalized})
	return nil
}

// Clear resets the selection to None.
func (s *Selection) Clear() {
	s.set(None())
}

// Current returns the active source.
func (s *Selection) Current() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Selection) set(src Source) {
	s.mu.Lock()
	s.current = src
	notify := s.onChange
	s.mu.Unlock()
	if notify != nil {
		notify(src)
	}
}

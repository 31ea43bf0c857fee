package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"autosheetify/internal/logging"
)

// spoolSet tracks uploaded media written to disk. A spool file is removed
// once it is no longer the selected input and nothing holds it. Holds come
// from submissions awaiting resolution and from open readers.
type spoolSet struct {
	logger *slog.Logger

	mu       sync.Mutex
	selected string
	holds    map[string]int
}

func newSpoolSet(logger *slog.Logger) *spoolSet {
	return &spoolSet{logger: logger, holds: map[string]int{}}
}

// selectOnly marks path as the selected input, or nothing when path is
// empty, and removes every other spool that is not held.
func (s *spoolSet) selectOnly(path string) {
	s.mu.Lock()
	s.selected = path
	if path != "" {
		if _, ok := s.holds[path]; !ok {
			s.holds[path] = 0
		}
	}
	var stale []string
	for p, n := range s.holds {
		if p != path && n == 0 {
			stale = append(stale, p)
			delete(s.holds, p)
		}
	}
	s.mu.Unlock()
	s.remove(stale...)
}

// holdSelected pins the selected spool and returns its path, or "" when the
// selection is not a spooled upload.
func (s *spoolSet) holdSelected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return ""
	}
	s.holds[s.selected]++
	return s.selected
}

func (s *spoolSet) release(path string) {
	s.mu.Lock()
	n, ok := s.holds[path]
	if !ok {
		s.mu.Unlock()
		return
	}
	if n > 1 || path == s.selected {
		s.holds[path] = max(n-1, 0)
		s.mu.Unlock()
		return
	}
	delete(s.holds, path)
	s.mu.Unlock()
	s.remove(path)
}

// open returns a reader for path that holds the spool until closed.
func (s *spoolSet) open(path string) (io.ReadCloser, error) {
	s.mu.Lock()
	if _, ok := s.holds[path]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("spooled upload %s: %w", path, os.ErrNotExist)
	}
	s.holds[path]++
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		s.release(path)
		return nil, err
	}
	return &spoolReader{File: f, release: func() { s.release(path) }}, nil
}

// removeAll deletes every tracked spool regardless of holds.
func (s *spoolSet) removeAll() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.holds))
	for p := range s.holds {
		paths = append(paths, p)
	}
	s.holds = map[string]int{}
	s.selected = ""
	s.mu.Unlock()
	s.remove(paths...)
}

func (s *spoolSet) remove(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("remove spooled upload failed", logging.String("path", path), logging.Error(err))
			continue
		}
		s.logger.Debug("spooled upload removed", logging.String("path", path))
	}
}

type spoolReader struct {
	*os.File
	once    sync.Once
	release func()
}

func (r *spoolReader) Close() error {
	err := r.File.Close()
	r.once.Do(r.release)
	return err
}

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"autosheetify/internal/config"
)

// timestampLayout keeps fixed-width fractions so stored times sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "id, title, original_filename, instrument, source_kind, source_ref, sheet_url, midi_url, sheet_path, midi_path, created_at"

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the library database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	return OpenPath(cfg.LibraryPath())
}

// OpenPath initializes or connects to the database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure library directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add saves entry, assigning an id and creation time, and returns the stored copy.
func (s *Store) Add(ctx context.Context, entry Entry) (*Entry, error) {
	if strings.TrimSpace(entry.SheetURL) == "" || strings.TrimSpace(entry.MidiURL) == "" {
		return nil, ErrNotSuccessful
	}
	entry.ID = uuid.NewString()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Title,
		nullableString(entry.OriginalFilename),
		entry.Instrument,
		entry.SourceKind,
		nullableString(entry.SourceRef),
		entry.SheetURL,
		entry.MidiURL,
		nullableString(entry.SheetPath),
		nullableString(entry.MidiPath),
		entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return s.Get(ctx, entry.ID)
}

// Get returns the entry with the exact id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Resolve finds the entry whose id equals or starts with ref.
func (s *Store) Resolve(ctx context.Context, ref string) (*Entry, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE substr(id, 1, ?) = ? LIMIT 2`, len(ref), ref)
	if err != nil {
		return nil, fmt.Errorf("resolve entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	switch len(entries) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return entries[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
	}
}

// List returns all entries, newest first.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// SetArtifactPaths records where the sheet and MIDI files were downloaded.
func (s *Store) SetArtifactPaths(ctx context.Context, id, sheetPath, midiPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET sheet_path = ?, midi_path = ? WHERE id = ?`,
		nullableString(sheetPath), nullableString(midiPath), id)
	if err != nil {
		return fmt.Errorf("update artifact paths: %w", err)
	}
	return requireOneRow(res, id)
}

// Remove deletes the entry with the exact id. Downloaded files are left alone.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireOneRow(res, id)
}

// Count returns the number of saved entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

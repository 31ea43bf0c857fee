package library

import (
	"errors"
	"time"

	"autosheetify/internal/input"
	"autosheetify/internal/textutil"
	"autosheetify/internal/transcribe"
)

var (
	// ErrNotFound is returned when no entry matches an id or prefix.
	ErrNotFound = errors.New("library entry not found")
	// ErrAmbiguousID is returned when a prefix matches more than one entry.
	ErrAmbiguousID = errors.New("library id prefix is ambiguous")
	// ErrNotSuccessful is returned when saving a result that carries no artifacts.
	ErrNotSuccessful = errors.New("only successful transcriptions can be saved")
)

// Entry is one saved transcription.
type Entry struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	Instrument       string    `json:"instrument"`
	SourceKind       string    `json:"source_kind"`
	SourceRef        string    `json:"source_ref,omitempty"`
	SheetURL         string    `json:"sheet_url"`
	MidiURL          string    `json:"midi_url"`
	SheetPath        string    `json:"sheet_path,omitempty"`
	MidiPath         string    `json:"midi_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Downloaded reports whether both artifacts have local copies.
func (e Entry) Downloaded() bool {
	return e.SheetPath != "" && e.MidiPath != ""
}

// EntryFromResult builds an unsaved entry from a successful result and the
// input it was produced from.
func EntryFromResult(result transcribe.Result, source input.Summary, instrument transcribe.Instrument) (Entry, error) {
	if !result.Succeeded() {
		return Entry{}, ErrNotSuccessful
	}
	ref := source.URL
	if source.Kind == input.KindFile.String() {
		ref = source.Name
	}
	name := result.OriginalFilename
	if name == "" {
		name = source.Name
	}
	title := textutil.TitleFromFilename(name, "")
	if title == "" {
		if id, ok := input.VideoID(ref); ok {
			title = "YouTube " + id
		} else {
			title = "Untitled Transcription"
		}
	}
	return Entry{
		Title:            title,
		OriginalFilename: result.OriginalFilename,
		Instrument:       instrument.String(),
		SourceKind:       source.Kind,
		SourceRef:        ref,
		SheetURL:         result.SheetURL,
		MidiURL:          result.MidiURL,
	}, nil
}
